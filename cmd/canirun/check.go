package main

import (
	"bufio"
	"canirun/internal/config"
	"canirun/internal/domain"
	"canirun/internal/report"
	"canirun/internal/service"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type checkOptions struct {
	tier    string
	json    bool
	offline bool
}

func (c *cli) newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [APPID]",
		Short: "Check this machine against a game's requirements",
		Long: `Check fetches the game's PC requirements from Steam, extracts the numbers
and compares them with the local machine. Without APPID it asks for the id
and tier interactively.`,
		Example: "  canirun check 271590 --tier recommended",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.tier, "tier", "minimum", "requirement tier: minimum or recommended")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "extract requirements with local rules instead of the language model")
	return cmd
}

func (c *cli) runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	appID, tier, err := c.resolveTarget(args, opts.tier, cmd.Flags().Changed("tier"))
	if err != nil {
		return err
	}

	fxOpts := []fx.Option{}
	if opts.offline {
		fxOpts = append(fxOpts, withOracleProvider(config.OracleProviderRules))
	}

	var svc *service.CompatibilityService
	if err := c.app(append(fxOpts, fx.Populate(&svc))...); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if !opts.json {
		fmt.Fprintln(c.out, "🎮 Checking game compatibility...")
		fmt.Fprintln(c.out, "📊 Gathering system information...")
	}

	rep, err := svc.Check(cmd.Context(), appID, tier)
	if err != nil {
		return err
	}

	if opts.json {
		return report.JSON(c.out, rep)
	}
	return report.NewRenderer(c.out).Report(rep)
}

// resolveTarget takes the app id from args, or prompts for it and the tier
// when stdin is a terminal.
func (c *cli) resolveTarget(args []string, tierFlag string, tierSet bool) (string, domain.Tier, error) {
	if len(args) == 1 {
		appID, err := service.ValidateAppID(args[0])
		if err != nil {
			return "", "", fmt.Errorf("%w: %w", errUsage, err)
		}
		tier, err := domain.ParseTier(tierFlag)
		if err != nil {
			return "", "", fmt.Errorf("%w: %w", errUsage, err)
		}
		return appID, tier, nil
	}

	if !c.interactive() {
		return "", "", fmt.Errorf("%w: APPID is required when stdin is not a terminal", errUsage)
	}

	r := bufio.NewReader(c.in)
	appID, err := promptAppID(r, c.out)
	if err != nil {
		return "", "", err
	}

	if tierSet {
		tier, err := domain.ParseTier(tierFlag)
		if err != nil {
			return "", "", fmt.Errorf("%w: %w", errUsage, err)
		}
		return appID, tier, nil
	}

	tier, err := promptTier(r, c.out)
	if err != nil {
		return "", "", err
	}
	return appID, tier, nil
}
