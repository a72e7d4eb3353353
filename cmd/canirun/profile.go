package main

import (
	"canirun/internal/report"
	"canirun/internal/service"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func (c *cli) newProfileCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the hardware figures used for comparisons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var provider service.ProfileProvider
			if err := c.app(fx.Populate(&provider)); err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}

			p, err := provider.GetLocalProfile(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return report.JSON(c.out, p)
			}
			return report.NewRenderer(c.out).Profile(p)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the profile as JSON")
	return cmd
}
