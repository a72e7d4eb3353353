package main

import (
	"canirun/internal/config"
	fxmodules "canirun/internal/fx"
	"canirun/internal/logger"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type cli struct {
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive func() bool

	logLevel string
	logger   zerolog.Logger
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newRootCmd(in io.Reader, out, errOut io.Writer, interactive func() bool) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut, interactive: interactive}

	root := &cobra.Command{
		Use:   "canirun",
		Short: "Check whether this machine meets a Steam game's system requirements",
		Long: `canirun compares the local machine's storage, CPU, GPU memory and RAM
against the minimum or recommended PC requirements a game publishes on Steam.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.logger = logger.NewConsole(c.errOut, c.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		c.newCheckCmd(),
		c.newProfileCmd(),
		c.newServeCmd(),
		c.newVersionCmd(),
	)
	return root
}

// app builds the dependency graph for a one-shot command and fills targets.
func (c *cli) app(opts ...fx.Option) error {
	all := append([]fx.Option{
		fxmodules.Module,
		fx.Supply(c.logger),
		fx.NopLogger,
	}, opts...)
	return fx.New(all...).Err()
}

func withOracleProvider(provider string) fx.Option {
	return fx.Decorate(func(cfg *config.Config) *config.Config {
		out := *cfg
		out.OracleProvider = provider
		return &out
	})
}
