// Package main provides the braid CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/born-ml/braid/internal/config"
	"github.com/born-ml/braid/internal/functor"
	"github.com/born-ml/braid/internal/log"
)

const version = "v0.1.0-dev"

var logger = log.For("cli")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds a fresh command tree so tests do not share flag state.
func newRootCmd() *cobra.Command {
	var (
		configPath string
		cfg        *config.Config
		restore    func()
	)

	root := &cobra.Command{
		Use:          "braid [subcommand]",
		Short:        "braid - string diagrams evaluated as tensors",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			cfg.ConfigureLogging()
			b, err := cfg.NewBackend()
			if err != nil {
				return err
			}
			restore = functor.UseBackend(b)
			logger.Debug("configured", "backend", b.Name(), "config", configPath)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if restore != nil {
				restore()
			}
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	settings := func() *config.Config { return cfg }
	root.AddCommand(newVersionCmd(), newLawsCmd(settings), newDemoCmd(), newInspectCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "braid %s\n", version)
		},
	}
}
