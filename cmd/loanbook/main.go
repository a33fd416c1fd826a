// Command loanbook runs the loan tracking web application and its
// administrative export.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/duka/loanbook/internal/config"
	"github.com/duka/loanbook/pkg/logging"
)

var envFile string

func main() {
	root := &cobra.Command{
		Use:           "loanbook",
		Short:         "Micro-loan tracking for a small business",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to the .env file (missing file is ignored)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newExportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and installs the logger, shared by both
// subcommands.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel)
	return cfg, nil
}
