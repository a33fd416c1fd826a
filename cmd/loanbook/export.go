package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/duka/loanbook/internal/export"
	"github.com/duka/loanbook/internal/storage/sqlite"
)

func newExportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loan history spreadsheet and exit",
		Long: `Export flattens every loan's payments and items into a single
spreadsheet, overwriting any previous export at the same path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.ExportDir
			}

			store, err := sqlite.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			path, err := export.New(store).Run(cmd.Context(), outDir)
			if err != nil {
				return err
			}
			slog.Info("Export complete", "path", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default EXPORT_DIR)")
	return cmd
}
