package main

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/duka/loanbook/internal/auth"
	"github.com/duka/loanbook/internal/service"
	"github.com/duka/loanbook/internal/storage/sqlite"
	"github.com/duka/loanbook/internal/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := sqlite.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()
			slog.Info("Storage initialized", "database", cfg.DBPath)

			authenticator := auth.NewPasswordAuthenticator(store)
			sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
			loans := service.NewLoanService(store)

			server := web.NewServer(loans, authenticator, sessions)

			slog.Info("Server starting", "address", cfg.ListenAddr)
			return http.ListenAndServe(cfg.ListenAddr, server.Handler())
		},
	}
}
