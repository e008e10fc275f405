package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"cloakchat/internal/auth"
	"cloakchat/internal/chat"
	"cloakchat/internal/handlers"
	"cloakchat/internal/keys"
	"cloakchat/internal/store/sqlstore"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlstore.New(cfg.Database.Driver, cfg.Database.DSN)
			if err != nil {
				return err
			}

			km := keys.New(cfg.Cipher.Shift)
			signer := auth.NewCookieSigner(cfg.Server.CookieSecret)

			authSvc := auth.NewService(store, logger, cfg.Auth)
			chatSvc := chat.NewService(store, km, logger, cfg.Cipher.Layered)

			router := handlers.NewRouter(
				&handlers.AuthHandler{Auth: authSvc, Signer: signer},
				&handlers.ChatHandler{Chat: chatSvc},
				&handlers.KeyHandler{Keys: km},
				signer,
				logger,
			)

			if addr == "" {
				addr = cfg.Server.Addr
			}
			server := &http.Server{
				Addr:         addr,
				Handler:      router,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			logger.Info("starting server", "addr", addr, "driver", cfg.Database.Driver)
			return server.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
