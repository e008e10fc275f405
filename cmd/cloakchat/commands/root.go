package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cloakchat/internal/config"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:   "cloakchat",
		Short: "Encrypted direct-message store and server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
			return nil
		},
	}

	root.AddCommand(serveCmd(), registerCmd(), keysCmd())
	return root.Execute()
}
