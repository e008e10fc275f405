package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloakchat/internal/auth"
	"cloakchat/internal/store/sqlstore"
)

func registerCmd() *cobra.Command {
	var username, email, password, displayName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account directly against the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlstore.New(cfg.Database.Driver, cfg.Database.DSN)
			if err != nil {
				return err
			}

			svc := auth.NewService(store, logger, cfg.Auth)
			id, err := svc.Register(cmd.Context(), username, email, password, displayName)
			if err != nil {
				return err
			}

			fmt.Printf("User created.\nID: %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "unique username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "unique email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (min length from config)")
	cmd.Flags().StringVarP(&displayName, "name", "n", "", "display name")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("name")
	return cmd
}
