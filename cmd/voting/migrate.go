package main

import (
	"Go-Voting-Backend/cmd/config"
	migration "Go-Voting-Backend/cmd/database/migrate"

	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			db, err := config.ConnectDB(cfg)
			if err != nil {
				return err
			}
			return migration.Migrate(db)
		},
	}
}
