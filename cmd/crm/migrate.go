package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/crm-service/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the database schema up to date",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbCfg := cfg.Database
		dbCfg.AutoMigrate = false

		d, err := db.New(dbCfg)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Migrate(dbCfg); err != nil {
			return err
		}
		log.Info().Str("driver", dbCfg.Driver).Msg("Database schema is up to date")
		return nil
	},
}
