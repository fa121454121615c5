package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/crm-service/internal/config"
	"github.com/vasiliy-maslov/crm-service/internal/logging"
)

var (
	configPath string
	envFile    string
	cfg        *config.Config

	rootCmd = &cobra.Command{
		Use:           "crm",
		Short:         "CRM service: GraphQL API, maintenance jobs and admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath, envFile)
			if err != nil {
				return err
			}
			cfg = loaded
			logging.Setup(cfg.App.Name, cfg.App.LogLevel, cfg.App.LogPretty)
			log.Debug().Interface("config_loaded", cfg).Msg("Configuration loaded")
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file, ignored when missing")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, jobsCmd, adminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
