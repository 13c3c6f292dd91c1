package main

import (
	"Go-Voting-Backend/internal/utils"
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

const programName = "voting"

type configKey struct{}

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Points purchase and voting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig(configFile)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		tokenCommand(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Errorw("command failed", "component", programName, "error", err)
		os.Exit(1)
	}
}

func configFromContext(ctx context.Context) (*utils.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*utils.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	return cfg, nil
}
