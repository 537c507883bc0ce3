package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jzsun22/orvia-scheduler/cmd/cli/commands"
	"github.com/jzsun22/orvia-scheduler/internal/config"
	"github.com/jzsun22/orvia-scheduler/pkg/db"
	"github.com/jzsun22/orvia-scheduler/pkg/postgres"
	"github.com/jzsun22/orvia-scheduler/pkg/utils/logging"
)

var (
	env        string
	configPath string
	app        *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Orvia Scheduler CLI - Manage weekly staff schedules",
		Long:  `A CLI tool for generating weekly staff schedules from shift templates, worker availability, and recurring assignments.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
			if app != nil && app.Postgres != nil {
				app.Postgres.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (defaults to orvia_config.yaml)")
	rootCmd.MarkPersistentFlagRequired("env")

	app = &commands.AppContext{}
	rootCmd.AddCommand(commands.GenerateScheduleCmd(app))
	rootCmd.AddCommand(commands.ListWorkersCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger, config, and database shared by all commands
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Logger.Info("Connecting to database")
	app.Postgres, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Roster reads are cached so generating several locations in a row
	// reuses the same fetches
	app.Database = db.NewCachedDatabase(app.Postgres, app.Cfg.CacheTTL())
	app.Logger.Info("Database initialized successfully")

	return nil
}
