package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/cmd/cli/commands"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/internal/config"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/clients/gmailclient"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/postgres"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/sqlite"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/utils"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/utils/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &commands.AppContext{Ctx: context.Background()}

	var (
		configPath string
		debug      bool
		closeDB    func()
	)

	rootCmd := &cobra.Command{
		Use:   "zad",
		Short: "Volunteer performance evaluation backend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				app.Cfg, err = config.LoadFromPath(configPath)
			} else {
				app.Cfg, err = config.Load()
			}
			if err != nil {
				return err
			}

			app.Logger, err = logging.InitLogger(app.Cfg.Environment, debug)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}

			app.Database, closeDB, err = openDatabase(app.Ctx, app.Cfg)
			if err != nil {
				return err
			}

			if app.Cfg.GmailSender != "" {
				client, err := newGmailClient(app.Ctx, app.Cfg)
				if err != nil {
					app.Logger.Warn("Gmail client unavailable, continuing without email", zap.Error(err))
				} else {
					app.GmailClient = client
				}
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if closeDB != nil {
				closeDB()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.MigrateCmd(app),
		commands.ImportRosterCmd(app),
		commands.SubmitEvaluationCmd(app),
		commands.UpdateEvaluationCmd(app),
		commands.ApproveEvaluationCmd(app),
		commands.ApplyFreezeCmd(app),
		commands.DeriveAlertsCmd(app),
		commands.CreateAlertCmd(app),
		commands.ResolveAlertCmd(app),
		commands.ListAlertsCmd(app),
		commands.CompareVolunteersCmd(app),
		commands.SendRemindersCmd(app),
	)

	return rootCmd.Execute()
}

func openDatabase(ctx context.Context, cfg *config.Config) (db.Database, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		pg, err := postgres.NewDB(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return pg, pg.Close, nil
	case "sqlite":
		sq, err := sqlite.NewDB(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return sq, func() { _ = sq.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newGmailClient(ctx context.Context, cfg *config.Config) (*gmailclient.Client, error) {
	oauthCfg, err := config.LoadOAuthClientWithEnv(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load oauth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, err
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain oauth token: %w", err)
	}

	return gmailclient.NewClient(ctx, oauthCfg, token)
}
