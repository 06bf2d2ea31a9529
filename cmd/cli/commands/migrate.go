package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Migrator is implemented by backends that manage their schema with
// versioned migrations
type Migrator interface {
	RunMigrations(ctx context.Context) error
}

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, ok := app.Database.(Migrator)
			if !ok {
				return fmt.Errorf("backend %q does not use migrations", app.Cfg.Storage.Backend)
			}

			if err := migrator.RunMigrations(app.Ctx); err != nil {
				return err
			}

			fmt.Println("\n✓ Migrations applied.")
			return nil
		},
	}
}
