package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// ResolveAlertCmd creates the resolveAlert command
func ResolveAlertCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolveAlert <alert_id> <resolution_notes>",
		Short: "Resolve an alert and record a note on the volunteer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.ResolveAlert(
				app.Ctx, app.Database, app.Logger, app.Actor(),
				args[0], args[1],
			); err != nil {
				return err
			}

			fmt.Printf("\n✓ Alert %s resolved.\n\n", args[0])
			return nil
		},
	}
}
