package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// DeriveAlertsCmd creates the deriveAlerts command
func DeriveAlertsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deriveAlerts",
		Short: "Run the alert rules over evaluation history and raise new alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noEmail, _ := cmd.Flags().GetBool("no-email")

			notifyEmail := app.Cfg.NotificationEmail
			if noEmail {
				notifyEmail = ""
			}

			inserted, err := services.DeriveAlerts(
				app.Ctx, app.Database, app.Mailer(), app.Logger, app.Actor(),
				time.Now().UTC(), notifyEmail,
			)
			if err != nil {
				return err
			}

			if len(inserted) == 0 {
				fmt.Println("\nNo new alerts raised.")
				return nil
			}

			fmt.Printf("\n✓ Raised %d alerts:\n\n", len(inserted))
			for _, a := range inserted {
				fmt.Printf("  %s  volunteer=%s  %s (%s)\n", a.ID, a.VolunteerID, a.AlertType, a.Severity)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("no-email", false, "Raise alerts without sending notification emails")

	return cmd
}
