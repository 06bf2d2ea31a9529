package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// CreateAlertCmd creates the createAlert command
func CreateAlertCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "createAlert <volunteer_id> <alert_type> <severity> <message>",
		Short: "Raise an alert manually for a volunteer",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			alert, err := services.CreateAlert(
				app.Ctx, app.Database, app.Logger, app.Actor(),
				services.CreateAlertInput{
					VolunteerID: args[0],
					AlertType:   args[1],
					Severity:    args[2],
					Message:     args[3],
				},
			)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Alert created!\n\n")
			fmt.Printf("Alert ID: %s\n", alert.ID)
			fmt.Printf("Type:     %s (%s)\n\n", alert.AlertType, alert.Severity)

			return nil
		},
	}
}
