package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListAlertsCmd creates the listAlerts command
func ListAlertsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listAlerts",
		Short: "List alerts, optionally filtered by volunteer or unresolved status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteerID, _ := cmd.Flags().GetString("volunteer")
			unresolvedOnly, _ := cmd.Flags().GetBool("unresolved")

			alerts, err := app.Database.ListAlerts(app.Ctx, volunteerID, unresolvedOnly)
			if err != nil {
				return err
			}

			if len(alerts) == 0 {
				fmt.Println("\nNo alerts found.")
				return nil
			}

			fmt.Printf("\n%d alerts:\n\n", len(alerts))
			for _, a := range alerts {
				status := "open"
				if a.IsResolved {
					status = "resolved"
				}
				fmt.Printf("  %s  volunteer=%s  %s (%s)  [%s]\n",
					a.ID, a.VolunteerID, a.AlertType, a.Severity, status)
				fmt.Printf("      %s\n", a.Message)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("volunteer", "", "Only alerts for this volunteer")
	cmd.Flags().Bool("unresolved", false, "Only unresolved alerts")

	return cmd
}
