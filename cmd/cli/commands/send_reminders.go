package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// SendRemindersCmd creates the sendReminders command
func SendRemindersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sendReminders",
		Short: "Email a summary of volunteers missing an evaluation this period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.ReminderSchedule == "" {
				return fmt.Errorf("no reminderSchedule configured")
			}

			result, err := services.SendEvaluationReminders(
				app.Ctx, app.Database, app.Mailer(), app.Logger,
				app.Cfg.ReminderSchedule, time.Now().UTC(), app.Cfg.NotificationEmail,
			)
			if err != nil {
				return err
			}

			if len(result.Missing) == 0 {
				fmt.Println("\nAll active volunteers are evaluated for the current period.")
				return nil
			}

			fmt.Printf("\n%d volunteers missing an evaluation for %d/%d:\n\n",
				len(result.Missing), result.Month, result.Year)
			for _, v := range result.Missing {
				fmt.Printf("  - %s %s (%s)\n", v.FirstName, v.LastName, v.Role)
			}
			if result.EmailSent {
				fmt.Printf("\nReminder email sent to %s\n", app.Cfg.NotificationEmail)
			}
			fmt.Println()

			return nil
		},
	}
}
