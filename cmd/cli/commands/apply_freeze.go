package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// ApplyFreezeCmd creates the applyFreeze command
func ApplyFreezeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applyFreeze <volunteer_id> <start_date> <end_date>",
		Short: "Record an evaluation freeze for a volunteer (dates as YYYY-MM-DD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse("2006-01-02", args[1])
			if err != nil {
				return fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
			}
			end, err := time.Parse("2006-01-02", args[2])
			if err != nil {
				return fmt.Errorf("end_date must be YYYY-MM-DD: %w", err)
			}

			reason, _ := cmd.Flags().GetString("reason")

			rec, err := services.ApplyFreeze(
				app.Ctx, app.Database, app.Logger, app.Actor(),
				args[0], reason, start, end,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Freeze applied!\n\n")
			fmt.Printf("Freeze ID:   %s\n", rec.ID)
			fmt.Printf("Freeze Year: %d\n", rec.FreezeYear)
			fmt.Printf("Period:      %s to %s\n\n",
				rec.StartDate.Format("2006-01-02"), rec.EndDate.Format("2006-01-02"))

			return nil
		},
	}

	cmd.Flags().String("reason", "", "Reason for the freeze (required)")

	return cmd
}
