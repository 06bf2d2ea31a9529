package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// CompareVolunteersCmd creates the compareVolunteers command
func CompareVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compareVolunteers <year> <volunteer_id>...",
		Short: "Compare volunteer performance over one calendar year",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year must be a number: %w", err)
			}

			comparisons, err := services.CompareVolunteers(
				app.Ctx, app.Database, app.Logger, args[1:], year,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\nPerformance comparison for %d:\n\n", year)
			for _, c := range comparisons {
				fmt.Printf("  %s %s (%s)\n", c.Volunteer.FirstName, c.Volunteer.LastName, c.Volunteer.Role)
				fmt.Printf("    Evaluations: %d\n", c.EvaluationCount)
				fmt.Printf("    Mean:        %.2f%%\n", c.MeanPercentage)
				fmt.Printf("    Consistency: %.2f\n", c.Consistency)
				fmt.Printf("    Trend:       %s\n\n", c.Trend)
			}

			return nil
		},
	}
}
