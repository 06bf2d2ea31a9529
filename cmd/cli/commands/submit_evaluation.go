package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/scoring"
	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// parseScoreFlags turns repeated criteria_id=value flags into submitted scores
func parseScoreFlags(raw []string) ([]scoring.SubmittedScore, error) {
	scores := make([]scoring.SubmittedScore, 0, len(raw))
	for _, s := range raw {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("score must be criteria_id=value, got %q", s)
		}
		scores = append(scores, scoring.SubmittedScore{
			CriteriaID: parts[0],
			Value:      parts[1],
		})
	}
	return scores, nil
}

// SubmitEvaluationCmd creates the submitEvaluation command
func SubmitEvaluationCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submitEvaluation <volunteer_id> <month> <year>",
		Short: "Submit a draft evaluation for a volunteer and period",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("month must be a number: %w", err)
			}
			year, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("year must be a number: %w", err)
			}

			rawScores, _ := cmd.Flags().GetStringArray("score")
			scores, err := parseScoreFlags(rawScores)
			if err != nil {
				return err
			}

			eval, err := services.SubmitEvaluation(
				app.Ctx, app.Database, app.Logger, app.Actor(),
				args[0], month, year, scores,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Evaluation submitted!\n\n")
			fmt.Printf("Evaluation ID: %s\n", eval.ID)
			fmt.Printf("Period:        %d/%d\n", eval.Month, eval.Year)
			fmt.Printf("Total Score:   %.2f / %.2f (%.2f%%)\n\n",
				eval.TotalScore, eval.MaxPossibleScore, eval.Percentage)

			return nil
		},
	}

	cmd.Flags().StringArray("score", nil, "Criterion score as criteria_id=value (repeatable)")

	return cmd
}
