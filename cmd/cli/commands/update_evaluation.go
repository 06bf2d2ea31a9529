package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// UpdateEvaluationCmd creates the updateEvaluation command
func UpdateEvaluationCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateEvaluation <evaluation_id>",
		Short: "Replace the scores of an existing evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawScores, _ := cmd.Flags().GetStringArray("score")
			scores, err := parseScoreFlags(rawScores)
			if err != nil {
				return err
			}

			eval, err := services.UpdateEvaluationScores(
				app.Ctx, app.Database, app.Logger, app.Actor(),
				args[0], scores,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Evaluation updated!\n\n")
			fmt.Printf("Evaluation ID: %s\n", eval.ID)
			fmt.Printf("Total Score:   %.2f / %.2f (%.2f%%)\n\n",
				eval.TotalScore, eval.MaxPossibleScore, eval.Percentage)

			return nil
		},
	}

	cmd.Flags().StringArray("score", nil, "Criterion score as criteria_id=value (repeatable)")

	return cmd
}
