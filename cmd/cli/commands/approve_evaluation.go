package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// ApproveEvaluationCmd creates the approveEvaluation command
func ApproveEvaluationCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approveEvaluation <evaluation_id>",
		Short: "Approve a draft evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.ApproveEvaluation(
				app.Ctx, app.Database, app.Logger, app.Actor(), args[0],
			); err != nil {
				return err
			}

			fmt.Printf("\n✓ Evaluation %s approved.\n\n", args[0])
			return nil
		},
	}
}
