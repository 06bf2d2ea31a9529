package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/core/services"
)

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importRoster <roster.yaml>",
		Short: "Load volunteers and criteria from a roster file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read roster file: %w", err)
			}

			var roster services.Roster
			if err := yaml.Unmarshal(data, &roster); err != nil {
				return fmt.Errorf("failed to parse roster file: %w", err)
			}

			volunteerIDs, criterionIDs, err := services.ImportRoster(
				app.Ctx, app.Database, app.Logger, &roster,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster imported!\n\n")
			fmt.Printf("Volunteers: %d\n", len(volunteerIDs))
			fmt.Printf("Criteria:   %d\n\n", len(criterionIDs))

			return nil
		},
	}
}
