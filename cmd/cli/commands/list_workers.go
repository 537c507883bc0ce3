package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ListWorkersCmd creates the listWorkers command
func ListWorkersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listWorkers [location_id]",
		Short: "List the worker roster, optionally filtered by location",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var locationID string
			if len(args) > 0 {
				locationID = args[0]
			}

			workers, err := app.Database.GetWorkers(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list workers: %w", err)
			}

			app.Logger.Info("Workers fetched", zap.Int("count", len(workers)))

			printed := 0
			for _, w := range workers {
				if locationID != "" && !w.HasLocation(locationID) {
					continue
				}
				status := "active"
				if w.Inactive {
					status = "inactive"
				}
				leadInfo := ""
				if w.IsLead {
					leadInfo = " [lead]"
				}
				fmt.Printf("- %s (%s) - L%d - %s%s\n", w.Name(), w.ID, w.Level, status, leadInfo)
				printed++
			}
			fmt.Printf("\n%d workers\n", printed)

			return nil
		},
	}
}
