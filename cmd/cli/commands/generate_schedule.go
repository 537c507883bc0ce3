package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jzsun22/orvia-scheduler/pkg/core/services"
	"github.com/jzsun22/orvia-scheduler/pkg/core/timeutil"
)

// GenerateScheduleCmd creates the generateSchedule command
func GenerateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSchedule <location_id>",
		Short: "Generate a week's schedule for a location",
		Long:  "Run the generation engine to assign workers to shift template instances for one week, then persist the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locationID := args[0]
			weekFlag, _ := cmd.Flags().GetString("week")

			weekOf := time.Now()
			if weekFlag != "" {
				loc, err := time.LoadLocation(app.Cfg.TimezoneName())
				if err != nil {
					return fmt.Errorf("failed to load timezone: %w", err)
				}
				weekOf, err = time.ParseInLocation("2006-01-02", weekFlag, loc)
				if err != nil {
					return fmt.Errorf("week must be a YYYY-MM-DD date: %w", err)
				}
			}

			app.Logger.Debug("generateSchedule command",
				zap.String("location_id", locationID),
				zap.String("week", weekFlag))

			result := services.GenerateSchedule(app.Ctx, app.Database, app.Cfg, app.Logger, locationID, weekOf)

			fmt.Printf("\nSchedule Generation Results\n\n")
			fmt.Printf("Location:   %s\n", result.LocationID)
			fmt.Printf("Week Start: %s\n", timeutil.DateKey(result.WeekDates[0]))
			if result.Success {
				fmt.Printf("Status:     SUCCESS (saved to database)\n")
			} else {
				fmt.Printf("Status:     FAILED (not saved)\n")
			}
			fmt.Println()

			if len(result.Warnings) > 0 {
				fmt.Printf("Warnings (%d):\n", len(result.Warnings))
				for _, w := range result.Warnings {
					fmt.Printf("  - %s\n", w)
				}
				fmt.Println()
			}

			if len(result.Shifts) > 0 {
				fmt.Printf("Generated Shifts (%d):\n\n", len(result.Shifts))
				fmt.Printf("%-12s  %-12s  %-14s  %-12s  %s\n", "Date", "Position", "Time", "Worker", "Origin")
				for _, shift := range result.Shifts {
					origin := "generated"
					if shift.IsRecurringGenerated {
						origin = "recurring"
					}
					fmt.Printf("%-12s  %-12s  %s-%s    %-12s  %s\n",
						timeutil.DateKey(shift.Date),
						shift.PositionID,
						shift.Start, shift.End,
						shift.WorkerID,
						origin)
				}
				fmt.Println()
			}

			if len(result.UnassignedSlots) > 0 {
				fmt.Printf("Unassigned Slots (%d):\n", len(result.UnassignedSlots))
				for _, slot := range result.UnassignedSlots {
					leadInfo := ""
					if slot.LeadType != nil {
						leadInfo = fmt.Sprintf(" [%s lead]", *slot.LeadType)
					}
					fmt.Printf("  - %s %s on %s%s\n",
						slot.PositionID, slot.TemplateID, timeutil.DateKey(slot.Date), leadInfo)
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().String("week", "", "Any date within the target week (YYYY-MM-DD, defaults to the current week)")

	return cmd
}
