package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/goals"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show weekly goal progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, _ := cmd.Flags().GetInt("week-offset")
		asJSON, _ := cmd.Flags().GetBool("json")
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			report, err := weeklyReport(ctx, svc, offset)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(report)
			}
			fmt.Printf("Week %s – %s", report.From, report.To)
			if offset == 0 {
				fmt.Printf("  (%d days left)", report.DaysLeft)
			}
			fmt.Println()
			if len(report.Goals) == 0 {
				fmt.Println("No weekly goals set. Use `kidtimer activity edit <name> --goal-sessions N`.")
				return nil
			}
			for _, p := range report.Goals {
				mark := " "
				if p.Done() {
					mark = "✓"
				}
				fmt.Printf("%s %-4s %-20s %s %d/%d  %3d%%  %dm of %dm\n", mark, p.Icon, truncate(p.Name, 20),
					bar(p.Percent, 20), p.CompletedSessions, p.TargetSessions, p.Percent,
					p.TotalMinutes, p.TargetTotalMinutes)
			}
			return nil
		})
	},
}

// weeklyReport computes goal progress for the week at offset from now.
func weeklyReport(ctx context.Context, svc *tracker.Service, offset int) (goals.Report, error) {
	now := svc.Now()
	week := goals.WeekRange(now, offset)
	acts, err := svc.Activities(ctx, cfg.User)
	if err != nil {
		return goals.Report{}, err
	}
	logs, err := svc.Logs(ctx, cfg.User, store.LogQuery{From: week.FirstDay(), To: week.LastDay()})
	if err != nil {
		return goals.Report{}, err
	}
	return goals.Weekly(acts, logs, now, offset), nil
}

func bar(percent, width int) string {
	filled := min(max(percent, 0), 100) * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func init() {
	goalsCmd.Flags().Int("week-offset", 0, "Weeks relative to this one (-1 = last week)")
	goalsCmd.Flags().Bool("json", false, "Print JSON")
}
