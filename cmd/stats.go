package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/stats"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the totals for a day (default today)",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		asJSON, _ := cmd.Flags().GetBool("json")
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			if date == "" {
				date = svc.Today()
			}
			acts, rewards, logs, err := loadAll(ctx, svc, store.LogQuery{Date: date})
			if err != nil {
				return err
			}
			sum := stats.Day(date, acts, rewards, logs)
			if asJSON {
				return printJSON(sum)
			}

			settings, err := svc.Settings(ctx, cfg.User)
			if err != nil {
				return err
			}
			fmt.Printf("%s  total %s, earned %s\n", sum.Date,
				stats.FormatDuration(sum.TotalDurationMs), stats.FormatReward(sum.TotalEarnedMs))
			fmt.Println(strings.Repeat("─", 48))
			for _, a := range sum.Activities {
				fmt.Printf("%-4s %-20s %3d× %8s  +%s\n", a.Icon, truncate(a.Name, 20), a.Sessions,
					stats.FormatDuration(a.DurationMs), stats.FormatReward(a.EarnedMs))
			}
			if len(sum.Rewards) > 0 {
				fmt.Println()
				for _, r := range sum.Rewards {
					name, icon := r.Name, r.Icon
					if r.RewardID == "" {
						name, icon = settings.RewardName, tracker.DefaultRewardIcon
					}
					fmt.Printf("%-4s %-20s %s\n", icon, truncate(name, 20), stats.FormatReward(r.EarnedMs))
				}
			}
			return nil
		})
	},
}

var statsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show per-day totals, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		asJSON, _ := cmd.Flags().GetBool("json")
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			acts, _, logs, err := loadAll(ctx, svc, store.LogQuery{From: from, To: to})
			if err != nil {
				return err
			}
			days := stats.History(acts, logs)
			if asJSON {
				return printJSON(days)
			}
			if len(days) == 0 {
				fmt.Println("No sessions recorded yet.")
				return nil
			}
			for _, d := range days {
				fmt.Printf("%s  %s\n", d.Date, stats.FormatDuration(d.TotalMs))
				for _, a := range d.Activities {
					fmt.Printf("    %-4s %-20s %s\n", a.Icon, truncate(a.Name, 20), stats.FormatDuration(a.DurationMs))
				}
			}
			return nil
		})
	},
}

// loadAll fetches the user's activities, rewards and the logs matching q.
func loadAll(ctx context.Context, svc *tracker.Service, q store.LogQuery) ([]store.Activity, []store.Reward, []store.LogEntry, error) {
	acts, err := svc.Activities(ctx, cfg.User)
	if err != nil {
		return nil, nil, nil, err
	}
	rewards, err := svc.Rewards(ctx, cfg.User)
	if err != nil {
		return nil, nil, nil, err
	}
	logs, err := svc.Logs(ctx, cfg.User, q)
	if err != nil {
		return nil, nil, nil, err
	}
	return acts, rewards, logs, nil
}

func init() {
	statsCmd.Flags().String("date", "", "Day as YYYY-MM-DD (default today)")
	statsCmd.Flags().Bool("json", false, "Print JSON")
	statsHistoryCmd.Flags().String("from", "", "First day as YYYY-MM-DD")
	statsHistoryCmd.Flags().String("to", "", "Last day as YYYY-MM-DD")
	statsHistoryCmd.Flags().Bool("json", false, "Print JSON")
	statsCmd.AddCommand(statsHistoryCmd)
}
