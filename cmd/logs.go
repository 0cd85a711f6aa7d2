package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/stats"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List logged sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var q store.LogQuery
		q.Date, _ = f.GetString("date")
		q.From, _ = f.GetString("from")
		q.To, _ = f.GetString("to")
		q.Limit, _ = f.GetInt("limit")
		ref, _ := f.GetString("activity")
		asJSON, _ := f.GetBool("json")

		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			if ref != "" {
				act, err := findActivity(ctx, svc, ref)
				if err != nil {
					return err
				}
				q.ActivityID = act.ID
			}
			logs, err := svc.Logs(ctx, cfg.User, q)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(logs)
			}
			if len(logs) == 0 {
				fmt.Println("No sessions found.")
				return nil
			}

			acts, err := svc.Activities(ctx, cfg.User)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(acts))
			for _, a := range acts {
				names[a.ID] = a.Icon + " " + a.Name
			}
			loc := svc.Location()
			fmt.Printf("%-36s  %-10s  %-11s  %-22s  %8s  %8s\n", "ID", "Date", "Time", "Activity", "Length", "Earned")
			fmt.Println(strings.Repeat("─", 106))
			for _, l := range logs {
				name, ok := names[l.ActivityID]
				if !ok {
					name = l.ActivityID
				}
				span := time.UnixMilli(l.StartTime).In(loc).Format("15:04") + "–" +
					time.UnixMilli(l.EndTime).In(loc).Format("15:04")
				fmt.Printf("%-36s  %-10s  %-11s  %-22s  %8s  %8s\n", l.ID, l.DateStr, span,
					truncate(name, 22), stats.FormatDuration(l.Duration), stats.FormatReward(l.EarnedReward))
			}
			return nil
		})
	},
}

var logsRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete one logged session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			if err := svc.DeleteLog(ctx, cfg.User, args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted session", args[0])
			return nil
		})
	},
}

var resetTodayCmd = &cobra.Command{
	Use:   "reset-today",
	Short: "Delete all of today's sessions (a snapshot is saved first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm("Delete all of today's sessions?") {
			fmt.Println("Aborted.")
			return nil
		}
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			n, err := svc.ResetToday(ctx, cfg.User)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d session(s) from %s.\n", n, svc.Today())
			return nil
		})
	},
}

// confirm asks a yes/no question on stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	f := logsCmd.Flags()
	f.String("date", "", "Exact day as YYYY-MM-DD")
	f.String("from", "", "First day as YYYY-MM-DD")
	f.String("to", "", "Last day as YYYY-MM-DD")
	f.String("activity", "", "Activity id or name")
	f.IntP("limit", "n", 0, "Maximum number of sessions (0 = all)")
	f.Bool("json", false, "Print JSON")
	logsCmd.AddCommand(logsRmCmd)

	resetTodayCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
