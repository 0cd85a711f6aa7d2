package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/stats"
	"github.com/abhisek/kidtimer/internal/tracker"
)

var startCmd = &cobra.Command{
	Use:   "start <activity>",
	Short: "Start timing an activity",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			act, err := findActivity(ctx, svc, strings.Join(args, " "))
			if err != nil {
				return err
			}
			sess, err := svc.Start(ctx, cfg.User, act.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s started at %s\n", act.Icon, act.Name,
				sess.Started().In(svc.Location()).Format("15:04"))
			return nil
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer and log the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			entry, err := svc.Stop(ctx, cfg.User)
			if errors.Is(err, tracker.ErrSessionTooShort) {
				fmt.Println("Session was shorter than a minute and was not saved.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s, earned %s\n",
				stats.FormatDuration(entry.Duration), stats.FormatReward(entry.EarnedReward))
			return nil
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Discard the running timer without logging",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			if err := svc.Cancel(ctx, cfg.User); err != nil {
				return err
			}
			fmt.Println("Timer cancelled.")
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			st, err := svc.Status(ctx, cfg.User)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(st)
			}
			if !st.Running() {
				fmt.Println("No timer running.")
				return nil
			}
			name, icon := st.Session.ActivityID, ""
			if st.Activity != nil {
				name, icon = st.Activity.Name, st.Activity.Icon
			}
			fmt.Printf("%s %s  %s\n", icon, name, stats.FormatClock(st.ElapsedMs))
			return nil
		})
	},
}

func init() {
	statusCmd.Flags().Bool("json", false, "Print JSON")
}
