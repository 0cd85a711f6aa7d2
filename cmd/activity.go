package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"activities"},
	Short:   "Manage activities",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			acts, err := svc.Activities(ctx, cfg.User)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(acts)
			}
			if len(acts) == 0 {
				fmt.Println("No activities yet. Add one with `kidtimer activity add <name>`.")
				return nil
			}
			fmt.Printf("%-36s  %-4s  %-20s  %6s  %s\n", "ID", "", "Name", "×", "Weekly goal")
			fmt.Println(strings.Repeat("─", 90))
			for _, a := range acts {
				goal := "-"
				if a.Goal.Active() {
					goal = fmt.Sprintf("%d × %dm", a.Goal.Sessions, a.Goal.MinutesPerSession)
				}
				fmt.Printf("%-36s  %-4s  %-20s  %6g  %s\n", a.ID, a.Icon, truncate(a.Name, 20), a.RewardMultiplier, goal)
			}
			return nil
		})
	},
}

var activityAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an activity",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		in := tracker.ActivityInput{Name: strings.Join(args, " ")}
		in.Icon, _ = f.GetString("icon")
		in.Color, _ = f.GetString("color")
		in.RewardID, _ = f.GetString("reward")
		if f.Changed("multiplier") {
			m, _ := f.GetFloat64("multiplier")
			in.RewardMultiplier = &m
		}
		in.Goal.Sessions, _ = f.GetInt("goal-sessions")
		in.Goal.MinutesPerSession, _ = f.GetInt("goal-minutes")
		in.Goal.Enabled = in.Goal.Sessions > 0

		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			act, err := svc.CreateActivity(ctx, cfg.User, in)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s %s (%s)\n", act.Icon, act.Name, act.ID)
			return nil
		})
	},
}

var activityEditCmd = &cobra.Command{
	Use:   "edit <id|name>",
	Short: "Change an activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var p tracker.ActivityPatch
		if f.Changed("name") {
			v, _ := f.GetString("name")
			p.Name = &v
		}
		if f.Changed("icon") {
			v, _ := f.GetString("icon")
			p.Icon = &v
		}
		if f.Changed("color") {
			v, _ := f.GetString("color")
			p.Color = &v
		}
		if f.Changed("reward") {
			v, _ := f.GetString("reward")
			p.RewardID = &v
		}
		if f.Changed("multiplier") {
			v, _ := f.GetFloat64("multiplier")
			p.RewardMultiplier = &v
		}
		if f.Changed("goal-sessions") {
			v, _ := f.GetInt("goal-sessions")
			enabled := v > 0
			p.GoalSessions = &v
			p.GoalEnabled = &enabled
		}
		if f.Changed("goal-minutes") {
			v, _ := f.GetInt("goal-minutes")
			p.MinutesPerSession = &v
		}

		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			act, err := findActivity(ctx, svc, args[0])
			if err != nil {
				return err
			}
			act, err = svc.UpdateActivity(ctx, cfg.User, act.ID, p)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s %s\n", act.Icon, act.Name)
			return nil
		})
	},
}

var activityRmCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"delete"},
	Short:   "Delete an activity (its logs are kept)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			act, err := findActivity(ctx, svc, args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteActivity(ctx, cfg.User, act.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted %s %s\n", act.Icon, act.Name)
			return nil
		})
	},
}

var rewardCmd = &cobra.Command{
	Use:     "reward",
	Aliases: []string{"rewards"},
	Short:   "Manage reward buckets",
}

var rewardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reward buckets",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			rs, err := svc.Rewards(ctx, cfg.User)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(rs)
			}
			if len(rs) == 0 {
				fmt.Println("No reward buckets yet.")
				return nil
			}
			for _, r := range rs {
				fmt.Printf("%-36s  %s %s\n", r.ID, r.Icon, r.Name)
			}
			return nil
		})
	},
}

var rewardAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a reward bucket",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		icon, _ := cmd.Flags().GetString("icon")
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			r, err := svc.CreateReward(ctx, cfg.User, strings.Join(args, " "), icon)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s %s (%s)\n", r.Icon, r.Name, r.ID)
			return nil
		})
	},
}

var rewardRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a reward bucket and unlink its activities",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			if err := svc.DeleteReward(ctx, cfg.User, args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted reward", args[0])
			return nil
		})
	},
}

// findActivity resolves ref as an activity id, then as a case-insensitive
// name.
func findActivity(ctx context.Context, svc *tracker.Service, ref string) (*store.Activity, error) {
	acts, err := svc.Activities(ctx, cfg.User)
	if err != nil {
		return nil, err
	}
	for i := range acts {
		if acts[i].ID == ref {
			return &acts[i], nil
		}
	}
	var match *store.Activity
	for i := range acts {
		if strings.EqualFold(acts[i].Name, ref) {
			if match != nil {
				return nil, fmt.Errorf("%q matches more than one activity; use its id", ref)
			}
			match = &acts[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", tracker.ErrActivityNotFound, ref)
	}
	return match, nil
}

func addActivityFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("icon", "", "Emoji icon")
	f.String("color", "", "Card color as #RRGGBB")
	f.Float64("multiplier", 1, "Reward minutes earned per minute of activity")
	f.String("reward", "", "Reward bucket id")
	f.Int("goal-sessions", 0, "Weekly goal: sessions per week (0 disables)")
	f.Int("goal-minutes", 0, "Weekly goal: minutes per session")
}

func init() {
	addActivityFlags(activityAddCmd)
	addActivityFlags(activityEditCmd)
	activityEditCmd.Flags().String("name", "", "New name")
	activityListCmd.Flags().Bool("json", false, "Print JSON")
	activityCmd.AddCommand(activityListCmd, activityAddCmd, activityEditCmd, activityRmCmd)

	rewardAddCmd.Flags().String("icon", "", "Emoji icon")
	rewardListCmd.Flags().Bool("json", false, "Print JSON")
	rewardCmd.AddCommand(rewardListCmd, rewardAddCmd, rewardRmCmd)
}
