package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	Long: "Without flags, prints the current settings. " +
		"With --reward-name, --language or --voice, updates them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var p tracker.SettingsPatch
		if f.Changed("reward-name") {
			v, _ := f.GetString("reward-name")
			p.RewardName = &v
		}
		if f.Changed("language") {
			v, _ := f.GetString("language")
			p.Language = &v
		}
		if f.Changed("voice") {
			v, _ := f.GetBool("voice")
			p.VoiceEnabled = &v
		}
		asJSON, _ := f.GetBool("json")

		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			var (
				s   store.Settings
				err error
			)
			if p == (tracker.SettingsPatch{}) {
				s, err = svc.Settings(ctx, cfg.User)
			} else {
				s, err = svc.UpdateSettings(ctx, cfg.User, p)
			}
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(s)
			}
			voice := "off"
			if s.VoiceEnabled {
				voice = "on"
			}
			fmt.Printf("Reward name:  %s\n", s.RewardName)
			fmt.Printf("Language:     %s (%s)\n", i18n.Lookup(s.Language).Name, s.Language)
			fmt.Printf("Voice:        %s\n", voice)
			return nil
		})
	},
}

func init() {
	f := settingsCmd.Flags()
	f.String("reward-name", "", "Name shown for reward time")
	f.String("language", "", "UI and mentor language (zh, en, fr, ...)")
	f.Bool("voice", true, "Speak confirmations and mentor advice")
	f.Bool("json", false, "Print JSON")
}
