package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/i18n"
	"github.com/abhisek/kidtimer/internal/mentor"
	"github.com/abhisek/kidtimer/internal/speech"
)

var mentorCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Ask the mentor for advice on this week's goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		speak, _ := cmd.Flags().GetBool("speak")
		lang, _ := cmd.Flags().GetString("lang")
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx := cmd.Context()
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		svc, err := newTracker(st)
		if err != nil {
			return err
		}

		if lang == "" {
			settings, err := svc.Settings(ctx, cfg.User)
			if err != nil {
				return err
			}
			lang = settings.Language
		}
		lang = i18n.Match(lang)

		report, err := weeklyReport(ctx, svc, 0)
		if err != nil {
			return err
		}

		askCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		adv := newMentor(ctx, st).Advise(askCtx, mentor.InputFromReport(report, svc.Now(), lang))

		if asJSON {
			if err := printJSON(adv); err != nil {
				return err
			}
		} else {
			for _, s := range []string{adv.Summary, adv.Suggestion, adv.Encouragement} {
				if s != "" {
					fmt.Println(s)
				}
			}
		}

		if !speak {
			return nil
		}
		synth := speech.New(ctx, cfg)
		if len(synth.Names()) == 0 {
			fmt.Fprintln(os.Stderr, "No speech synthesizer available.")
			return nil
		}
		speakCtx, cancelSpeak := context.WithTimeout(ctx, 60*time.Second)
		defer cancelSpeak()
		if _, err := speech.NewSpeaker(synth, cfg.Speech.Player).Speak(speakCtx, adv.Narration(), lang); err != nil {
			return fmt.Errorf("speak: %w", err)
		}
		return nil
	},
}

func init() {
	mentorCmd.Flags().Bool("speak", false, "Read the advice aloud")
	mentorCmd.Flags().String("lang", "", "Reply language (default from settings)")
	mentorCmd.Flags().Bool("json", false, "Print JSON")
}
