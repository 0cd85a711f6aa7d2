package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/app"
	"github.com/abhisek/kidtimer/internal/speech"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, skipSplash bool) error {
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

	deps := app.Deps{
		Tracker: svc,
		Mentor:  newMentor(ctx, st),
		User:    cfg.User,
	}

	synth := speech.New(ctx, cfg)
	if len(synth.Names()) == 0 {
		fmt.Fprintln(os.Stderr, "No speech synthesizer available; voice is disabled.")
	} else {
		deps.Speaker = speech.NewSpeaker(synth, cfg.Speech.Player)
	}

	lang := ""
	if set, err := svc.Settings(ctx, cfg.User); err == nil {
		lang = set.Language
	}

	return app.Run(deps, app.Options{SkipSplash: skipSplash, Language: lang})
}
