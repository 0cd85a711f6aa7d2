package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/logger"
	"github.com/abhisek/kidtimer/internal/server"
	"github.com/abhisek/kidtimer/internal/speech"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := newTracker(st)
		if err != nil {
			return err
		}

		synth := speech.New(ctx, cfg)
		logger.Info("speech synthesizers", "providers", synth.Names())

		if len(cfg.Auth.Tokens) == 0 && !cfg.Auth.TrustHeader {
			fmt.Printf("No API tokens configured: every request acts as user %q.\n", cfg.User)
		}
		fmt.Printf("Listening on http://%s\n", cfg.Server.Addr)

		srv := server.New(cfg, server.Deps{
			Tracker: svc,
			Mentor:  newMentor(ctx, st),
			Speech:  synth,
		})
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
