package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/config"
	"github.com/abhisek/kidtimer/internal/llm"
	"github.com/abhisek/kidtimer/internal/logger"
	"github.com/abhisek/kidtimer/internal/mentor"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

// cfg is loaded once per invocation by the root PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "kidtimer",
	Short: "Activity timer that turns practice into reward time",
	Long: "kidtimer times a child's activities (piano, reading, football...) and " +
		"convert them into reward time, with weekly goals and a friendly AI mentor.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (overrides KIDTIMER_CONFIG env var)")
	pf.String("db", "", "Database file or DSN (overrides KIDTIMER_DB env var)")
	pf.String("user", "", "User id to act as (overrides KIDTIMER_USER env var)")
	pf.Bool("debug", false, "Verbose logging to stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(rewardCmd)
	rootCmd.AddCommand(startCmd, stopCmd, statusCmd, cancelCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(resetTodayCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(mentorCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(secretsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.Database.DSN = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		c.User = v
	}
	if v, _ := cmd.Flags().GetBool("debug"); v {
		c.Log.Debug = true
	}
	cfg = c

	if err := logger.Init(logger.Config{
		Debug:  c.Log.Debug,
		Dir:    c.Log.Dir,
		Stderr: cmd.Name() == "serve",
	}); err != nil {
		// Logging is best effort; a read-only config dir must not block use.
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
	}
	return nil
}

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newTracker builds the tracker service on st in the configured zone.
func newTracker(st *store.Store) (*tracker.Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return tracker.NewService(tracker.ReposFromStore(st), tracker.WithLocation(loc)), nil
}

// withTracker opens the store, runs fn and closes the store.
func withTracker(fn func(ctx context.Context, svc *tracker.Service) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	svc, err := newTracker(st)
	if err != nil {
		return err
	}
	return fn(context.Background(), svc)
}

// newMentor builds the mentor service. A missing LLM configuration is
// reported once and the mentor falls back to canned advice.
func newMentor(ctx context.Context, st *store.Store) *mentor.Service {
	provider, err := newProvider(ctx, st)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The mentor will use its offline advice.")
		return mentor.NewService(nil, mentor.DefaultConfig())
	}
	return mentor.NewService(provider, mentor.DefaultConfig())
}

func newProvider(ctx context.Context, st *store.Store) (llm.Provider, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	return llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
