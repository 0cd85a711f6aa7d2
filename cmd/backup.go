package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or restore all data as JSON",
}

var backupExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a backup to file (default stdout)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			data, err := svc.Export(ctx, cfg.User)
			if err != nil {
				return err
			}
			out := io.Writer(os.Stdout)
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("create backup: %w", err)
				}
				defer f.Close()
				out = f
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(data); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			if out != os.Stdout {
				fmt.Fprintf(os.Stderr, "Exported %d activities, %d rewards, %d sessions to %s\n",
					len(data.Activities), len(data.Rewards), len(data.Logs), args[0])
			}
			return nil
		})
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data with a backup (a snapshot is saved first)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := io.Reader(os.Stdin)
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer f.Close()
			in = f
		}
		var data store.SnapshotData
		if err := json.NewDecoder(in).Decode(&data); err != nil {
			return fmt.Errorf("parse backup: %w", err)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && args[0] == "-" {
			return fmt.Errorf("reading the backup from stdin requires --yes")
		}
		if !yes && !confirm("This replaces all current data. Continue?") {
			fmt.Println("Aborted.")
			return nil
		}
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			if err := svc.Import(ctx, cfg.User, &data); err != nil {
				return err
			}
			fmt.Printf("Imported %d activities, %d rewards, %d sessions.\n",
				len(data.Activities), len(data.Rewards), len(data.Logs))
			return nil
		})
	},
}

var backupUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the snapshot taken before the last reset or import",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return withTracker(func(ctx context.Context, svc *tracker.Service) error {
			snap, err := svc.LatestSnapshot(ctx, cfg.User)
			if err != nil {
				return err
			}
			if snap == nil {
				fmt.Println("No snapshot to restore.")
				return nil
			}
			q := fmt.Sprintf("Restore the %s snapshot from %s?", snap.Reason,
				snap.Timestamp.In(svc.Location()).Format("2006-01-02 15:04"))
			if !yes && !confirm(q) {
				fmt.Println("Aborted.")
				return nil
			}
			if err := svc.Import(ctx, cfg.User, &snap.Data); err != nil {
				return err
			}
			fmt.Println("Restored.")
			return nil
		})
	},
}

func init() {
	backupImportCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	backupUndoCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	backupCmd.AddCommand(backupExportCmd, backupImportCmd, backupUndoCmd)
}
