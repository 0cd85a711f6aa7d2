package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the activity timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetBool("no-splash")
		return runApp(cmd, skip)
	},
}

func init() {
	playCmd.Flags().Bool("no-splash", false, "Go straight to the activity grid")
}
