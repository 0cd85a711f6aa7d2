package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kidtimer/internal/keyring"
)

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage API keys and the database DSN in the OS keyring",
	Long: "Secrets stored here are used when the matching config value is empty. " +
		"Valid names: " + strings.Join(keyring.Names, ", ") + ".",
	// Keyring access needs no config or database.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var secretsSetCmd = &cobra.Command{
	Use:   "set <name> [value]",
	Short: "Store a secret (reads the value from stdin when omitted)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := ""
		if len(args) == 2 {
			value = args[1]
		} else {
			fmt.Fprintf(os.Stderr, "Value for %s: ", args[0])
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read value: %w", err)
			}
			value = strings.TrimSpace(line)
		}
		if err := keyring.Set(args[0], value); err != nil {
			return err
		}
		fmt.Printf("Stored %s in the keyring.\n", args[0])
		return nil
	},
}

var secretsDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a secret",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which secrets are stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !keyring.IsAvailable() {
			return keyring.ErrKeyringUnavailable
		}
		for _, name := range keyring.Names {
			state := "set"
			if _, err := keyring.Get(name); err != nil {
				if !errors.Is(err, keyring.ErrNotFound) {
					return err
				}
				state = "-"
			}
			fmt.Printf("%-12s %s\n", name, state)
		}
		return nil
	},
}

func init() {
	secretsCmd.AddCommand(secretsSetCmd, secretsDeleteCmd, secretsListCmd)
}
