package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lead-miners/scout/internal/keys"
	"github.com/lead-miners/scout/internal/ui"
)

// keysCmd groups API key management subcommands
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the geo API key in the system keyring",
}

var keysSetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Store the geo API key in the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keys.SetGeoAPIKey(args[0]); err != nil {
			return fmt.Errorf("storing key: %w", err)
		}
		fmt.Fprintln(os.Stderr, ui.Success("Geo API key stored"))
		return nil
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the geo API key currently in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := keys.GeoAPIKey("")
		if key == "" {
			return fmt.Errorf("no geo API key configured (set one with 'scout keys set')")
		}
		fmt.Println(key)
		return nil
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the geo API key from the system keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keys.DeleteGeoAPIKey(); err != nil {
			return fmt.Errorf("removing key: %w", err)
		}
		fmt.Fprintln(os.Stderr, ui.Success("Geo API key removed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysSetCmd, keysShowCmd, keysDeleteCmd)
}
