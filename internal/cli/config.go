package cli

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/ormstarter/ormstarter/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd, configGetCmd, configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write user settings",
	Long: `Settings live in ~/.ormstarter/config.yaml and can be overridden with
ORMSTARTER_<KEY> environment variables or the matching global flags.

Known keys: ` + strings.Join(config.Keys(), ", ") + `
List values (ready_markers, error_markers) are comma-separated.`,
}

// knownKey rejects typos before they reach the config file.
func knownKey(key string) error {
	if slices.Contains(config.Keys(), key) {
		return nil
	}
	return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(config.Keys(), ", "))
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Store a setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := knownKey(key); err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:       "get <key>",
	Short:     "Print the resolved value of a setting",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := knownKey(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting with its resolved value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE")
		for _, key := range config.Keys() {
			fmt.Fprintf(w, "%s\t%s\n", key, config.Get(key))
		}
		return w.Flush()
	},
}
