package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/ormstarter/ormstarter/internal/runtime"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:       "start <template>",
	Short:     "Run one template server in the foreground",
	Long:      `Run a template's dev server on its own port. Press Ctrl+C to stop it.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: registry.SupportedKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		d, err := a.registry.Lookup(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, styleInfo(fmt.Sprintf("\n🚀 Starting %s on port %d...", d.Label, d.Port)))
		fmt.Fprintln(a.out, styleMuted(fmt.Sprintf("Visit http://localhost:%d%s", d.Port, a.settings.ProbePath)))
		fmt.Fprintln(a.out, styleMuted("Press Ctrl+C to stop\n"))
		return startTemplate(cmd.Context(), a, d.Key)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

// startTemplate runs a template server with inherited stdio until it exits
// or ctx is cancelled.
func startTemplate(ctx context.Context, a *app, key string) error {
	d, err := a.registry.Lookup(key)
	if err != nil {
		return err
	}
	_, err = a.foregroundRunner().Run(ctx, runtime.Command{
		Program: d.Commands.Run.Program(),
		Args:    d.Commands.Run.Args(),
		Dir:     a.settings.TemplatesRoot,
		Env:     map[string]string{"PORT": strconv.Itoa(d.Port)},
	})
	if err != nil {
		return fmt.Errorf("running %s: %w", key, err)
	}
	return nil
}
