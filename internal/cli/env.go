package cli

import (
	"fmt"
	"os"
	goruntime "runtime"
	"strings"

	"github.com/ormstarter/ormstarter/internal/platform"
	"github.com/ormstarter/ormstarter/internal/runtime"
	"github.com/ormstarter/ormstarter/internal/setup"
	"github.com/spf13/cobra"
)

var envShowNoRedact bool

func init() {
	envShowCmd.Flags().BoolVar(&envShowNoRedact, "no-redact", false, "Show values without redaction")

	envCmd.AddCommand(envEditCmd)
	envCmd.AddCommand(envShowCmd)
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect or edit the templates root .env file",
}

var envShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print .env contents (redacted by default)",
	Long: `Print the templates root .env with passwords and connection strings
redacted. Use --no-redact to show actual values.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		path := setup.EnvPath(a.settings.TemplatesRoot)
		env, err := setup.ReadEnv(path)
		if err != nil {
			return fmt.Errorf("%w (run '%s setup' to create it)", err, rootCmd.Name())
		}
		if len(env) == 0 {
			fmt.Fprintln(a.out, "(empty)")
			return nil
		}

		fmt.Fprintf(a.out, "# %s\n", path)
		for _, p := range setup.Redacted(env) {
			value := p.Value
			if envShowNoRedact {
				value = env[p.Key]
			}
			fmt.Fprintf(a.out, "%s=%s\n", p.Key, value)
		}
		return nil
	},
}

var envEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open .env in your editor",
	Long: `Open the templates root .env in $EDITOR (vi, or notepad on Windows).
The file is created from .env.example or the defaults when missing and is
kept readable by its owner only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		root := a.settings.TemplatesRoot
		created, source, err := setup.EnsureEnv(root)
		if err != nil {
			return err
		}
		path := setup.EnvPath(root)
		if created {
			fmt.Fprintf(a.out, "Created %s from %s\n", path, source)
		}

		editor := editorCommand(path)
		if _, err := a.foregroundRunner().Run(cmd.Context(), editor); err != nil {
			return fmt.Errorf("running editor %s: %w", editor.Program, err)
		}
		return platform.RestrictToOwner(path)
	},
}

// editorCommand builds the command that opens path in $EDITOR. EDITOR may
// carry arguments, e.g. "code -w".
func editorCommand(path string) runtime.Command {
	fields := strings.Fields(os.Getenv("EDITOR"))
	if len(fields) == 0 {
		if goruntime.GOOS == "windows" {
			fields = []string{"notepad"}
		} else {
			fields = []string{"vi"}
		}
	}
	return runtime.Command{
		Program: fields[0],
		Args:    append(fields[1:], path),
	}
}
