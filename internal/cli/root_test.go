package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/ormstarter/ormstarter/internal/prompt"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with args and scripted stdin, returning
// everything written to stdout and stderr.
func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", homeDir(t))
	color.NoColor = true

	viper.Reset()
	bindFlags()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

var homes sync.Map

// homeDir returns a temporary home directory shared by every execute call
// in one test.
func homeDir(t *testing.T) string {
	t.Helper()
	if dir, ok := homes.Load(t); ok {
		return dir.(string)
	}
	dir := t.TempDir()
	homes.Store(t, dir)
	t.Cleanup(func() { homes.Delete(t) })
	return dir
}

// resetFlags restores every flag in the tree to its default so earlier runs
// do not leak into later ones.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// templatesRoot builds a repository with a minimal source tree per template.
func templatesRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, registry.EnvTemplateName), "DB_HOST=localhost\nDB_PASSWORD=\nPORT=3000\n")
	for _, key := range registry.SupportedKeys {
		writeFile(t, filepath.Join(root, key, "app.js"), "console.log('Server running')\n")
		writeFile(t, filepath.Join(root, key, "node_modules", "x", "index.js"), "x")
	}
	return root
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := execute(t, "", "bogus")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(assert.AnError))
	assert.Equal(t, 130, ExitCode(context.Canceled))
	assert.Equal(t, 130, ExitCode(prompt.ErrInterrupted))
}
