package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/ormstarter/ormstarter/internal/platform"
	"golang.org/x/term"
)

// waitDelay bounds how long Wait keeps reading output after the process
// exits, in case a grandchild still holds the pipes.
const waitDelay = 2 * time.Second

// ErrStart is returned when a command cannot be spawned.
var ErrStart = errors.New("failed to start process")

// Command is a program with ordered arguments. Arguments are passed to the
// program directly and never through a shell.
type Command struct {
	Program string
	Args    []string
	Dir     string            // working directory; empty means the current one
	Env     map[string]string // overrides on top of the inherited environment
}

// String renders the command for display.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Program))
	for _, a := range c.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// build resolves the program on PATH and prepares an exec.Cmd. With
// ownGroup the child runs in its own process group and is killed as a group
// when ctx is cancelled; otherwise it stays in the terminal's foreground
// group, where reading stdin does not stop it with SIGTTIN.
func (c Command) build(ctx context.Context, ownGroup bool) (*exec.Cmd, error) {
	if c.Program == "" {
		return nil, fmt.Errorf("%w: empty program", ErrStart)
	}
	path, err := lookPath(c.Program)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStart, c.Program, err)
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = mergeEnv(os.Environ(), c.Env)
	cmd.WaitDelay = waitDelay
	if ownGroup {
		platform.ConfigureProcessGroup(cmd)
		cmd.Cancel = func() error {
			return platform.KillProcessGroup(cmd.Process)
		}
	}
	return cmd, nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

var lookPath = exec.LookPath

// mergeEnv applies overrides to env in sorted key order.
func mergeEnv(env []string, overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := append([]string(nil), env...)
	for _, k := range keys {
		out = setEnv(out, k, overrides[k])
	}
	return out
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
