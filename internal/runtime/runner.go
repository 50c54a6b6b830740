package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// ErrExitNonZero matches any *ExitError.
var ErrExitNonZero = errors.New("process exited with non-zero status")

// ExitError reports a command that ran but exited with a non-zero code.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

// Is makes errors.Is(err, ErrExitNonZero) true.
func (e *ExitError) Is(target error) bool {
	return target == ErrExitNonZero
}

// Summary returns the first non-empty stderr line, or "exit code N".
func (e *ExitError) Summary() string {
	if line := FirstLine(e.Stderr); line != "" {
		return line
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Output captures the result of a completed command.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner spawns commands. Nil streams default to the process's own.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner returns a Runner wired to the current process streams.
func NewRunner() *Runner {
	return &Runner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *Runner) streams() (io.Reader, io.Writer, io.Writer) {
	stdin, stdout, stderr := r.Stdin, r.Stdout, r.Stderr
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdin, stdout, stderr
}

// Run executes c to completion. Its streams are connected to the runner's
// while stdout and stderr are also captured. A zero exit code returns a nil
// error; any other code returns an *ExitError alongside the output.
func (r *Runner) Run(ctx context.Context, c Command) (*Output, error) {
	log := zerolog.Ctx(ctx)

	stdin, stdout, stderr := r.streams()
	// A child sharing the user's terminal stays in the foreground group;
	// the terminal delivers Ctrl+C to it directly.
	cmd, err := c.build(ctx, !isTerminal(stdin))
	if err != nil {
		return nil, err
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	log.Debug().Str("cmd", c.String()).Str("dir", c.Dir).Msg("running command")

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStart, c, err)
	}
	err = cmd.Wait()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		output.ExitCode = -1
		return output, fmt.Errorf("running %s: %w", c, ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			log.Debug().Str("cmd", c.String()).Int("exit_code", output.ExitCode).Msg("command failed")
			return output, &ExitError{Command: c.String(), Code: output.ExitCode, Stderr: output.Stderr}
		}
		return output, fmt.Errorf("running %s: %w", c, err)
	}

	log.Debug().Str("cmd", c.String()).Msg("command succeeded")
	return output, nil
}

// FirstLine returns the first non-blank line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
