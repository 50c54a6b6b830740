package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/ormstarter/ormstarter/internal/platform"
	"github.com/rs/zerolog"
)

// DefaultReadyTimeout applies when ReadyOptions.Timeout is zero.
const DefaultReadyTimeout = 10 * time.Second

// Default markers matched against server output.
var (
	DefaultReadyMarkers = []string{"Server running", "listening"}
	DefaultErrorMarkers = []string{"Error", "EADDRINUSE"}
)

var (
	// ErrTimeout means no marker was seen before the deadline.
	ErrTimeout = errors.New("timed out waiting for server to become ready")
	// ErrStderrSignal means an error marker appeared on stderr first.
	ErrStderrSignal = errors.New("error reported on stderr")
)

// State is the terminal state of a readiness watch.
type State int

const (
	StateReady State = iota + 1
	StateTimeout
	StateErrorSignal
	StateExited
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateTimeout:
		return "timeout"
	case StateErrorSignal:
		return "error"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// ReadyOptions configures RunUntilReady.
type ReadyOptions struct {
	ReadyMarkers []string // substrings of stdout that mean ready
	ErrorMarkers []string // substrings of stderr that mean failure
	Timeout      time.Duration
	Output       io.Writer // optional mirror of the child's output
}

func (o ReadyOptions) withDefaults() ReadyOptions {
	if len(o.ReadyMarkers) == 0 {
		o.ReadyMarkers = DefaultReadyMarkers
	}
	if len(o.ErrorMarkers) == 0 {
		o.ErrorMarkers = DefaultErrorMarkers
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultReadyTimeout
	}
	return o
}

// ReadyResult describes how the watch ended.
type ReadyResult struct {
	State    State
	Message  string
	ExitCode int // set for StateExited
	Elapsed  time.Duration
}

// Err converts a non-ready result into an error.
func (r ReadyResult) Err() error {
	switch r.State {
	case StateReady:
		return nil
	case StateTimeout:
		return ErrTimeout
	case StateErrorSignal:
		return fmt.Errorf("%w: %s", ErrStderrSignal, r.Message)
	case StateExited:
		return fmt.Errorf("%w: %s", ErrExitNonZero, r.Message)
	default:
		return fmt.Errorf("unknown readiness state %d", r.State)
	}
}

// Process is a child started by RunUntilReady.
type Process struct {
	cmd     *exec.Cmd
	exited  chan struct{}
	waitErr error

	stop     chan struct{}
	stopOnce sync.Once

	killOnce sync.Once
	killErr  error
}

// Pid returns the child's process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Done is closed once the child has exited and its output is drained.
func (p *Process) Done() <-chan struct{} {
	return p.exited
}

// Wait blocks until the child exits and returns its wait error.
func (p *Process) Wait() error {
	<-p.exited
	return p.waitErr
}

// Kill terminates the child and its process group, then waits for it to
// exit. It is safe to call more than once.
func (p *Process) Kill() error {
	p.killOnce.Do(func() {
		select {
		case <-p.exited:
		default:
			p.killErr = platform.KillProcessGroup(p.cmd.Process)
		}
	})
	p.detach()
	<-p.exited
	return p.killErr
}

// detach stops forwarding output; later writes from the child are dropped.
func (p *Process) detach() {
	p.stopOnce.Do(func() { close(p.stop) })
}

type streamKind int

const (
	streamStdout streamKind = iota
	streamStderr
)

type chunk struct {
	kind streamKind
	data []byte
}

// eventWriter forwards each write to the watch loop until the process is
// detached. It never fails so the child is never blocked on a full pipe.
type eventWriter struct {
	kind   streamKind
	events chan<- chunk
	stop   <-chan struct{}
	mirror io.Writer
}

func (w *eventWriter) Write(b []byte) (int, error) {
	if w.mirror != nil {
		_, _ = w.mirror.Write(b)
	}
	data := append([]byte(nil), b...)
	select {
	case w.events <- chunk{kind: w.kind, data: data}:
	case <-w.stop:
	}
	return len(b), nil
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(b)
}

// RunUntilReady starts c and watches its output. The first of these wins:
// a ready marker anywhere in accumulated stdout, an error marker in
// accumulated stderr, the child exiting, or the timeout. On timeout the
// child is killed before returning; in every other case the caller owns
// the returned Process and must Kill it.
func (r *Runner) RunUntilReady(ctx context.Context, c Command, opts ReadyOptions) (*Process, ReadyResult, error) {
	log := zerolog.Ctx(ctx)
	opts = opts.withDefaults()

	cmd, err := c.build(ctx, true)
	if err != nil {
		return nil, ReadyResult{}, err
	}

	events := make(chan chunk)
	p := &Process{
		cmd:    cmd,
		exited: make(chan struct{}),
		stop:   make(chan struct{}),
	}

	var mirror io.Writer
	if opts.Output != nil {
		mirror = &lockedWriter{w: opts.Output}
	}
	cmd.Stdout = &eventWriter{kind: streamStdout, events: events, stop: p.stop, mirror: mirror}
	cmd.Stderr = &eventWriter{kind: streamStderr, events: events, stop: p.stop, mirror: mirror}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, ReadyResult{}, fmt.Errorf("%w: %s: %v", ErrStart, c, err)
	}
	log.Debug().Str("cmd", c.String()).Int("pid", cmd.Process.Pid).Msg("process started")

	go func() {
		p.waitErr = cmd.Wait()
		close(p.exited)
	}()

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()

	var stdout, stderr strings.Builder
	finish := func(res ReadyResult) (*Process, ReadyResult, error) {
		p.detach()
		res.Elapsed = time.Since(start)
		log.Debug().Str("cmd", c.String()).Stringer("state", res.State).Dur("elapsed", res.Elapsed).Msg("readiness settled")
		return p, res, nil
	}

	for {
		select {
		case ch := <-events:
			switch ch.kind {
			case streamStdout:
				stdout.Write(ch.data)
				if containsAny(stdout.String(), opts.ReadyMarkers) {
					return finish(ReadyResult{State: StateReady})
				}
			case streamStderr:
				stderr.Write(ch.data)
				if line := markerLine(stderr.String(), opts.ErrorMarkers); line != "" {
					return finish(ReadyResult{State: StateErrorSignal, Message: line})
				}
			}

		case <-p.exited:
			if ctxErr := ctx.Err(); ctxErr != nil {
				p.detach()
				return p, ReadyResult{}, fmt.Errorf("running %s: %w", c, ctxErr)
			}
			code := cmd.ProcessState.ExitCode()
			msg := FirstLine(stderr.String())
			if msg == "" {
				msg = fmt.Sprintf("exited with code %d before becoming ready", code)
			}
			return finish(ReadyResult{State: StateExited, Message: msg, ExitCode: code})

		case <-timer.C:
			res := ReadyResult{
				State:   StateTimeout,
				Message: fmt.Sprintf("no ready signal within %s", opts.Timeout),
			}
			p.detach()
			if err := p.Kill(); err != nil {
				log.Warn().Err(err).Int("pid", p.Pid()).Msg("failed to kill timed out process")
			}
			return finish(res)

		case <-ctx.Done():
			_ = p.Kill()
			return p, ReadyResult{}, fmt.Errorf("running %s: %w", c, ctx.Err())
		}
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// markerLine returns the first line of s containing any marker.
func markerLine(s string, markers []string) string {
	for _, line := range strings.Split(s, "\n") {
		if containsAny(line, markers) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
