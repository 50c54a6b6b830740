package batch

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/ormstarter/ormstarter/internal/runtime"
	"github.com/rs/zerolog"
)

// Handle is a started template server. *runtime.Process implements it.
type Handle interface {
	Kill() error
}

// Launcher starts a template server and waits for it to settle.
type Launcher interface {
	Launch(ctx context.Context, d *registry.Descriptor) (Handle, runtime.ReadyResult, error)
}

// RunnerLauncher launches a template's run command with PORT set to the
// template's port.
type RunnerLauncher struct {
	Runner  *runtime.Runner
	Dir     string
	Options runtime.ReadyOptions
}

// Launch implements Launcher.
func (l *RunnerLauncher) Launch(ctx context.Context, d *registry.Descriptor) (Handle, runtime.ReadyResult, error) {
	p, res, err := l.Runner.RunUntilReady(ctx, runtime.Command{
		Program: d.Commands.Run.Program(),
		Args:    d.Commands.Run.Args(),
		Dir:     l.Dir,
		Env:     map[string]string{"PORT": strconv.Itoa(d.Port)},
	}, l.Options)
	if err != nil {
		if p != nil {
			_ = p.Kill()
		}
		return nil, res, err
	}
	return p, res, nil
}

// Tester starts each template, probes its API and stops it again.
type Tester struct {
	Launcher Launcher
	Prober   Prober
	Registry *registry.Registry
	Hooks    Hooks
}

// TestAll tests each template in registry order, one at a time. The error
// is non-nil only when ctx is cancelled.
func (t *Tester) TestAll(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, d := range t.Registry.All() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		t.Hooks.start(d)
		o := t.testOne(ctx, d)
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Add(o)
		t.Hooks.done(o)
	}
	return report, nil
}

func (t *Tester) testOne(ctx context.Context, d *registry.Descriptor) Outcome {
	log := zerolog.Ctx(ctx)
	start := time.Now()
	o := Outcome{Key: d.Key, Label: d.Label, Port: d.Port}

	h, res, err := t.Launcher.Launch(ctx, d)
	if err != nil {
		o.Status = StatusFailed
		o.Message = err.Error()
		o.Elapsed = time.Since(start)
		return o
	}
	defer func() {
		if err := h.Kill(); err != nil {
			log.Warn().Err(err).Str("template", d.Key).Msg("failed to stop server")
		}
	}()

	switch res.State {
	case runtime.StateReady:
		if err := t.Prober.Probe(ctx, d.Port); err != nil {
			o.Status = StatusAPIError
			o.Message = apiMessage(err)
		} else {
			o.Status = StatusSuccess
		}
	case runtime.StateTimeout:
		o.Status = StatusTimeout
		o.Message = res.Message
	default:
		o.Status = StatusFailed
		o.Message = res.Message
	}

	o.Elapsed = time.Since(start)
	log.Debug().Str("template", d.Key).Str("status", string(o.Status)).Dur("elapsed", o.Elapsed).Msg("template tested")
	return o
}

func apiMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	return err.Error()
}
