package batch

import (
	"context"
	"errors"
	"time"

	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/ormstarter/ormstarter/internal/runtime"
	"github.com/rs/zerolog"
)

// Executor runs a command to completion. *runtime.Runner implements it.
type Executor interface {
	Run(ctx context.Context, c runtime.Command) (*runtime.Output, error)
}

// Seeder runs every template's seed command.
type Seeder struct {
	Exec     Executor
	Registry *registry.Registry
	Dir      string // working directory for seed commands, normally the templates root
	Hooks    Hooks
}

// SeedAll seeds each template in registry order, one at a time. A failed
// seed is recorded and the loop continues. The error is non-nil only when
// ctx is cancelled.
func (s *Seeder) SeedAll(ctx context.Context) (*Report, error) {
	log := zerolog.Ctx(ctx)
	report := &Report{}

	for _, d := range s.Registry.All() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.Hooks.start(d)

		start := time.Now()
		o := Outcome{Key: d.Key, Label: d.Label, Port: d.Port, Status: StatusSuccess}
		_, err := s.Exec.Run(ctx, runtime.Command{
			Program: d.Commands.Seed.Program(),
			Args:    d.Commands.Seed.Args(),
			Dir:     s.Dir,
		})
		o.Elapsed = time.Since(start)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			o.Status = StatusFailed
			o.Message = seedMessage(err)
			log.Debug().Err(err).Str("template", d.Key).Msg("seed failed")
		}

		report.Add(o)
		s.Hooks.done(o)
	}
	return report, nil
}

func seedMessage(err error) string {
	var exitErr *runtime.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Summary()
	}
	return err.Error()
}
