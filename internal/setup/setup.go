package setup

import (
	"context"

	"github.com/ormstarter/ormstarter/internal/prompt"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/rs/zerolog"
)

// Result summarizes a setup run.
type Result struct {
	EnvPath    string
	EnvCreated bool
	EnvSource  string // ".env.example" or "defaults" when created
	Env        map[string]string
	TSConfigs  []string // tsconfig.json files written
}

// Setup prepares the templates root.
type Setup struct {
	Root     string
	Registry *registry.Registry
	// UI asks for database settings; when nil the defaults are used as is.
	UI prompt.UI
	// Override adjusts the defaults before they are offered or used.
	Override func(a *Answers)
}

// Run ensures the env file exists, updates its database settings and
// writes missing tsconfig.json files.
func (s *Setup) Run(ctx context.Context) (*Result, error) {
	log := zerolog.Ctx(ctx)
	res := &Result{EnvPath: EnvPath(s.Root)}

	created, source, err := EnsureEnv(s.Root)
	if err != nil {
		return nil, err
	}
	res.EnvCreated, res.EnvSource = created, source
	if created {
		log.Debug().Str("path", res.EnvPath).Str("source", source).Msg("created env file")
	}

	answers, err := s.answers(res.EnvPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if res.Env, err = UpdateEnv(res.EnvPath, answers); err != nil {
		return nil, err
	}
	log.Debug().Str("path", res.EnvPath).Msg("updated env file")

	if res.TSConfigs, err = EnsureTSConfigs(s.Root, s.Registry); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Setup) answers(envPath string) (Answers, error) {
	defaults := DefaultAnswers()
	if env, err := ReadEnv(envPath); err == nil {
		defaults = defaults.FromEnv(env)
	}

	if s.Override != nil {
		s.Override(&defaults)
	}

	if s.UI != nil {
		return Ask(s.UI, defaults)
	}
	return defaults, defaults.Validate()
}
