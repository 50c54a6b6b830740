package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ormstarter/ormstarter/internal/batch"
	"github.com/ormstarter/ormstarter/internal/config"
	"github.com/ormstarter/ormstarter/internal/prompt"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/ormstarter/ormstarter/internal/runtime"
	"github.com/ormstarter/ormstarter/internal/scaffold"
	"github.com/spf13/cobra"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	settings config.Settings
	registry *registry.Registry
	in       io.Reader
	out      io.Writer
	errOut   io.Writer

	prompter prompt.UI
}

func newApp(cmd *cobra.Command) (*app, error) {
	reg, err := registry.Load()
	if err != nil {
		return nil, fmt.Errorf("loading template registry: %w", err)
	}
	return &app{
		settings: config.Current(),
		registry: reg,
		in:       cmd.InOrStdin(),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}, nil
}

// ui returns the shared prompter. Line mode buffers its input, so one
// instance serves the whole session.
func (a *app) ui() prompt.UI {
	if a.prompter == nil {
		a.prompter = prompt.New(a.in, a.out)
	}
	return a.prompter
}

func (a *app) extractor() *scaffold.Extractor {
	return &scaffold.Extractor{Registry: a.registry, TemplatesRoot: a.settings.TemplatesRoot}
}

// foregroundRunner connects children to the command's streams.
func (a *app) foregroundRunner() *runtime.Runner {
	return &runtime.Runner{Stdin: a.in, Stdout: a.out, Stderr: a.errOut}
}

// batchRunner keeps child output off the terminal unless verbose.
func (a *app) batchRunner(verbose bool) *runtime.Runner {
	r := &runtime.Runner{Stdin: strings.NewReader(""), Stdout: io.Discard, Stderr: io.Discard}
	if verbose {
		r.Stdout, r.Stderr = a.errOut, a.errOut
	}
	return r
}

func (a *app) readyOptions(verbose bool) runtime.ReadyOptions {
	opts := runtime.ReadyOptions{
		ReadyMarkers: a.settings.ReadyMarkers,
		ErrorMarkers: a.settings.ErrorMarkers,
		Timeout:      a.settings.ReadyTimeout,
	}
	if verbose {
		opts.Output = a.errOut
	}
	return opts
}

func (a *app) seeder(verbose bool) *batch.Seeder {
	return &batch.Seeder{
		Exec:     a.batchRunner(verbose),
		Registry: a.registry,
		Dir:      a.settings.TemplatesRoot,
	}
}

func (a *app) tester(verbose bool) *batch.Tester {
	return &batch.Tester{
		Launcher: &batch.RunnerLauncher{
			Runner:  a.batchRunner(verbose),
			Dir:     a.settings.TemplatesRoot,
			Options: a.readyOptions(verbose),
		},
		Prober: &batch.HTTPProber{
			Host:    a.settings.ProbeHost,
			Path:    a.settings.ProbePath,
			Timeout: a.settings.ProbeTimeout,
		},
		Registry: a.registry,
	}
}

// strictErr turns a partial batch failure into a command error when strict
// mode is on.
func (a *app) strictErr(report *batch.Report) error {
	if !a.settings.Strict {
		return nil
	}
	return report.Err()
}

// templatesRootExists warns when the configured templates root is missing.
func (a *app) templatesRootExists() bool {
	info, err := os.Stat(a.settings.TemplatesRoot)
	return err == nil && info.IsDir()
}
