package cli

import (
	"context"

	"github.com/ormstarter/ormstarter/internal/menu"
	"github.com/spf13/cobra"
)

func runMenu(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	m := &menu.Menu{
		UI:         a.ui(),
		Registry:   a.registry,
		Actions:    &menuActions{app: a},
		Out:        a.out,
		OutputRoot: a.settings.OutputDir,
	}
	return m.Run(cmd.Context())
}

// menuActions runs the same code paths as the subcommands.
type menuActions struct {
	app *app
}

func (m *menuActions) Start(ctx context.Context, key string) error {
	return startTemplate(ctx, m.app, key)
}

func (m *menuActions) ExtractOne(ctx context.Context, key, dest string) error {
	return extractOne(ctx, m.app, key, dest)
}

func (m *menuActions) ExtractAll(ctx context.Context, outputRoot string) error {
	_, err := extractAll(ctx, m.app, outputRoot)
	return err
}

func (m *menuActions) Setup(ctx context.Context) error {
	return runSetup(ctx, m.app, true, nil)
}

func (m *menuActions) TestAll(ctx context.Context) error {
	_, err := testAll(ctx, m.app, false)
	return err
}

func (m *menuActions) SeedAll(ctx context.Context) error {
	_, err := seedAll(ctx, m.app, false)
	return err
}
