package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ormstarter/ormstarter/internal/prompt"
	"github.com/ormstarter/ormstarter/internal/registry"
)

// State is a menu screen.
type State int

const (
	StateMain State = iota
	StateExtract
	StateExit
)

func (s State) String() string {
	switch s {
	case StateMain:
		return "main"
	case StateExtract:
		return "extract"
	case StateExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Main menu entries after the templates.
const (
	itemExtract = "Extract Template"
	itemSetup   = "Setup Project"
	itemTestAll = "Test All ORMs"
	itemSeedAll = "Seed All Databases"
	itemExit    = "Exit"
)

// Extract submenu entries.
const (
	itemSingle = "Single Template"
	itemAll    = "All Templates"
	itemBack   = "← Back to Main Menu"
)

// Actions perform the work behind menu entries. Each returns when the work
// is done; a returned error is reported and the menu continues.
type Actions interface {
	Start(ctx context.Context, key string) error
	ExtractOne(ctx context.Context, key, dest string) error
	ExtractAll(ctx context.Context, outputRoot string) error
	Setup(ctx context.Context) error
	TestAll(ctx context.Context) error
	SeedAll(ctx context.Context) error
}

// Menu drives the interactive session.
type Menu struct {
	UI       prompt.UI
	Registry *registry.Registry
	Actions  Actions
	Out      io.Writer

	// BaseDir is offered as the parent of single-template destinations.
	BaseDir string
	// OutputRoot is offered as the destination for extracting everything.
	OutputRoot string
}

// Run shows the main menu until the user exits, interrupts a prompt or ctx
// is cancelled. Only context cancellation is returned as an error.
func (m *Menu) Run(ctx context.Context) error {
	state := StateMain
	for state != StateExit {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch state {
		case StateMain:
			state, err = m.main(ctx)
		case StateExtract:
			state, err = m.extract(ctx)
		default:
			return fmt.Errorf("unknown menu state %d", state)
		}

		if errors.Is(err, prompt.ErrInterrupted) {
			state = StateExit
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			fmt.Fprintf(m.Out, "\nError: %v\n", err)
			state = StateMain
		}
	}
	fmt.Fprintln(m.Out, "Goodbye!")
	return nil
}

// MainItems returns the main menu labels in display order.
func (m *Menu) MainItems() []string {
	var items []string
	for _, d := range m.Registry.All() {
		items = append(items, fmt.Sprintf("%s (port %d)", d.Label, d.Port))
	}
	return append(items, itemExtract, itemSetup, itemTestAll, itemSeedAll, itemExit)
}

func (m *Menu) main(ctx context.Context) (State, error) {
	templates := m.Registry.All()
	idx, err := m.UI.Select("What would you like to do?", m.MainItems())
	if err != nil {
		return StateExit, err
	}

	if idx < len(templates) {
		return StateMain, m.start(ctx, templates[idx])
	}

	switch m.MainItems()[idx] {
	case itemExtract:
		return StateExtract, nil
	case itemSetup:
		return StateMain, m.Actions.Setup(ctx)
	case itemTestAll:
		return StateMain, m.Actions.TestAll(ctx)
	case itemSeedAll:
		return StateMain, m.Actions.SeedAll(ctx)
	default:
		return StateExit, nil
	}
}

func (m *Menu) start(ctx context.Context, d *registry.Descriptor) error {
	fmt.Fprintf(m.Out, "\nStarting %s...\n", d.Label)
	fmt.Fprintf(m.Out, "Server will be available at: http://localhost:%d\n", d.Port)
	fmt.Fprintf(m.Out, "Press Ctrl+C to stop the server\n\n")
	return m.Actions.Start(ctx, d.Key)
}

func (m *Menu) extract(ctx context.Context) (State, error) {
	idx, err := m.UI.Select("What would you like to extract?", []string{itemSingle, itemAll, itemBack})
	if err != nil {
		return StateExit, err
	}

	switch idx {
	case 0:
		if err := m.extractOne(ctx); err != nil {
			return StateMain, err
		}
	case 1:
		done, err := m.extractAll(ctx)
		if err != nil || !done {
			return StateMain, err
		}
	default:
		return StateMain, nil
	}

	back, err := m.UI.Confirm("Return to main menu?", true)
	if err != nil {
		return StateExit, err
	}
	if back {
		return StateMain, nil
	}
	return StateExit, nil
}

func (m *Menu) extractOne(ctx context.Context) error {
	templates := m.Registry.All()
	items := make([]string, len(templates))
	for i, d := range templates {
		items[i] = fmt.Sprintf("%s - %s", d.Key, d.Description)
	}
	idx, err := m.UI.Select("Which template would you like to extract?", items)
	if err != nil {
		return err
	}
	d := templates[idx]

	base := m.BaseDir
	if base == "" {
		base = "."
	}
	dest, err := m.UI.Input("Destination directory", filepath.Join(base, d.Name))
	if err != nil {
		return err
	}
	return m.Actions.ExtractOne(ctx, d.Key, dest)
}

// extractAll reports false when the user declines the confirmation.
func (m *Menu) extractAll(ctx context.Context) (bool, error) {
	root, err := m.UI.Input("Output directory for all templates", m.OutputRoot)
	if err != nil {
		return false, err
	}
	ok, err := m.UI.Confirm(fmt.Sprintf("This will extract all %d ORM templates. Continue?", m.Registry.Len()), true)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(m.Out, "Extraction cancelled")
		return false, nil
	}
	return true, m.Actions.ExtractAll(ctx, root)
}
