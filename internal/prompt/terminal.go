package prompt

import (
	"errors"
	"io"
	"os"

	"github.com/manifoldco/promptui"
)

// pageSize is how many menu rows are visible at once.
const pageSize = 12

// Terminal asks questions with promptui widgets. Nil streams mean the
// process's own.
type Terminal struct {
	In  *os.File
	Out *os.File
}

func (t *Terminal) stdin() io.ReadCloser {
	if t.In == nil || t.In == os.Stdin {
		return nil
	}
	return t.In
}

func (t *Terminal) stdout() io.WriteCloser {
	if t.Out == nil || t.Out == os.Stdout {
		return nil
	}
	return t.Out
}

func (t *Terminal) wrap(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrInterrupted
	}
	return err
}

// Select implements UI.
func (t *Terminal) Select(label string, items []string) (int, error) {
	s := promptui.Select{
		Label:  label,
		Items:  items,
		Size:   pageSize,
		Stdin:  t.stdin(),
		Stdout: t.stdout(),
	}
	idx, _, err := s.Run()
	if err != nil {
		return 0, t.wrap(err)
	}
	return idx, nil
}

// Confirm implements UI. promptui reports "no" as ErrAbort.
func (t *Terminal) Confirm(label string, def bool) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     t.stdin(),
		Stdout:    t.stdout(),
	}
	if def {
		p.Default = "y"
	}
	_, err := p.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, t.wrap(err)
	}
}

// Input implements UI.
func (t *Terminal) Input(label, def string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Stdin:     t.stdin(),
		Stdout:    t.stdout(),
	}
	v, err := p.Run()
	if err != nil {
		return "", t.wrap(err)
	}
	return v, nil
}

// Password implements UI.
func (t *Terminal) Password(label string) (string, error) {
	p := promptui.Prompt{
		Label:  label,
		Mask:   '*',
		Stdin:  t.stdin(),
		Stdout: t.stdout(),
	}
	v, err := p.Run()
	if err != nil {
		return "", t.wrap(err)
	}
	return v, nil
}
