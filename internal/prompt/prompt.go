// Package prompt asks the user questions. Terminal uses promptui's arrow-key
// widgets; Lines reads numbered answers line by line and serves piped input
// and tests.
package prompt

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrInterrupted is returned when the user aborts a prompt (Ctrl-C or EOF).
var ErrInterrupted = errors.New("prompt interrupted")

// UI is the set of questions the menu and setup flows ask.
type UI interface {
	// Select returns the index of the chosen item.
	Select(label string, items []string) (int, error)
	Confirm(label string, def bool) (bool, error)
	Input(label, def string) (string, error)
	// Password reads a secret, masked when the UI supports it.
	Password(label string) (string, error)
}

// New returns a Terminal UI when in and out are both terminals and a Lines
// UI otherwise.
func New(in io.Reader, out io.Writer) UI {
	if IsTerminal(in, out) {
		return &Terminal{In: in.(*os.File), Out: out.(*os.File)}
	}
	return NewLines(in, out)
}

// IsTerminal reports whether in and out are both attached to a terminal.
func IsTerminal(in io.Reader, out io.Writer) bool {
	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)
	if !inOK || !outOK {
		return false
	}
	return term.IsTerminal(int(inFile.Fd())) && term.IsTerminal(int(outFile.Fd()))
}
