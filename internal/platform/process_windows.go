//go:build windows

package platform

import (
	"errors"
	"os"
	"os/exec"
)

// ConfigureProcessGroup is a no-op on Windows.
func ConfigureProcessGroup(cmd *exec.Cmd) {}

// KillProcessGroup kills p. Grandchildren are not reached on Windows.
func KillProcessGroup(p *os.Process) error {
	if p == nil {
		return nil
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
