package platform

import (
	"os"
	"runtime"
)

// OwnerOnly is the mode for files holding credentials.
const OwnerOnly os.FileMode = 0600

// RestrictToOwner makes path readable and writable by its owner only. On
// Windows this is a no-op because Windows does not use Unix permission bits.
func RestrictToOwner(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, OwnerOnly)
}
