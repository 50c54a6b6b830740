package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// excludedNames are build and dependency directories never copied.
var excludedNames = map[string]bool{
	"node_modules": true,
	"dist":         true,
}

// shouldExclude reports whether a single path segment is skipped. Hidden
// entries are skipped at every depth.
func shouldExclude(name string) bool {
	return excludedNames[name] || strings.HasPrefix(name, ".")
}

// copyTree recursively copies src into dst and returns the copied files as
// slash-separated paths relative to dst. Symlinks and special files are
// skipped; file modes are preserved.
func copyTree(src, dst string) ([]string, error) {
	var files []string
	if err := copyDir(src, dst, "", &files); err != nil {
		return files, err
	}
	return files, nil
}

func copyDir(src, dst, rel string, files *[]string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if shouldExclude(entry.Name()) {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		relPath := entry.Name()
		if rel != "" {
			relPath = rel + "/" + entry.Name()
		}

		switch {
		case entry.IsDir():
			if err := copyDir(srcPath, dstPath, relPath, files); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
			*files = append(*files, relPath)
		}
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile does not change the mode of an existing file.
	return os.Chmod(dst, info.Mode().Perm())
}
