package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ormstarter/ormstarter/internal/registry"
)

// FileName is the manifest file written into every extracted template.
const FileName = "package.json"

// Fixed values for generated manifests.
const (
	DefaultVersion = "1.0.0"
	DefaultLicense = "MIT"
)

// Package is the generated package.json. Field order matches the JSON output.
type Package struct {
	Name            string         `json:"name"`
	Version         string         `json:"version"`
	Description     string         `json:"description"`
	Main            string         `json:"main"`
	Scripts         registry.Pairs `json:"scripts"`
	Dependencies    registry.Pairs `json:"dependencies"`
	DevDependencies registry.Pairs `json:"devDependencies"`
	Keywords        []string       `json:"keywords"`
	Author          string         `json:"author"`
	License         string         `json:"license"`
}

// FromDescriptor builds the manifest for a template. Scripts and dependency
// lists are copied verbatim.
func FromDescriptor(d *registry.Descriptor) *Package {
	return &Package{
		Name:            d.Name,
		Version:         DefaultVersion,
		Description:     d.Description,
		Main:            d.Main,
		Scripts:         append(registry.Pairs(nil), d.Scripts...),
		Dependencies:    append(registry.Pairs(nil), d.Dependencies...),
		DevDependencies: append(registry.Pairs(nil), d.DevDependencies...),
		Keywords:        []string{d.Key, "orm", "starter", "template"},
		Author:          "",
		License:         DefaultLicense,
	}
}

// Encode renders the manifest as two-space indented JSON with a trailing newline.
func Encode(p *Package) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FileName, err)
	}
	return buf.Bytes(), nil
}

// Write encodes the manifest into dir/package.json and returns the file path.
func Write(dir string, p *Package) (string, error) {
	data, err := Encode(p)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Read parses a package.json from disk.
func Read(path string) (*Package, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var p Package
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &p, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
