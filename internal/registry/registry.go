package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

//go:embed templates.yaml
var rawCatalog []byte

// EnvTemplateName is the environment template shipped at the templates root.
const EnvTemplateName = ".env.example"

// ErrTemplateNotFound is returned when a key is not in the registry.
var ErrTemplateNotFound = errors.New("template not found")

// SupportedKeys is the fixed set of templates, in declaration order.
var SupportedKeys = []string{"sequelize", "mongoose", "typeorm", "prisma", "knex", "objection", "mikroorm"}

// Registry is the read-only template catalog.
type Registry struct {
	templates []*Descriptor
	byKey     map[string]*Descriptor
}

type catalogFile struct {
	Templates []*Descriptor `yaml:"templates"`
}

// Load parses and validates the embedded catalog.
func Load() (*Registry, error) {
	return Parse(rawCatalog)
}

// MustLoad is Load for program startup, where a broken catalog is a build defect.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return r
}

// Parse builds a registry from a catalog document. It enforces the full
// supported key set, so it is only useful for the shipped catalog and
// variants of it.
func Parse(data []byte) (*Registry, error) {
	r, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := r.validateKeySet(); err != nil {
		return nil, err
	}
	return r, nil
}

// decode parses a catalog document into a registry.
func decode(data []byte) (*Registry, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing template catalog: %w", err)
	}
	return New(f.Templates)
}

// New builds a registry from descriptors, checking each one and rejecting
// duplicate keys or ports. Unlike Parse it accepts any subset of templates.
func New(templates []*Descriptor) (*Registry, error) {
	r := &Registry{byKey: make(map[string]*Descriptor, len(templates))}
	ports := make(map[int]string, len(templates))
	for _, d := range templates {
		if d == nil {
			continue
		}
		if err := validateDescriptor(d); err != nil {
			return nil, err
		}
		if _, dup := r.byKey[d.Key]; dup {
			return nil, fmt.Errorf("template %q declared twice", d.Key)
		}
		if other, dup := ports[d.Port]; dup {
			return nil, fmt.Errorf("templates %q and %q share port %d", other, d.Key, d.Port)
		}
		ports[d.Port] = d.Key
		r.byKey[d.Key] = d
		r.templates = append(r.templates, d)
	}
	return r, nil
}

func validateDescriptor(d *Descriptor) error {
	if d.Key == "" {
		return fmt.Errorf("template with empty key")
	}
	if d.Name == "" {
		return fmt.Errorf("template %q: name is required", d.Key)
	}
	if d.Main == "" {
		return fmt.Errorf("template %q: main is required", d.Key)
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("template %q: invalid port %d", d.Key, d.Port)
	}
	if start, ok := d.Scripts.Get("start"); !ok || strings.TrimSpace(start) == "" {
		return fmt.Errorf("template %q: scripts.start is required", d.Key)
	}
	if d.Commands.Run.Program() == "" {
		return fmt.Errorf("template %q: commands.run is required", d.Key)
	}
	if d.Commands.Seed.Program() == "" {
		return fmt.Errorf("template %q: commands.seed is required", d.Key)
	}
	for _, deps := range []Pairs{d.Dependencies, d.DevDependencies} {
		for _, dep := range deps {
			if _, err := semver.NewConstraint(dep.Value); err != nil {
				return fmt.Errorf("template %q: dependency %s has invalid version %q: %w", d.Key, dep.Key, dep.Value, err)
			}
		}
	}
	return nil
}

func (r *Registry) validateKeySet() error {
	if len(r.templates) != len(SupportedKeys) {
		return fmt.Errorf("catalog declares %d templates, want %d", len(r.templates), len(SupportedKeys))
	}
	for _, key := range SupportedKeys {
		if _, ok := r.byKey[key]; !ok {
			return fmt.Errorf("catalog is missing template %q", key)
		}
	}
	return nil
}

// Lookup returns the descriptor for key.
func (r *Registry) Lookup(key string) (*Descriptor, error) {
	d, ok := r.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrTemplateNotFound, key, strings.Join(r.Keys(), ", "))
	}
	return d, nil
}

// Keys returns all template keys in declaration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.templates))
	for i, d := range r.templates {
		keys[i] = d.Key
	}
	return keys
}

// All returns every descriptor in declaration order.
func (r *Registry) All() []*Descriptor {
	return append([]*Descriptor(nil), r.templates...)
}

// Len returns the number of templates.
func (r *Registry) Len() int {
	return len(r.templates)
}

// SourceDir returns the on-disk source directory of a template.
func SourceDir(root, key string) string {
	return filepath.Join(root, key)
}

// EnvTemplatePath returns the path of the shared environment template.
func EnvTemplatePath(root string) string {
	return filepath.Join(root, EnvTemplateName)
}
