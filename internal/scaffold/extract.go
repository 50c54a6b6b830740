package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ormstarter/ormstarter/internal/manifest"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/rs/zerolog"
)

// TSConfigFileName is copied alongside typed templates.
const TSConfigFileName = "tsconfig.json"

var (
	// ErrSourceMissing means the template's source directory does not exist.
	ErrSourceMissing = errors.New("template source directory not found")
	// ErrFilesystemWrite wraps any copy or write failure during extraction.
	ErrFilesystemWrite = errors.New("filesystem write failed")
)

// Result holds the outcome of one extraction. A nil Err is a success.
type Result struct {
	TemplateKey string
	Destination string
	Files       []string // slash-separated, relative to Destination
	Warnings    []string
	Err         error
}

// OK reports whether the extraction succeeded.
func (r *Result) OK() bool {
	return r.Err == nil
}

// Extractor copies templates out of a templates root.
type Extractor struct {
	Registry      *registry.Registry
	TemplatesRoot string
	// BaseDir is where default destinations are created. Empty means the
	// current directory.
	BaseDir string
}

// DefaultDestination returns BaseDir/<name> for a template.
func (e *Extractor) DefaultDestination(d *registry.Descriptor) string {
	base := e.BaseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, d.Name)
}

// Extract copies the template identified by key into dest. An empty dest
// means DefaultDestination. Existing directories are reused and existing
// files overwritten; a failed extraction is not rolled back.
func (e *Extractor) Extract(ctx context.Context, key, dest string) *Result {
	log := zerolog.Ctx(ctx)
	result := &Result{TemplateKey: key, Destination: dest}

	d, err := e.Registry.Lookup(key)
	if err != nil {
		result.Err = err
		return result
	}
	if dest == "" {
		dest = e.DefaultDestination(d)
	}
	result.Destination = dest

	src := registry.SourceDir(e.TemplatesRoot, key)
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		result.Err = fmt.Errorf("%w: %s", ErrSourceMissing, src)
		return result
	}

	if err := checkDestination(src, dest); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrFilesystemWrite, err)
		return result
	}

	log.Debug().Str("template", key).Str("src", src).Str("dest", dest).Msg("extracting template")

	if err := e.extract(ctx, d, src, result); err != nil {
		result.Err = fmt.Errorf("%w: extracting %s to %s: %v", ErrFilesystemWrite, key, dest, err)
		log.Debug().Err(result.Err).Str("template", key).Msg("extraction failed")
		return result
	}

	log.Debug().Str("template", key).Int("files", len(result.Files)).Msg("template extracted")
	return result
}

func (e *Extractor) extract(ctx context.Context, d *registry.Descriptor, src string, result *Result) error {
	dest := result.Destination
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	files, err := copyTree(src, dest)
	result.Files = append(result.Files, files...)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pkg := manifest.FromDescriptor(d)
	if validation, err := manifest.ValidatePackage(pkg); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not validate %s: %v", manifest.FileName, err))
	} else if !validation.Valid {
		for _, issue := range validation.Issues {
			result.Warnings = append(result.Warnings, manifest.FileName+" "+issue.String())
		}
	}
	if _, err := manifest.Write(dest, pkg); err != nil {
		return err
	}
	result.addFile(manifest.FileName)

	envPath := registry.EnvTemplatePath(e.TemplatesRoot)
	if _, err := os.Stat(envPath); err == nil {
		if err := copyFile(envPath, filepath.Join(dest, registry.EnvTemplateName)); err != nil {
			return err
		}
		result.addFile(registry.EnvTemplateName)
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s not found in %s", registry.EnvTemplateName, e.TemplatesRoot))
	}

	readme, err := RenderReadme(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dest, ReadmeFileName), readme, 0o644); err != nil {
		return err
	}
	result.addFile(ReadmeFileName)

	if d.Typed {
		tsconfig := filepath.Join(src, TSConfigFileName)
		if _, err := os.Stat(tsconfig); err == nil {
			if err := copyFile(tsconfig, filepath.Join(dest, TSConfigFileName)); err != nil {
				return err
			}
			result.addFile(TSConfigFileName)
		}
	}

	return nil
}

// checkDestination rejects a destination that is the source directory or
// lies inside it.
func checkDestination(src, dest string) error {
	s, err := resolvePath(src)
	if err != nil {
		return err
	}
	d, err := resolvePath(dest)
	if err != nil {
		return err
	}
	if d == s {
		return fmt.Errorf("destination %s is the template source", dest)
	}
	if strings.HasPrefix(d, s+string(filepath.Separator)) {
		return fmt.Errorf("destination %s is inside the template source %s", dest, src)
	}
	return nil
}

// resolvePath returns the absolute, symlink-free form of path. Missing
// trailing components are kept as given.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	existing, rest := abs, ""
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}
}

func (r *Result) addFile(name string) {
	for _, f := range r.Files {
		if f == name {
			return
		}
	}
	r.Files = append(r.Files, name)
}

// ExtractAll extracts every registered template into outputRoot/<name>, in
// registry order. A failed template never stops the loop.
func (e *Extractor) ExtractAll(ctx context.Context, outputRoot string) []*Result {
	log := zerolog.Ctx(ctx)
	descriptors := e.Registry.All()
	results := make([]*Result, 0, len(descriptors))

	for _, d := range descriptors {
		if err := ctx.Err(); err != nil {
			results = append(results, &Result{
				TemplateKey: d.Key,
				Destination: filepath.Join(outputRoot, d.Name),
				Err:         err,
			})
			continue
		}
		r := e.Extract(ctx, d.Key, filepath.Join(outputRoot, d.Name))
		if r.Err != nil {
			log.Warn().Err(r.Err).Str("template", d.Key).Msg("extraction failed")
		}
		results = append(results, r)
	}
	return results
}

// Summarize returns how many results succeeded out of the total.
func Summarize(results []*Result) (succeeded, total int) {
	for _, r := range results {
		if r.OK() {
			succeeded++
		}
	}
	return succeeded, len(results)
}

// NextSteps lists the commands to run after extracting d into dest.
func NextSteps(d *registry.Descriptor, dest string) []string {
	steps := []string{
		"cd " + filepath.Base(dest),
		"npm install",
		"cp .env.example .env (and configure your database)",
	}
	for _, s := range d.Readme.QuickStart {
		if strings.HasPrefix(s.Command, "npm ") {
			steps = append(steps, s.Command)
		}
	}
	return steps
}
