package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ormstarter/ormstarter/internal/manifest"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files under root from a map of relative path to content.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// templatesRoot builds a fake repository with a source tree for every key.
func templatesRoot(t *testing.T, reg *registry.Registry) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{".env.example": "DB_HOST=localhost\nPORT=3000\n"})
	for _, d := range reg.All() {
		files := map[string]string{
			d.Key + "/app.js":                       "console.log('Server running')\n",
			d.Key + "/config/database.js":           "module.exports = {}\n",
			d.Key + "/node_modules/express/index.js": "x",
			d.Key + "/dist/app.js":                   "compiled",
			d.Key + "/.env":                          "SECRET=1",
			d.Key + "/.git/HEAD":                     "ref",
			d.Key + "/models/.cache/entry":           "cached",
		}
		if d.Typed {
			files[d.Key+"/tsconfig.json"] = `{"compilerOptions":{}}`
			files[d.Key+"/src/app.ts"] = "export {}\n"
		}
		writeTree(t, root, files)
	}
	return root
}

func newExtractor(t *testing.T) (*Extractor, string) {
	t.Helper()
	reg := registry.MustLoad()
	root := templatesRoot(t, reg)
	return &Extractor{Registry: reg, TemplatesRoot: root, BaseDir: t.TempDir()}, root
}

func TestExtractKnex(t *testing.T) {
	e, _ := newExtractor(t)
	dest := filepath.Join(t.TempDir(), "my-knex-app")

	r := e.Extract(context.Background(), "knex", dest)
	require.NoError(t, r.Err)
	assert.True(t, r.OK())
	assert.Equal(t, dest, r.Destination)

	for _, name := range []string{"app.js", "config/database.js", "package.json", ".env.example", "README.md"} {
		assert.FileExists(t, filepath.Join(dest, filepath.FromSlash(name)))
		assert.Contains(t, r.Files, name)
	}

	pkg, err := manifest.Read(filepath.Join(dest, "package.json"))
	require.NoError(t, err)
	d, err := e.Registry.Lookup("knex")
	require.NoError(t, err)
	assert.Equal(t, d.Main, pkg.Main)
	assert.Equal(t, d.Scripts, pkg.Scripts)
	assert.Equal(t, []string{"knex", "orm", "starter", "template"}, pkg.Keywords)

	env, err := os.ReadFile(filepath.Join(dest, ".env.example"))
	require.NoError(t, err)
	assert.Equal(t, "DB_HOST=localhost\nPORT=3000\n", string(env))

	readme, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "# knex-starter")
	assert.Contains(t, string(readme), "npm run migrate:latest")
	assert.Empty(t, r.Warnings)
}

func TestExtractSkipsExcludedSegments(t *testing.T) {
	e, _ := newExtractor(t)
	dest := t.TempDir()

	r := e.Extract(context.Background(), "sequelize", dest)
	require.NoError(t, r.Err)

	err := filepath.WalkDir(dest, func(path string, _ os.DirEntry, err error) error {
		require.NoError(t, err)
		rel, err := filepath.Rel(dest, path)
		require.NoError(t, err)
		if rel == "." || rel == ".env.example" {
			return nil
		}
		for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
			assert.False(t, shouldExclude(seg), "excluded path copied: %s", rel)
		}
		return nil
	})
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dest, "models", ".cache"))
	assert.DirExists(t, filepath.Join(dest, "models"))
}

func TestExtractTypedTemplateCopiesTSConfig(t *testing.T) {
	e, _ := newExtractor(t)
	dest := t.TempDir()

	r := e.Extract(context.Background(), "typeorm", dest)
	require.NoError(t, r.Err)
	assert.FileExists(t, filepath.Join(dest, "tsconfig.json"))
	assert.FileExists(t, filepath.Join(dest, "src", "app.ts"))

	count := 0
	for _, f := range r.Files {
		if f == "tsconfig.json" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractDefaultDestination(t *testing.T) {
	e, _ := newExtractor(t)

	r := e.Extract(context.Background(), "prisma", "")
	require.NoError(t, r.Err)
	assert.Equal(t, filepath.Join(e.BaseDir, "prisma-starter"), r.Destination)
	assert.FileExists(t, filepath.Join(r.Destination, "package.json"))
}

func TestExtractReusesExistingDestination(t *testing.T) {
	e, _ := newExtractor(t)
	dest := t.TempDir()
	writeTree(t, dest, map[string]string{"keep.txt": "mine", "app.js": "old"})

	r := e.Extract(context.Background(), "mongoose", dest)
	require.NoError(t, r.Err)

	keep, err := os.ReadFile(filepath.Join(dest, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(keep))
	app, err := os.ReadFile(filepath.Join(dest, "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log('Server running')\n", string(app))
}

func TestExtractUnknownTemplate(t *testing.T) {
	e, _ := newExtractor(t)
	r := e.Extract(context.Background(), "hibernate", t.TempDir())
	assert.ErrorIs(t, r.Err, registry.ErrTemplateNotFound)
	assert.False(t, r.OK())
}

func TestExtractMissingSource(t *testing.T) {
	reg := registry.MustLoad()
	e := &Extractor{Registry: reg, TemplatesRoot: t.TempDir()}

	r := e.Extract(context.Background(), "knex", t.TempDir())
	assert.ErrorIs(t, r.Err, ErrSourceMissing)
}

func TestExtractUnwritableDestination(t *testing.T) {
	e, _ := newExtractor(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	r := e.Extract(context.Background(), "knex", filepath.Join(blocker, "nested"))
	assert.ErrorIs(t, r.Err, ErrFilesystemWrite)
}

func TestExtractMissingEnvTemplateWarns(t *testing.T) {
	e, root := newExtractor(t)
	require.NoError(t, os.Remove(filepath.Join(root, ".env.example")))

	r := e.Extract(context.Background(), "knex", t.TempDir())
	require.NoError(t, r.Err)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], ".env.example")
}

func TestExtractAll(t *testing.T) {
	e, _ := newExtractor(t)
	out := t.TempDir()

	results := e.ExtractAll(context.Background(), out)
	require.Len(t, results, e.Registry.Len())

	for i, key := range e.Registry.Keys() {
		assert.Equal(t, key, results[i].TemplateKey)
		assert.NoError(t, results[i].Err)
	}

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, e.Registry.Len())

	ok, total := Summarize(results)
	assert.Equal(t, 7, ok)
	assert.Equal(t, 7, total)
}

func TestExtractAllContinuesAfterFailure(t *testing.T) {
	e, root := newExtractor(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "prisma")))

	results := e.ExtractAll(context.Background(), t.TempDir())
	require.Len(t, results, 7)

	ok, total := Summarize(results)
	assert.Equal(t, 6, ok)
	assert.Equal(t, 7, total)
	assert.ErrorIs(t, results[3].Err, ErrSourceMissing)
	assert.NoError(t, results[6].Err)
}

func TestNextSteps(t *testing.T) {
	reg := registry.MustLoad()

	d, err := reg.Lookup("sequelize")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cd sequelize-starter",
		"npm install",
		"cp .env.example .env (and configure your database)",
		"npm run migrate",
		"npm run dev",
	}, NextSteps(d, "/tmp/out/sequelize-starter"))

	d, err = reg.Lookup("mongoose")
	require.NoError(t, err)
	steps := NextSteps(d, "mongo-app")
	assert.Equal(t, "npm run dev", steps[len(steps)-1])
	for _, s := range steps {
		assert.False(t, strings.HasPrefix(s, "http"))
	}
}

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"app.js", false},
		{"models", false},
		{"node_modules", true},
		{"dist", true},
		{".env", true},
		{".secret", true},
		{"distribution", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shouldExclude(tt.name), tt.name)
	}
}

func TestExtractOntoSourceFails(t *testing.T) {
	e, root := newExtractor(t)
	src := filepath.Join(root, "knex")

	r := e.Extract(context.Background(), "knex", src)
	assert.ErrorIs(t, r.Err, ErrFilesystemWrite)

	app, err := os.ReadFile(filepath.Join(src, "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log('Server running')\n", string(app))
	assert.NoFileExists(t, filepath.Join(src, "package.json"))
}

func TestExtractOntoSourceViaRelativePath(t *testing.T) {
	e, root := newExtractor(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	e.TemplatesRoot = "."

	r := e.Extract(context.Background(), "knex", "./knex/../knex")
	assert.ErrorIs(t, r.Err, ErrFilesystemWrite)
	assert.FileExists(t, filepath.Join(root, "knex", "app.js"))
}

func TestExtractIntoSourceSubdirFails(t *testing.T) {
	e, root := newExtractor(t)
	dest := filepath.Join(root, "knex", "out")

	r := e.Extract(context.Background(), "knex", dest)
	assert.ErrorIs(t, r.Err, ErrFilesystemWrite)
	assert.NoDirExists(t, dest)
}

func TestExtractIntoSourceThroughSymlinkFails(t *testing.T) {
	e, root := newExtractor(t)
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(filepath.Join(root, "knex"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	r := e.Extract(context.Background(), "knex", filepath.Join(link, "nested"))
	assert.ErrorIs(t, r.Err, ErrFilesystemWrite)
	assert.NoDirExists(t, filepath.Join(root, "knex", "nested"))
}

func TestExtractBesideSourceSucceeds(t *testing.T) {
	e, root := newExtractor(t)

	// A sibling sharing the source name as a prefix is not inside it.
	r := e.Extract(context.Background(), "knex", filepath.Join(root, "knex-starter"))
	require.NoError(t, r.Err)
	assert.FileExists(t, filepath.Join(root, "knex-starter", "package.json"))
}
