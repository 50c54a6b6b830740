//go:build integration

package integration_test

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ormstarter/ormstarter/internal/registry"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir       string // HOME, so ~/.ormstarter stays sandboxed
	TemplatesRoot string // repository holding one directory per template
	OutputDir     string // where templates get extracted
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them. The env var is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:       t.TempDir(),
		TemplatesRoot: t.TempDir(),
		OutputDir:     filepath.Join(t.TempDir(), "extracted"),
	}
	t.Setenv("HOME", env.HomeDir)
	return env
}

// setupTemplates writes a small source tree for every catalog template plus
// the shared .env.example.
func setupTemplates(t *testing.T, root string) {
	t.Helper()

	writeFile(t, filepath.Join(root, registry.EnvTemplateName), `# Database Configuration
DB_HOST=localhost
DB_PORT=3306
DB_USER=root
DB_PASSWORD=
DB_NAME=orm_templates_db
MONGO_URI=mongodb://localhost:27017/orm_templates_db
PORT=3000
`)

	for _, key := range registry.SupportedKeys {
		dir := filepath.Join(root, key)
		writeFile(t, filepath.Join(dir, "app.js"), "require('./config/database');\n")
		writeFile(t, filepath.Join(dir, "config", "database.js"), "module.exports = {};\n")
		writeFile(t, filepath.Join(dir, "models", "User.js"), "module.exports = {};\n")
		writeFile(t, filepath.Join(dir, "node_modules", "left-pad", "index.js"), "module.exports = 1;\n")
		writeFile(t, filepath.Join(dir, ".cache", "state"), "stale\n")
	}
}

// serverTemplate writes a node HTTP server answering GET /users and returns
// a descriptor that runs it with node directly.
func serverTemplate(t *testing.T, root, key string, port int) *registry.Descriptor {
	t.Helper()

	writeFile(t, filepath.Join(root, key, "app.js"), `const http = require('http');
const port = process.env.PORT;
http.createServer((req, res) => {
  if (req.url === '/users') {
    res.writeHead(200, { 'Content-Type': 'application/json' });
    res.end('[]');
    return;
  }
  res.writeHead(404);
  res.end();
}).listen(port, () => console.log('Server running on port ' + port));
`)
	writeFile(t, filepath.Join(root, key, "seed.js"), "console.log('seeded');\n")

	return &registry.Descriptor{
		Key:     key,
		Name:    key + "-starter",
		Label:   key,
		Main:    "app.js",
		Port:    port,
		Scripts: registry.Pairs{{Key: "start", Value: "node app.js"}},
		Commands: registry.Commands{
			Run:  registry.CommandSpec{"node", key + "/app.js"},
			Seed: registry.CommandSpec{"node", key + "/seed.js"},
		},
	}
}

// brokenTemplate writes a server that reports an error and exits.
func brokenTemplate(t *testing.T, root, key string, port int) *registry.Descriptor {
	t.Helper()

	writeFile(t, filepath.Join(root, key, "app.js"), `console.error('Error: connect ECONNREFUSED 127.0.0.1:3306');
process.exit(1);
`)
	return &registry.Descriptor{
		Key:     key,
		Name:    key + "-starter",
		Label:   key,
		Main:    "app.js",
		Port:    port,
		Scripts: registry.Pairs{{Key: "start", Value: "node app.js"}},
		Commands: registry.Commands{
			Run:  registry.CommandSpec{"node", key + "/app.js"},
			Seed: registry.CommandSpec{"node", key + "/app.js"},
		},
	}
}

// freePort returns a TCP port nothing is listening on right now.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("finding free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// writeFile creates a file with the given content, creating parent dirs.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating parent dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}

// assertFileContains fails the test if the file does not contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("expected %s to contain %q", path, substr)
	}
}
