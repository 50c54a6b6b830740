//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/ormstarter/ormstarter/internal/batch"
	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/ormstarter/ormstarter/internal/runtime"
)

func requireNode(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("Node.js not available, skipping")
	}
}

func TestTesterAgainstNodeServers(t *testing.T) {
	requireNode(t)
	env := setupTestEnv(t)

	reg, err := registry.New([]*registry.Descriptor{
		serverTemplate(t, env.TemplatesRoot, "knex", freePort(t)),
		brokenTemplate(t, env.TemplatesRoot, "prisma", freePort(t)),
		serverTemplate(t, env.TemplatesRoot, "mongoose", freePort(t)),
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}

	var output bytes.Buffer
	tester := &batch.Tester{
		Launcher: &batch.RunnerLauncher{
			Runner:  &runtime.Runner{},
			Dir:     env.TemplatesRoot,
			Options: runtime.ReadyOptions{Timeout: 10 * time.Second},
		},
		Prober:   &batch.HTTPProber{Host: "127.0.0.1", Timeout: 2 * time.Second},
		Registry: reg,
		Hooks: batch.Hooks{
			Done: func(o batch.Outcome) { output.WriteString(o.Key + ":" + string(o.Status) + "\n") },
		},
	}

	report, err := tester.TestAll(context.Background())
	if err != nil {
		t.Fatalf("TestAll: %v", err)
	}

	want := map[string]batch.Status{
		"knex":     batch.StatusSuccess,
		"prisma":   batch.StatusFailed,
		"mongoose": batch.StatusSuccess,
	}
	if report.Total() != len(want) {
		t.Fatalf("expected %d outcomes, got %d", len(want), report.Total())
	}
	for _, o := range report.Outcomes {
		if o.Status != want[o.Key] {
			t.Errorf("%s: status %s (%s), want %s", o.Key, o.Status, o.Message, want[o.Key])
		}
	}
	if got := report.Percent(); got != 67 {
		t.Errorf("success rate = %d%%, want 67%%", got)
	}
	if output.Len() == 0 {
		t.Error("expected Done hook to be called")
	}
}

func TestSeederRunsNodeScripts(t *testing.T) {
	requireNode(t)
	env := setupTestEnv(t)

	reg, err := registry.New([]*registry.Descriptor{
		serverTemplate(t, env.TemplatesRoot, "objection", freePort(t)),
		brokenTemplate(t, env.TemplatesRoot, "typeorm", freePort(t)),
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}

	var stdout, stderr bytes.Buffer
	seeder := &batch.Seeder{
		Exec:     &runtime.Runner{Stdout: &stdout, Stderr: &stderr},
		Registry: reg,
		Dir:      env.TemplatesRoot,
	}
	report, err := seeder.SeedAll(context.Background())
	if err != nil {
		t.Fatalf("SeedAll: %v", err)
	}

	if len(report.Succeeded()) != 1 || report.Succeeded()[0].Key != "objection" {
		t.Errorf("expected objection to succeed, got %+v", report.Outcomes)
	}
	failed := report.Failed()
	if len(failed) != 1 || failed[0].Message != "Error: connect ECONNREFUSED 127.0.0.1:3306" {
		t.Errorf("expected typeorm failure with stderr summary, got %+v", failed)
	}
	if !bytes.Contains(stdout.Bytes(), []byte("seeded")) {
		t.Errorf("expected seed output, got %q", stdout.String())
	}
}
