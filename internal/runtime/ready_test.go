//go:build !windows

package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunUntilReadyStdoutMarker(t *testing.T) {
	requireShell(t)
	r, _, _ := quietRunner()

	p, res, err := r.RunUntilReady(context.Background(), shell("echo booting; echo 'Server running on port 3001'; sleep 30"), ReadyOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer p.Kill()

	assert.Equal(t, StateReady, res.State)
	assert.NoError(t, res.Err())
}

func TestRunUntilReadyMarkerSplitAcrossWrites(t *testing.T) {
	requireShell(t)
	r, _, _ := quietRunner()

	p, res, err := r.RunUntilReady(context.Background(), shell("printf 'Server runn'; sleep 0.1; printf 'ing\\n'; sleep 30"), ReadyOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer p.Kill()

	assert.Equal(t, StateReady, res.State)
}

func TestRunUntilReadyStderrSignal(t *testing.T) {
	requireShell(t)
	r, _, _ := quietRunner()

	p, res, err := r.RunUntilReady(context.Background(), shell("echo 'warn: slow' >&2; echo 'Error: listen EADDRINUSE :::3001' >&2; sleep 30"), ReadyOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)
	require.NoError(t, p.Kill())

	assert.Equal(t, StateErrorSignal, res.State)
	assert.Equal(t, "Error: listen EADDRINUSE :::3001", res.Message)
	assert.True(t, errors.Is(res.Err(), ErrStderrSignal))
}

func TestRunUntilReadyTimeoutKillsChild(t *testing.T) {
	requireShell(t)
	r, _, _ := quietRunner()

	start := time.Now()
	p, res, err := r.RunUntilReady(context.Background(), shell("sleep 30"), ReadyOptions{Timeout: 200 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, StateTimeout, res.State)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
	assert.ErrorIs(t, res.Err(), ErrTimeout)

	select {
	case <-p.Done():
	default:
		t.Fatal("child still running after timeout")
	}
	assert.NoError(t, p.Kill())
}

func TestRunUntilReadyEarlyExit(t *testing.T) {
	requireShell(t)
	r, _, _ := quietRunner()

	p, res, err := r.RunUntilReady(context.Background(), shell("echo 'cannot find module' >&2; exit 1"), ReadyOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, StateExited, res.State)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "cannot find module", res.Message)
	assert.ErrorIs(t, res.Err(), ErrExitNonZero)
	assert.NoError(t, p.Kill())
}

func TestRunUntilReadyFirstSignalWins(t *testing.T) {
	requireShell(t)
	r, _, _ := quietRunner()

	p, res, err := r.RunUntilReady(context.Background(), shell("echo listening; sleep 0.2; echo Error >&2; sleep 30"), ReadyOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer p.Kill()

	assert.Equal(t, StateReady, res.State)
}

func TestProcessKillIsIdempotent(t *testing.T) {
	requireShell(t)
	r, _, _ := quietRunner()

	p, _, err := r.RunUntilReady(context.Background(), shell("echo listening; sleep 30 & wait"), ReadyOptions{Timeout: 5 * time.Second})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_ = p.Kill()
		_ = p.Kill()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("kill did not return")
	}
}

func TestRunUntilReadyContextCancel(t *testing.T) {
	requireShell(t)
	r, _, _ := quietRunner()
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	p, _, err := r.RunUntilReady(ctx, shell("sleep 30"), ReadyOptions{Timeout: 5 * time.Second})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	<-p.Done()
}

func TestMarkerLine(t *testing.T) {
	assert.Equal(t, "TypeError: x is undefined", markerLine("ok\n  TypeError: x is undefined\nmore", DefaultErrorMarkers))
	assert.Equal(t, "", markerLine("deprecation warning\n", DefaultErrorMarkers))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "timeout", StateTimeout.String())
	assert.Equal(t, "error", StateErrorSignal.String())
	assert.Equal(t, "exited", StateExited.String())
}
