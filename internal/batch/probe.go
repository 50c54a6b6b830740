package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Probe defaults.
const (
	DefaultProbeHost    = "localhost"
	DefaultProbePath    = "/users"
	DefaultProbeTimeout = 5 * time.Second
)

var (
	// ErrAPIStatus matches a *StatusError.
	ErrAPIStatus = errors.New("unexpected HTTP status")
	// ErrAPIUnreachable means the request could not be completed.
	ErrAPIUnreachable = errors.New("API unreachable")
)

// StatusError is a non-2xx probe response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Is makes errors.Is(err, ErrAPIStatus) true.
func (e *StatusError) Is(target error) bool {
	return target == ErrAPIStatus
}

// Prober checks that a started template answers on its port.
type Prober interface {
	Probe(ctx context.Context, port int) error
}

// HTTPProber issues a single GET to http://<Host>:<port><Path>.
type HTTPProber struct {
	Client  *http.Client
	Host    string
	Path    string
	Timeout time.Duration
}

// URL returns the probed address for port.
func (p *HTTPProber) URL(port int) string {
	host, path := p.Host, p.Path
	if host == "" {
		host = DefaultProbeHost
	}
	if path == "" {
		path = DefaultProbePath
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + path
}

// Probe returns nil for any 2xx response.
func (p *HTTPProber) Probe(ctx context.Context, port int) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL(port), nil)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAPIUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
