// Package geoloc resolves the device's approximate coordinates from its
// public IP address.
package geoloc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	defaultEndpoint = "http://ip-api.com/json"
	defaultTimeout  = 10 * time.Second
	defaultMaxAge   = 5 * time.Minute
)

// Error is a geolocation failure: the lookup service is unreachable, refused
// the request, or the bounded wait elapsed.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("geolocation error: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Position is a resolved device position.
type Position struct {
	Lat float64
	Lon float64
}

// Resolver looks up device coordinates with a bounded wait per attempt and a
// tolerance for a recently cached position.
type Resolver struct {
	http     *http.Client
	endpoint string
	timeout  time.Duration
	maxAge   time.Duration

	mu       sync.Mutex
	cached   Position
	cachedAt time.Time
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithEndpoint overrides the lookup endpoint, used by tests.
func WithEndpoint(endpoint string) Option {
	return func(r *Resolver) { r.endpoint = endpoint }
}

// NewResolver creates a Resolver with a 10s wait bound and a 5-minute cached
// position tolerance.
func NewResolver(client *http.Client, opts ...Option) *Resolver {
	r := &Resolver{
		http:     client,
		endpoint: defaultEndpoint,
		timeout:  defaultTimeout,
		maxAge:   defaultMaxAge,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Coordinates returns the device position, reusing a cached position younger
// than the max-age tolerance. No retry is attempted on failure.
func (r *Resolver) Coordinates(ctx context.Context) (Position, error) {
	r.mu.Lock()
	if !r.cachedAt.IsZero() && time.Since(r.cachedAt) <= r.maxAge {
		pos := r.cached
		r.mu.Unlock()
		return pos, nil
	}
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return Position{}, &Error{Reason: "building lookup request", Err: err}
	}

	resp, err := r.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Position{}, &Error{Reason: "position lookup timed out"}
		}
		return Position{}, &Error{Reason: "position lookup failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, &Error{Reason: fmt.Sprintf("position lookup returned status %d", resp.StatusCode)}
	}

	var payload struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Position{}, &Error{Reason: "decoding lookup response", Err: err}
	}
	if payload.Status != "success" {
		return Position{}, &Error{Reason: "lookup refused: " + payload.Message}
	}

	pos := Position{Lat: payload.Lat, Lon: payload.Lon}

	r.mu.Lock()
	r.cached = pos
	r.cachedAt = time.Now()
	r.mu.Unlock()

	return pos, nil
}
