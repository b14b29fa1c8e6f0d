package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skycast/weatherdash/internal/weather"
)

// backoffConfig controls exponential backoff for retried requests.
type backoffConfig struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
}

var defaultBackoff = backoffConfig{
	maxRetries:      2,
	initialInterval: 300 * time.Millisecond,
	maxInterval:     3 * time.Second,
}

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// retryable reports whether a request that produced status should be retried.
// Client errors carry a provider message and retrying them cannot help.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// doRequest executes the request through the circuit breaker with retries and
// exponential backoff for rate limits and server errors. On non-success
// status the body is decoded for the provider message and a typed FetchError
// is returned; the caller owns resp.Body on success.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	bo backoffConfig,
	op string,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	var attempt int
	for {
		if ctx.Err() != nil {
			return nil, &weather.FetchError{Op: op, Err: ctx.Err()}
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if retryable(resp.StatusCode) {
				resp.Body.Close()
				return nil, fmt.Errorf("status %d", resp.StatusCode)
			}
			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				msg := readProviderMessage(resp.Body)
				status := resp.StatusCode
				resp.Body.Close()
				return nil, &weather.FetchError{Op: op, Status: status, Message: msg}
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.FetchError{Op: op, Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
		}

		if attempt >= bo.maxRetries {
			return nil, &weather.FetchError{Op: op, Err: err}
		}

		delay := bo.initialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if bo.maxInterval > 0 && delay > bo.maxInterval {
			delay = bo.maxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &weather.FetchError{Op: op, Err: ctx.Err()}
		case <-timer.C:
		}

		attempt++
	}
}

// readProviderMessage extracts the "message" field OpenWeatherMap puts in
// error bodies, e.g. {"cod":"404","message":"city not found"}.
func readProviderMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}
