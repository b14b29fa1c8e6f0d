package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/skycast/weatherdash/internal/location"
)

// Client abstracts the external weather/geocoding provider.
type Client interface {
	CurrentByCity(ctx context.Context, city string, unit Unit) (Snapshot, error)
	CurrentByCoords(ctx context.Context, lat, lon float64, unit Unit) (Snapshot, error)
	ForecastByCity(ctx context.Context, city string, unit Unit) (Forecast, error)
	ForecastByCoords(ctx context.Context, lat, lon float64, unit Unit) (Forecast, error)
	SearchLocations(ctx context.Context, query string, limit int) ([]location.Location, error)
}

// FetchError is returned when a provider call fails: a non-success HTTP
// status, a network error, or an undecodable response body.
type FetchError struct {
	Op      string // "weather", "forecast" or "geocoding"
	Status  int    // HTTP status, 0 for transport failures
	Message string // provider message when available
	Err     error  // underlying cause, may be nil
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s fetch failed: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s fetch failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s fetch failed: status %d", e.Op, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err wraps a provider fetch failure.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
