package session

import (
	"errors"

	"github.com/skycast/weatherdash/internal/geoloc"
	"github.com/skycast/weatherdash/internal/weather"
)

// DisplayMessage maps a typed failure to the human-readable text shown to the
// user. Unknown errors get a generic message rather than leaking internals.
func DisplayMessage(err error) string {
	var fetchErr *weather.FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.Op {
		case "forecast":
			if fetchErr.Message != "" {
				return "Forecast API Error: " + fetchErr.Message
			}
			return "Failed to fetch forecast data"
		case "geocoding":
			if fetchErr.Message != "" {
				return "Geocoding API Error: " + fetchErr.Message
			}
			return "Failed to search locations"
		default:
			if fetchErr.Message != "" {
				return "Weather API Error: " + fetchErr.Message
			}
			return "Failed to fetch weather data"
		}
	}

	var geoErr *geoloc.Error
	if errors.As(err, &geoErr) {
		return geoErr.Error()
	}

	return "Something went wrong"
}
