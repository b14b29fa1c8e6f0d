package location

import (
	"fmt"
	"strings"
)

// Location is a geographic place as returned by geocoding search or derived
// from device coordinates. State is optional (many countries have none).
type Location struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// DeriveID returns the canonical identifier for a location. Two locations with
// the same name/state/country and coordinates agreeing to 4 decimal places
// always produce the same ID; it is the sole deduplication key for favorites.
func DeriveID(loc Location) string {
	parts := make([]string, 0, 5)
	parts = append(parts, slugify(loc.Name))
	if loc.State != "" {
		parts = append(parts, slugify(loc.State))
	}
	parts = append(parts, slugify(loc.Country))
	parts = append(parts, fmt.Sprintf("%.4f", loc.Lat), fmt.Sprintf("%.4f", loc.Lon))
	return strings.Join(parts, "-")
}

// DisplayName joins name, optional state and country with comma-and-space.
func DisplayName(loc Location) string {
	parts := make([]string, 0, 3)
	parts = append(parts, loc.Name)
	if loc.State != "" {
		parts = append(parts, loc.State)
	}
	parts = append(parts, loc.Country)
	return strings.Join(parts, ", ")
}

// slugify lower-cases s and collapses any run of whitespace into one hyphen.
func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
