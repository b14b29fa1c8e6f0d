package weather

import (
	"time"

	"github.com/skycast/weatherdash/internal/location"
)

// Unit selects the measurement system for provider requests. The values are
// the OpenWeatherMap wire values and double as the canonical representation.
type Unit string

const (
	UnitMetric   Unit = "metric"   // Celsius, m/s
	UnitImperial Unit = "imperial" // Fahrenheit, mph
	UnitStandard Unit = "standard" // Kelvin, m/s
)

// Valid reports whether u is one of the supported unit systems.
func (u Unit) Valid() bool {
	switch u {
	case UnitMetric, UnitImperial, UnitStandard:
		return true
	}
	return false
}

// Condition describes the weather condition attached to a reading.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Snapshot is a point-in-time weather reading for one location/unit
// combination. Snapshots are ephemeral: they live only in memory and are
// regenerated whenever favorites, unit, or the active location change.
type Snapshot struct {
	Name           string    `json:"name"`
	Country        string    `json:"country"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	Condition      Condition `json:"condition"`
	Readings       Readings  `json:"readings"`
	Wind           Wind      `json:"wind"`
	Clouds         int       `json:"clouds"`
	Visibility     int       `json:"visibility"`
	Sunrise        time.Time `json:"sunrise"`
	Sunset         time.Time `json:"sunset"`
	Observed       time.Time `json:"observed"`
	TimezoneOffset int       `json:"timezoneOffset"` // seconds east of UTC
	Unit           Unit      `json:"unit"`
}

// Readings holds the numeric fields of a snapshot, in the snapshot's unit.
type Readings struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feelsLike"`
	TempMin   float64 `json:"tempMin"`
	TempMax   float64 `json:"tempMax"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

// Wind holds wind speed (unit-dependent), direction and optional gust.
type Wind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
	Gust  float64 `json:"gust,omitempty"`
}

// ForecastEntry is one three-hour step of a forecast.
type ForecastEntry struct {
	At        time.Time `json:"at"`
	Condition Condition `json:"condition"`
	Readings  Readings  `json:"readings"`
	Wind      Wind      `json:"wind"`
	Clouds    int       `json:"clouds"`
	Pop       float64   `json:"pop"` // probability of precipitation, 0..1
}

// Forecast is a multi-day forecast for one city, ordered by time ascending.
type Forecast struct {
	City    location.Location `json:"city"`
	Entries []ForecastEntry   `json:"entries"`
	Unit    Unit              `json:"unit"`
}
