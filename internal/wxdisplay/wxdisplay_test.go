package wxdisplay

import (
	"testing"
	"time"

	"github.com/skycast/weatherdash/internal/weather"
)

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		temp float64
		unit weather.Unit
		want string
	}{
		{21.4, weather.UnitMetric, "21°C"},
		{21.5, weather.UnitMetric, "22°C"},
		{-3.2, weather.UnitMetric, "-3°C"},
		{70.0, weather.UnitImperial, "70°F"},
		{294.6, weather.UnitStandard, "295K"},
	}

	for _, tt := range tests {
		if got := FormatTemperature(tt.temp, tt.unit); got != tt.want {
			t.Fatalf("FormatTemperature(%v, %v) = %q, want %q", tt.temp, tt.unit, got, tt.want)
		}
	}
}

func TestWindDirection(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{359, "N"},
		{22.5, "NNE"},
	}

	for _, tt := range tests {
		if got := WindDirection(tt.deg); got != tt.want {
			t.Fatalf("WindDirection(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestConditionIcon(t *testing.T) {
	tests := []struct {
		cond weather.Condition
		want string
	}{
		{weather.Condition{Main: "Clear"}, "mdi-weather-sunny"},
		{weather.Condition{Main: "Clouds", Description: "few clouds"}, "mdi-weather-partly-cloudy"},
		{weather.Condition{Main: "Clouds", Description: "overcast clouds"}, "mdi-weather-cloudy"},
		{weather.Condition{Main: "Rain", Description: "heavy intensity rain"}, "mdi-weather-pouring"},
		{weather.Condition{Main: "Rain", Description: "light rain"}, "mdi-weather-rainy"},
		{weather.Condition{Main: "Thunderstorm"}, "mdi-weather-lightning"},
		{weather.Condition{Main: "Fog"}, "mdi-weather-fog"},
		{weather.Condition{Main: "Tornado"}, "mdi-weather-cloudy"},
	}

	for _, tt := range tests {
		if got := ConditionIcon(tt.cond); got != tt.want {
			t.Fatalf("ConditionIcon(%+v) = %q, want %q", tt.cond, got, tt.want)
		}
	}
}

func TestConditionColor(t *testing.T) {
	if got := ConditionColor(weather.Condition{Main: "Clear"}); got != "#FFA726" {
		t.Fatalf("unexpected clear color %q", got)
	}
	if got := ConditionColor(weather.Condition{Main: "Drizzle"}); got != "#42A5F5" {
		t.Fatalf("unexpected drizzle color %q", got)
	}
	if got := ConditionColor(weather.Condition{Main: "Unknownish"}); got != "#78909C" {
		t.Fatalf("unexpected default color %q", got)
	}
}

func TestAirQuality(t *testing.T) {
	tests := []struct {
		visibility int
		want       string
	}{
		{10000, "Excellent"},
		{8000, "Good"},
		{5000, "Fair"},
		{3500, "Poor"},
		{1000, "Very Poor"},
	}

	for _, tt := range tests {
		if got := AirQuality(tt.visibility); got != tt.want {
			t.Fatalf("AirQuality(%d) = %q, want %q", tt.visibility, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "Just now"},
		{now.Add(-1 * time.Minute), "1 minute ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-2 * time.Hour), "2 hours ago"},
		{now.Add(-48 * time.Hour), "2 days ago"},
	}

	for _, tt := range tests {
		if got := RelativeTime(tt.t, now); got != tt.want {
			t.Fatalf("RelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestIsDayTime(t *testing.T) {
	sunrise := time.Date(2024, 6, 25, 4, 0, 0, 0, time.UTC)
	sunset := time.Date(2024, 6, 25, 21, 0, 0, 0, time.UTC)

	if !IsDayTime(time.Date(2024, 6, 25, 12, 0, 0, 0, time.UTC), sunrise, sunset) {
		t.Fatalf("noon must be day")
	}
	if IsDayTime(time.Date(2024, 6, 25, 23, 0, 0, 0, time.UTC), sunrise, sunset) {
		t.Fatalf("23:00 must be night")
	}
	if !IsDayTime(sunrise, sunrise, sunset) {
		t.Fatalf("sunrise boundary counts as day")
	}
}

func TestIconURL(t *testing.T) {
	if got := IconURL("10d", "4x"); got != "https://openweathermap.org/img/wn/10d@4x.png" {
		t.Fatalf("unexpected icon URL %q", got)
	}
	if got := IconURL("01n", ""); got != "https://openweathermap.org/img/wn/01n@2x.png" {
		t.Fatalf("expected default 2x size, got %q", got)
	}
}
