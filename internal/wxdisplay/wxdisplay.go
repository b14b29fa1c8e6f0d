// Package wxdisplay holds presentation helpers for weather values:
// formatting, compass directions, condition colors and icons.
package wxdisplay

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/skycast/weatherdash/internal/weather"
)

// FormatTemperature renders a temperature with the symbol for its unit.
func FormatTemperature(temp float64, unit weather.Unit) string {
	rounded := int(math.Round(temp))
	switch unit {
	case weather.UnitImperial:
		return fmt.Sprintf("%d°F", rounded)
	case weather.UnitStandard:
		return fmt.Sprintf("%dK", rounded)
	default:
		return fmt.Sprintf("%d°C", rounded)
	}
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// WindDirection converts degrees to a 16-point compass direction.
func WindDirection(degrees float64) string {
	idx := int(math.Round(degrees/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

// ConditionColor returns the accent color hex for a condition group.
func ConditionColor(cond weather.Condition) string {
	switch strings.ToLower(cond.Main) {
	case "clear":
		return "#FFA726"
	case "clouds":
		return "#78909C"
	case "rain", "drizzle":
		return "#42A5F5"
	case "thunderstorm":
		return "#5C6BC0"
	case "snow":
		return "#E1F5FE"
	case "mist", "fog", "haze":
		return "#90A4AE"
	default:
		return "#78909C"
	}
}

// ConditionIcon returns the Material Design Icons name for a condition.
func ConditionIcon(cond weather.Condition) string {
	main := strings.ToLower(cond.Main)
	desc := strings.ToLower(cond.Description)

	switch main {
	case "clear":
		return "mdi-weather-sunny"
	case "clouds":
		if strings.Contains(desc, "few") {
			return "mdi-weather-partly-cloudy"
		}
		return "mdi-weather-cloudy"
	case "rain":
		if strings.Contains(desc, "heavy") {
			return "mdi-weather-pouring"
		}
		return "mdi-weather-rainy"
	case "drizzle":
		return "mdi-weather-partly-rainy"
	case "thunderstorm":
		return "mdi-weather-lightning"
	case "snow":
		return "mdi-weather-snowy"
	case "mist", "fog", "haze":
		return "mdi-weather-fog"
	default:
		return "mdi-weather-cloudy"
	}
}

// IconURL builds the provider icon URL for a condition icon code.
// size is "2x" or "4x".
func IconURL(iconCode, size string) string {
	if size == "" {
		size = "2x"
	}
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@%s.png", iconCode, size)
}

// AirQuality describes visibility in meters as an air-quality bucket.
func AirQuality(visibility int) string {
	switch {
	case visibility >= 10000:
		return "Excellent"
	case visibility >= 7000:
		return "Good"
	case visibility >= 5000:
		return "Fair"
	case visibility >= 3000:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// RelativeTime renders how long ago t was, relative to now.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	case hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	default:
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	}
}

// IsDayTime reports whether t falls between sunrise and sunset.
func IsDayTime(t, sunrise, sunset time.Time) bool {
	return !t.Before(sunrise) && !t.After(sunset)
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
