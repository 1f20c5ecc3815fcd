package view

import (
	"fmt"
	"math"
)

// Describe maps a WMO weather interpretation code to display text.
// Codes are taken verbatim from the provider's daily/current blocks.
func Describe(code int) string {
	switch code {
	case 0:
		return "Clear sky"
	case 1:
		return "Mainly clear"
	case 2:
		return "Partly cloudy"
	case 3:
		return "Overcast"
	case 45, 48:
		return "Fog"
	case 51, 53, 55:
		return "Drizzle"
	case 56, 57:
		return "Freezing drizzle"
	case 61, 63, 65:
		return "Rain"
	case 66, 67:
		return "Freezing rain"
	case 71, 73, 75:
		return "Snowfall"
	case 77:
		return "Snow grains"
	case 80, 81, 82:
		return "Rain showers"
	case 85, 86:
		return "Snow showers"
	case 95:
		return "Thunderstorm"
	case 96, 99:
		return "Thunderstorm with hail"
	default:
		return "Unknown"
	}
}

// compassPoints are the 16-point compass labels, clockwise from north.
var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Compass converts wind direction degrees to a 16-point compass label.
func Compass(degrees int) string {
	deg := ((degrees % 360) + 360) % 360
	idx := int(math.Round(float64(deg)/22.5)) % 16
	return compassPoints[idx]
}

// FormatClock renders an ISO datetime ("2026-08-28T06:12") as HH:MM for
// the sunrise/sunset row. Unparseable input passes through unchanged.
func FormatClock(iso string) string {
	if len(iso) < 16 || iso[10] != 'T' {
		return iso
	}
	return iso[11:16]
}

// Temperature renders an integer °C value for cards, e.g. "21°".
func Temperature(v int) string {
	return fmt.Sprintf("%d°", v)
}
