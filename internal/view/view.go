// Package view computes presentation-ready values from store state.
// Everything here is pure: callers supply the current instant.
package view

import (
	"fmt"
	"time"

	"github.com/skycast-app/skycast/internal/domain"
)

const (
	// StaleThreshold is the age past which a displayed snapshot counts
	// as stale.
	StaleThreshold = 30 * time.Minute

	// RefreshCooldown gates the manual refresh control. It is shorter
	// than the staleness threshold on purpose: refresh re-enables well
	// before the data is considered stale, but never immediately after
	// a successful fetch.
	RefreshCooldown = 5 * time.Minute
)

// IsStale reports whether a snapshot fetched at lastUpdated is older
// than the staleness threshold at now. A zero lastUpdated (nothing
// fetched yet) is never stale.
func IsStale(lastUpdated, now time.Time) bool {
	if lastUpdated.IsZero() {
		return false
	}
	return now.Sub(lastUpdated) > StaleThreshold
}

// CanRefresh reports whether the manual refresh control should be
// enabled: the cooldown since the last successful fetch has elapsed.
func CanRefresh(lastUpdated, now time.Time) bool {
	if lastUpdated.IsZero() {
		return false
	}
	return now.Sub(lastUpdated) >= RefreshCooldown
}

// DayLabel renders a calendar date relative to today: "Today",
// "Yesterday", "Tomorrow", "N days ago", "In N days". Both arguments
// are ISO dates; no time-zone conversion happens beyond parsing.
func DayLabel(date, today string) string {
	d, err1 := time.Parse("2006-01-02", date)
	t, err2 := time.Parse("2006-01-02", today)
	if err1 != nil || err2 != nil {
		return date
	}

	diff := int(d.Sub(t).Hours() / 24)
	switch {
	case diff == 0:
		return "Today"
	case diff == -1:
		return "Yesterday"
	case diff == 1:
		return "Tomorrow"
	case diff < -1:
		return fmt.Sprintf("%d days ago", -diff)
	default:
		return fmt.Sprintf("In %d days", diff)
	}
}

// RelativeTime renders the age of the last fetch the way the footer
// shows it.
func RelativeTime(lastUpdated, now time.Time) string {
	diff := now.Sub(lastUpdated)
	minutes := int(diff.Minutes())
	hours := int(diff.Hours())

	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	case hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	default:
		return "over a day ago"
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// DisplayConditions is what the "current weather" card actually shows.
// IsAverage is true when the temperature is a day average (a selected
// day) rather than an instantaneous reading.
type DisplayConditions struct {
	domain.CurrentConditions
	IsAverage bool
}

// Blend sources the display fields from the selected day when one is
// set, falling back to the snapshot's instantaneous conditions.
func Blend(snapshot domain.WeatherSnapshot, selected *domain.DailyForecast) DisplayConditions {
	if selected == nil {
		return DisplayConditions{CurrentConditions: snapshot.Current}
	}
	return DisplayConditions{
		CurrentConditions: domain.CurrentConditions{
			Temp:          selected.AvgTemp,
			MaxTemp:       selected.MaxTemp,
			MinTemp:       selected.MinTemp,
			WeatherCode:   selected.WeatherCode,
			WindSpeed:     selected.WindSpeed,
			WindDirection: selected.WindDirection,
			Humidity:      selected.Humidity,
			Precipitation: selected.Precipitation,
			Pressure:      selected.Pressure,
			Sunrise:       selected.Sunrise,
			Sunset:        selected.Sunset,
		},
		IsAverage: true,
	}
}
