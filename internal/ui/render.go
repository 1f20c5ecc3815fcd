package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skycast-app/skycast/internal/view"
)

// View renders the whole screen.
func (a App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Skycast"))
	b.WriteString("\n\n")
	b.WriteString(a.input.View())
	b.WriteString("\n")

	if len(a.state.Locations) > 0 {
		b.WriteString(a.renderLocations())
	}

	if a.state.IsLoading {
		b.WriteString("\n" + a.spin.View() + " Loading...\n")
	}

	if a.state.Err != "" {
		b.WriteString("\n" + errorStyle.Render(a.state.Err) + "\n")
	}

	if a.state.Weather != nil && !a.state.IsLoading {
		b.WriteString("\n" + a.renderWeather())
	}

	if len(a.state.RecentSearches) > 0 && len(a.state.Locations) == 0 {
		b.WriteString("\n" + a.renderRecents())
	}

	b.WriteString("\n" + a.renderFooter())
	return b.String()
}

func (a App) renderLocations() string {
	var b strings.Builder
	b.WriteString("\n" + dimStyle.Render("Select a location:") + "\n")
	for i, loc := range a.state.Locations {
		line := fmt.Sprintf("%s  %s", loc.Name, dimStyle.Render(loc.Country))
		if i == a.locCursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (a App) renderWeather() string {
	snap := *a.state.Weather
	display := view.Blend(snap, a.state.SelectedDay)

	tempLabel := fmt.Sprintf("%d°C", display.Temp)
	if display.IsAverage {
		tempLabel += dimStyle.Render(" avg")
	}

	header := snap.LocationName
	if a.state.SelectedDay != nil {
		header += dimStyle.Render("  " + view.DayLabel(a.state.SelectedDay.Date, snap.Today.Date))
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		bigTempStyle.Render(tempLabel),
		fmt.Sprintf("H: %d°  L: %d°", display.MaxTemp, display.MinTemp),
		view.Describe(display.WeatherCode),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Wind      %.0f km/h %s", display.WindSpeed, view.Compass(display.WindDirection)),
		fmt.Sprintf("Humidity  %d%%", display.Humidity),
		fmt.Sprintf("Precip    %.1f mm", display.Precipitation),
		fmt.Sprintf("Pressure  %d hPa", display.Pressure),
	)
	sun := dimStyle.Render(fmt.Sprintf("Sunrise %s   Sunset %s",
		view.FormatClock(display.Sunrise), view.FormatClock(display.Sunset)))

	card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(header),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right),
		"",
		sun,
	))

	return card + "\n\n" + a.renderTimeline() + "\n"
}

func (a App) renderTimeline() string {
	snap := *a.state.Weather
	timeline := snap.Timeline()
	selected := a.selectedIndex(timeline)

	cards := make([]string, 0, len(timeline))
	for i, day := range timeline {
		style := dayStyle
		if i == selected {
			style = daySelectedStyle
		}
		label := view.DayLabel(day.Date, snap.Today.Date)
		if len(label) > 9 && len(day.Date) == 10 {
			label = day.Date[5:] // fall back to MM-DD for long labels
		}
		cards = append(cards, style.Render(lipgloss.JoinVertical(lipgloss.Center,
			label,
			view.Temperature(day.MaxTemp),
			dimStyle.Render(view.Temperature(day.MinTemp)),
		)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (a App) renderRecents() string {
	names := make([]string, 0, len(a.state.RecentSearches))
	for _, loc := range a.state.RecentSearches {
		names = append(names, loc.Name)
	}
	return dimStyle.Render("Recent: "+strings.Join(names, ", ")) + "\n"
}

func (a App) renderFooter() string {
	var parts []string

	if a.state.LastUpdated != nil {
		updated := "Updated " + view.RelativeTime(*a.state.LastUpdated, a.now())
		if a.stale() {
			updated = staleStyle.Render(updated + " (stale)")
		} else {
			updated = dimStyle.Render(updated)
		}
		parts = append(parts, updated)
	}

	help := "enter search · ←/→ days · ctrl+r refresh · ctrl+g locate · ctrl+c quit"
	parts = append(parts, dimStyle.Render(help))

	return strings.Join(parts, "\n")
}
