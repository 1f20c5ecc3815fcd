package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-app/skycast/internal/domain"
	"github.com/skycast-app/skycast/internal/store"
)

var uiNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

// recorder tracks which intents the model fired.
type recorder struct {
	searches  []string
	selected  []domain.Location
	days      []*domain.DailyForecast
	refreshes int
	locates   int
}

func (r *recorder) intents() Intents {
	return Intents{
		Search: func(q string) tea.Cmd {
			r.searches = append(r.searches, q)
			return nil
		},
		Select: func(loc domain.Location) tea.Cmd {
			r.selected = append(r.selected, loc)
			return nil
		},
		Refresh: func() tea.Cmd {
			r.refreshes++
			return nil
		},
		SelectDay: func(day *domain.DailyForecast) tea.Cmd {
			r.days = append(r.days, day)
			return nil
		},
		ClearError: func() tea.Cmd { return nil },
		Locate: func() tea.Cmd {
			r.locates++
			return nil
		},
	}
}

func weatherState() store.State {
	updated := uiNow.Add(-2 * time.Minute)
	return store.State{
		PersistedState: store.PersistedState{
			Weather: &domain.WeatherSnapshot{
				LocationName: "London, United Kingdom",
				Current:      domain.CurrentConditions{Temp: 20, WeatherCode: 2},
				Today:        domain.DailyForecast{Date: "2026-08-28", MaxTemp: 23, MinTemp: 14, AvgTemp: 19},
				History: []domain.DailyForecast{
					{Date: "2026-08-25"}, {Date: "2026-08-26"}, {Date: "2026-08-27"},
				},
				Forecast: []domain.DailyForecast{
					{Date: "2026-08-29"}, {Date: "2026-08-30"}, {Date: "2026-08-31"},
				},
			},
			LastUpdated: &updated,
		},
	}
}

func newTestApp(rec *recorder, state store.State) App {
	return NewApp(rec.intents(), state, func() time.Time { return uiNow })
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestEnterSearchesTypedQuery(t *testing.T) {
	rec := &recorder{}
	app := newTestApp(rec, store.State{})

	model, _ := app.Update(key("L"))
	model, _ = model.Update(key("enter"))
	_ = model

	require.Len(t, rec.searches, 1)
	assert.Equal(t, "L", rec.searches[0])
}

func TestEnterSelectsHighlightedLocation(t *testing.T) {
	rec := &recorder{}
	state := store.State{
		Locations: []domain.Location{
			{ID: 1, Name: "London", Country: "United Kingdom"},
			{ID: 2, Name: "London", Country: "Canada"},
		},
	}
	app := newTestApp(rec, state)

	model, _ := app.Update(key("down"))
	model, _ = model.Update(key("enter"))
	_ = model

	require.Len(t, rec.selected, 1)
	assert.Equal(t, 2, rec.selected[0].ID)
}

func TestDaySelectionWalksTimeline(t *testing.T) {
	rec := &recorder{}
	app := newTestApp(rec, weatherState())

	// Moving right from "today" selects the first forecast day.
	model, _ := app.Update(key("right"))
	_ = model
	require.Len(t, rec.days, 1)
	require.NotNil(t, rec.days[0])
	assert.Equal(t, "2026-08-29", rec.days[0].Date)

	// Moving left from "today" selects the newest history day.
	rec2 := &recorder{}
	app2 := newTestApp(rec2, weatherState())
	model, _ = app2.Update(key("left"))
	_ = model
	require.Len(t, rec2.days, 1)
	require.NotNil(t, rec2.days[0])
	assert.Equal(t, "2026-08-27", rec2.days[0].Date)
}

func TestReturningToTodayClearsSelection(t *testing.T) {
	rec := &recorder{}
	state := weatherState()
	day := state.Weather.Forecast[0] // one step right of today
	state.SelectedDay = &day
	app := newTestApp(rec, state)

	model, _ := app.Update(key("left"))
	_ = model

	require.Len(t, rec.days, 1)
	assert.Nil(t, rec.days[0], "stepping back onto today reverts to current")
}

func TestRefreshRespectsCooldown(t *testing.T) {
	rec := &recorder{}
	app := newTestApp(rec, weatherState()) // updated 2 minutes ago

	model, _ := app.Update(key("ctrl+r"))
	assert.Zero(t, rec.refreshes, "cooldown must gate manual refresh")

	// Past the cooldown it fires.
	state := weatherState()
	older := uiNow.Add(-6 * time.Minute)
	state.LastUpdated = &older
	model, _ = model.Update(StateMsg{State: state})
	model, _ = model.Update(key("ctrl+r"))
	_ = model
	assert.Equal(t, 1, rec.refreshes)
}

func TestTickAutoRefreshesWhenStale(t *testing.T) {
	rec := &recorder{}
	state := weatherState()
	stale := uiNow.Add(-45 * time.Minute)
	state.LastUpdated = &stale
	app := newTestApp(rec, state)

	model, _ := app.Update(TickMsg(uiNow))
	_ = model
	assert.Equal(t, 1, rec.refreshes)

	// Fresh data just reschedules the tick.
	rec2 := &recorder{}
	app2 := newTestApp(rec2, weatherState())
	model, _ = app2.Update(TickMsg(uiNow))
	_ = model
	assert.Zero(t, rec2.refreshes)
}

func TestViewRendersWeather(t *testing.T) {
	rec := &recorder{}
	app := newTestApp(rec, weatherState())

	out := app.View()
	assert.Contains(t, out, "London, United Kingdom")
	assert.Contains(t, out, "20°C")
	assert.Contains(t, out, "Partly cloudy")
	assert.Contains(t, out, "Updated 2 minutes ago")
}

func TestViewRendersErrorBanner(t *testing.T) {
	rec := &recorder{}
	state := weatherState()
	state.Err = "weather fetch failed: Service Unavailable"
	app := newTestApp(rec, state)

	assert.Contains(t, app.View(), "weather fetch failed: Service Unavailable")
}
