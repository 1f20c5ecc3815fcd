// Package ui is the terminal presentation layer. The model never holds
// the store directly: it receives state via messages emitted by the
// intent commands wired in the composition root, so the store stays the
// single writer of application state.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skycast-app/skycast/internal/domain"
	"github.com/skycast-app/skycast/internal/store"
	"github.com/skycast-app/skycast/internal/view"
)

// tickInterval drives staleness re-rendering and the auto-refresh check.
const tickInterval = 30 * time.Second

// Intents are the store actions the UI can trigger, wrapped as command
// constructors by the composition root.
type Intents struct {
	Search     func(query string) tea.Cmd
	Select     func(location domain.Location) tea.Cmd
	Refresh    func() tea.Cmd
	SelectDay  func(day *domain.DailyForecast) tea.Cmd
	ClearError func() tea.Cmd
	Locate     func() tea.Cmd
}

// App is the root Bubble Tea model.
type App struct {
	intents Intents
	now     func() time.Time

	state store.State

	input     textinput.Model
	spin      spinner.Model
	locCursor int
	width     int
	height    int
}

// NewApp creates the root model. now supplies the wall clock for
// staleness rendering so tests can freeze it.
func NewApp(intents Intents, initial store.State, now func() time.Time) App {
	input := textinput.New()
	input.Placeholder = "Search for a city..."
	input.CharLimit = 60
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return App{
		intents: intents,
		now:     now,
		state:   initial,
		input:   input,
		spin:    spin,
	}
}

// Init schedules the staleness tick.
func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case StateMsg:
		wasLoading := a.state.IsLoading
		a.state = msg.State
		if len(a.state.Locations) > 0 && a.locCursor >= len(a.state.Locations) {
			a.locCursor = len(a.state.Locations) - 1
		}
		if a.state.IsLoading && !wasLoading {
			return a, a.spin.Tick
		}
		return a, nil

	case LocateFailedMsg:
		a.state.Err = "Could not determine your location."
		return a, nil

	case TickMsg:
		// The view layer owns the staleness-triggered refresh policy.
		if a.stale() && !a.state.IsLoading && a.intents.Refresh != nil {
			return a, tea.Batch(a.intents.Refresh(), tick())
		}
		return a, tick()

	case spinner.TickMsg:
		if !a.state.IsLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "enter":
		if len(a.state.Locations) > 0 {
			loc := a.state.Locations[a.locCursor]
			a.locCursor = 0
			return a, a.intents.Select(loc)
		}
		query := a.input.Value()
		return a, a.intents.Search(query)

	case "esc":
		switch {
		case len(a.state.Locations) > 0:
			a.locCursor = 0
			return a, a.intents.Search("") // blank query clears candidates
		case a.state.Err != "":
			return a, a.intents.ClearError()
		case a.state.SelectedDay != nil:
			return a, a.intents.SelectDay(nil)
		default:
			a.input.SetValue("")
			return a, nil
		}

	case "up", "ctrl+p":
		if len(a.state.Locations) > 0 && a.locCursor > 0 {
			a.locCursor--
		}
		return a, nil

	case "down", "ctrl+n":
		if len(a.state.Locations) > 0 && a.locCursor < len(a.state.Locations)-1 {
			a.locCursor++
		}
		return a, nil

	case "left", "right":
		return a.moveDaySelection(msg.String() == "right")

	case "ctrl+r":
		if a.canRefresh() && !a.state.IsLoading {
			return a, a.intents.Refresh()
		}
		return a, nil

	case "ctrl+g":
		return a, a.intents.Locate()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// moveDaySelection walks the 7-day timeline. Moving past "today" in
// the current-conditions position enters selection; selecting today
// again leaves it.
func (a App) moveDaySelection(forward bool) (tea.Model, tea.Cmd) {
	if a.state.Weather == nil {
		return a, nil
	}
	timeline := a.state.Weather.Timeline()

	idx := a.selectedIndex(timeline)
	if forward {
		idx++
	} else {
		idx--
	}
	if idx < 0 || idx >= len(timeline) {
		return a, nil
	}
	if idx == domain.TodayIndex {
		return a, a.intents.SelectDay(nil)
	}
	day := timeline[idx]
	return a, a.intents.SelectDay(&day)
}

func (a App) selectedIndex(timeline []domain.DailyForecast) int {
	if a.state.SelectedDay == nil {
		return domain.TodayIndex
	}
	for i, day := range timeline {
		if day.Date == a.state.SelectedDay.Date {
			return i
		}
	}
	return domain.TodayIndex
}

func (a App) stale() bool {
	if a.state.LastUpdated == nil {
		return false
	}
	return view.IsStale(*a.state.LastUpdated, a.now())
}

func (a App) canRefresh() bool {
	if a.state.LastUpdated == nil {
		return false
	}
	return view.CanRefresh(*a.state.LastUpdated, a.now())
}
