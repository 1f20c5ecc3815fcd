// Package store holds the client's single source of truth: the current
// weather snapshot, search results, day selection, and the persisted
// history (last location, last update time, recent searches). All user
// intents funnel through it and every gateway failure is converted into
// a user-facing error string here.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/skycast-app/skycast/internal/domain"
	"github.com/skycast-app/skycast/internal/observability"
)

// maxRecentSearches caps the recent-searches list.
const maxRecentSearches = 5

// Gateway is the store's view of the network boundary.
type Gateway interface {
	SearchLocations(ctx context.Context, query string) ([]domain.Location, error)
	FetchWeather(ctx context.Context, latitude, longitude float64, locationName string) (domain.WeatherSnapshot, error)
}

// PersistedState is the subset of store state written to durable local
// storage whenever it changes and restored once at startup.
type PersistedState struct {
	Weather        *domain.WeatherSnapshot `json:"weather"`
	LastLocation   *domain.Location        `json:"lastLocation"`
	LastUpdated    *time.Time              `json:"lastUpdated"`
	RecentSearches []domain.Location       `json:"recentSearches"`
}

// State is the full store state. The embedded persisted subset survives
// restarts; the rest is transient.
type State struct {
	PersistedState

	SelectedDay *domain.DailyForecast
	Locations   []domain.Location
	IsLoading   bool
	Err         string
}

// Persister receives the persisted subset after every change to it.
// The composition root plugs in the storage layer; tests leave it nil.
type Persister func(PersistedState) error

// Store is an explicit, constructible state container. Multiple
// independent instances can coexist, which keeps tests isolated.
type Store struct {
	gateway Gateway
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	persist Persister

	mu    sync.Mutex
	state State

	// fetchSeq orders weather fetches. A fetch that is no longer the
	// latest when it resolves is discarded instead of overwriting newer
	// data; without this guard, whichever overlapping fetch resolved
	// last would win regardless of start order.
	fetchSeq uint64
}

// New creates a Store. persist may be nil when durability is not wanted.
func New(gateway Gateway, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger, persist Persister) *Store {
	return &Store{
		gateway: gateway,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		persist: persist,
	}
}

// State returns a copy of the current state. Slices are copied so
// callers can hold the result across store mutations.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	out := s.state
	out.Locations = append([]domain.Location(nil), s.state.Locations...)
	out.RecentSearches = append([]domain.Location(nil), s.state.RecentSearches...)
	return out
}

// Restore installs a previously persisted subset. The composition root
// calls it once at startup, before any action runs.
func (s *Store) Restore(p PersistedState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PersistedState = p
	if len(p.RecentSearches) > maxRecentSearches {
		s.state.RecentSearches = p.RecentSearches[:maxRecentSearches]
	}
}

// SearchCity resolves a city query into candidate locations. A blank
// query clears the candidates synchronously without a network call.
// Search is not surfaced as a blocking operation: IsLoading is left
// alone and callers wanting a spinner track the call themselves.
func (s *Store) SearchCity(ctx context.Context, query string) {
	if isBlank(query) {
		s.mu.Lock()
		s.state.Locations = nil
		s.mu.Unlock()
		return
	}

	locations, err := s.gateway.SearchLocations(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.Err = searchErrorMessage(err)
		s.logger.Warn("location search failed", "query", query, "error", err)
		return
	}
	s.state.Locations = locations
}

// SelectLocation fetches weather for a chosen location and installs the
// snapshot. The candidate list closes and the loading flag rises before
// the network call starts. On failure the previous snapshot stays
// visible under the error banner.
func (s *Store) SelectLocation(ctx context.Context, location domain.Location) {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Err = ""
	s.state.Locations = nil
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	snapshot, err := s.gateway.FetchWeather(ctx, location.Latitude, location.Longitude, location.DisplayName())

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.fetchSeq {
		s.metrics.StaleFetchesDropped.Inc()
		s.logger.Debug("superseded fetch discarded", "location", location.DisplayName())
		return
	}

	if err != nil {
		s.state.Err = fetchErrorMessage(err)
		s.state.IsLoading = false
		s.logger.Warn("weather fetch failed", "location", location.DisplayName(), "error", err)
		return
	}

	now := s.clock.Now()
	s.state.Weather = &snapshot
	s.state.SelectedDay = nil
	s.state.IsLoading = false
	s.state.LastLocation = &location
	s.state.LastUpdated = &now
	s.state.RecentSearches = dedupPrepend(s.state.RecentSearches, location)
	s.metrics.SnapshotsInstalled.Inc()
	s.persistLocked()
}

// RefreshWeather re-fetches the last selected location. It is a no-op
// when nothing has been selected yet. Day selection and recent searches
// are left untouched on success.
func (s *Store) RefreshWeather(ctx context.Context) {
	s.mu.Lock()
	if s.state.LastLocation == nil {
		s.mu.Unlock()
		return
	}
	location := *s.state.LastLocation
	s.state.IsLoading = true
	s.state.Err = ""
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	snapshot, err := s.gateway.FetchWeather(ctx, location.Latitude, location.Longitude, location.DisplayName())

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.fetchSeq {
		s.metrics.StaleFetchesDropped.Inc()
		s.logger.Debug("superseded refresh discarded", "location", location.DisplayName())
		return
	}

	if err != nil {
		s.state.Err = fetchErrorMessage(err)
		s.state.IsLoading = false
		s.logger.Warn("weather refresh failed", "location", location.DisplayName(), "error", err)
		return
	}

	now := s.clock.Now()
	s.state.Weather = &snapshot
	s.state.IsLoading = false
	s.state.LastUpdated = &now
	s.metrics.SnapshotsInstalled.Inc()
	s.persistLocked()
}

// SelectDay sets the day the display blends over the current
// conditions. Passing nil reverts the display to "current".
func (s *Store) SelectDay(day *domain.DailyForecast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if day == nil {
		s.state.SelectedDay = nil
		return
	}
	d := *day
	s.state.SelectedDay = &d
}

// ClearLocations closes the candidate list.
func (s *Store) ClearLocations() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Locations = nil
}

// ClearError dismisses the error banner.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}

// Reset restores the full initial state, persisted subset included.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	// Any in-flight fetch resolves against a newer sequence and is
	// discarded.
	s.fetchSeq++
	s.persistLocked()
}

// persistLocked writes the persisted subset through the sink. Failures
// are logged and counted, never surfaced: losing durability must not
// break the session.
func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}
	if err := s.persist(s.state.PersistedState); err != nil {
		s.metrics.PersistErrors.Inc()
		s.logger.Warn("state persistence failed", "error", err)
		return
	}
	s.metrics.PersistWrites.Inc()
}

// dedupPrepend removes any entry sharing the location's ID, prepends the
// location, and truncates to the cap.
func dedupPrepend(recents []domain.Location, location domain.Location) []domain.Location {
	out := make([]domain.Location, 0, len(recents)+1)
	out = append(out, location)
	for _, r := range recents {
		if r.ID == location.ID {
			continue
		}
		out = append(out, r)
	}
	if len(out) > maxRecentSearches {
		out = out[:maxRecentSearches]
	}
	return out
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func searchErrorMessage(err error) string {
	var nerr *domain.NetworkError
	if errors.As(err, &nerr) {
		return nerr.Error()
	}
	return "Failed to search locations."
}

func fetchErrorMessage(err error) string {
	var nerr *domain.NetworkError
	if errors.As(err, &nerr) {
		return nerr.Error()
	}
	return "Failed to fetch weather."
}
