package storage

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-app/skycast/internal/domain"
	"github.com/skycast-app/skycast/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "skycast.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadState(t *testing.T) {
	db := openTestDB(t)

	updated := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	state := store.PersistedState{
		Weather: &domain.WeatherSnapshot{
			LocationName: "London, United Kingdom",
			Today:        domain.DailyForecast{Date: "2026-08-28", MaxTemp: 23, MinTemp: 14, AvgTemp: 19},
		},
		LastLocation: &domain.Location{ID: 2643743, Name: "London", Country: "United Kingdom"},
		LastUpdated:  &updated,
		RecentSearches: []domain.Location{
			{ID: 2643743, Name: "London", Country: "United Kingdom"},
			{ID: 2988507, Name: "Paris", Country: "France"},
		},
	}

	require.NoError(t, db.SaveState(state))

	loaded, ok := db.LoadState()
	require.True(t, ok)
	assert.Equal(t, state, loaded)
}

func TestSaveState_Overwrites(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveState(store.PersistedState{
		LastLocation: &domain.Location{ID: 1, Name: "Oslo"},
	}))
	require.NoError(t, db.SaveState(store.PersistedState{
		LastLocation: &domain.Location{ID: 2, Name: "Bergen"},
	}))

	loaded, ok := db.LoadState()
	require.True(t, ok)
	require.NotNil(t, loaded.LastLocation)
	assert.Equal(t, 2, loaded.LastLocation.ID)
}

func TestLoadState_Empty(t *testing.T) {
	db := openTestDB(t)

	_, ok := db.LoadState()
	assert.False(t, ok)
}

func TestLoadState_GarbledEnvelope(t *testing.T) {
	db := openTestDB(t)

	_, err := db.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, StateKey, "{not json")
	require.NoError(t, err)

	_, ok := db.LoadState()
	assert.False(t, ok)
}

func TestLoadState_UnknownVersion(t *testing.T) {
	db := openTestDB(t)

	_, err := db.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, StateKey, `{"state":{},"version":99}`)
	require.NoError(t, err)

	_, ok := db.LoadState()
	assert.False(t, ok)
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skycast.db")

	db, err := Open(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, db.SaveState(store.PersistedState{
		LastLocation: &domain.Location{ID: 7, Name: "Tromsø", Country: "Norway"},
	}))
	require.NoError(t, db.Close())

	db, err = Open(path, testLogger())
	require.NoError(t, err)
	defer db.Close()

	loaded, ok := db.LoadState()
	require.True(t, ok)
	require.NotNil(t, loaded.LastLocation)
	assert.Equal(t, "Tromsø", loaded.LastLocation.Name)
}
