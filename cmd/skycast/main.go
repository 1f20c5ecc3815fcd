package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/skycast-app/skycast/internal/adapter/geoip"
	"github.com/skycast-app/skycast/internal/adapter/httpdebug"
	"github.com/skycast-app/skycast/internal/adapter/openmeteo"
	"github.com/skycast-app/skycast/internal/config"
	"github.com/skycast-app/skycast/internal/domain"
	"github.com/skycast-app/skycast/internal/observability"
	"github.com/skycast-app/skycast/internal/storage"
	"github.com/skycast-app/skycast/internal/store"
	"github.com/skycast-app/skycast/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logWriter, closeLog, err := openLogWriter(cfg)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	logger := observability.NewLogger(logWriter, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	if err := os.MkdirAll(filepath.Dir(cfg.StatePath), 0o755); err != nil {
		logger.Error("failed to create state directory", "error", err)
		os.Exit(1)
	}
	db, err := storage.Open(cfg.StatePath, logger)
	if err != nil {
		logger.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	gateway := openmeteo.NewClient(cfg.GeocodingURL, cfg.ForecastURL, cfg.HTTPTimeout, metrics, logger)
	locator := geoip.NewClient(cfg.GeoIPURL, cfg.GeoIPTimeout, logger)

	st := store.New(gateway, clock, metrics, logger, func(p store.PersistedState) error {
		return db.SaveState(p)
	})
	if persisted, ok := db.LoadState(); ok {
		st.Restore(persisted)
		logger.Info("restored persisted session", "location", persisted.LastLocation)
	}

	ctx := context.Background()

	if cfg.DebugAddr != "" {
		srv := httpdebug.NewServer(cfg.DebugAddr, st, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("debug server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("debug server shutdown error", "error", err)
			}
		}()
	}

	app := ui.NewApp(buildIntents(ctx, st, locator, cfg.GeoIPTimeout), st.State(), clock.Now)

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("ui error", "error", err)
		os.Exit(1)
	}

	logger.Info("session ended")
}

// buildIntents wraps the store's blocking actions as Bubble Tea
// commands. Each command runs off the render loop and reports back with
// a fresh state copy.
func buildIntents(ctx context.Context, st *store.Store, locator *geoip.Client, locateTimeout time.Duration) ui.Intents {
	stateMsg := func() tea.Msg {
		return ui.StateMsg{State: st.State()}
	}

	return ui.Intents{
		Search: func(query string) tea.Cmd {
			return func() tea.Msg {
				st.SearchCity(ctx, query)
				return stateMsg()
			}
		},
		Select: func(location domain.Location) tea.Cmd {
			return func() tea.Msg {
				st.SelectLocation(ctx, location)
				return stateMsg()
			}
		},
		Refresh: func() tea.Cmd {
			return func() tea.Msg {
				st.RefreshWeather(ctx)
				return stateMsg()
			}
		},
		SelectDay: func(day *domain.DailyForecast) tea.Cmd {
			return func() tea.Msg {
				st.SelectDay(day)
				return stateMsg()
			}
		},
		ClearError: func() tea.Cmd {
			return func() tea.Msg {
				st.ClearError()
				return stateMsg()
			}
		},
		Locate: func() tea.Cmd {
			return func() tea.Msg {
				locateCtx, cancel := context.WithTimeout(ctx, locateTimeout)
				defer cancel()

				location, err := locator.Locate(locateCtx)
				if err != nil {
					return ui.LocateFailedMsg{Err: err}
				}
				st.SelectLocation(ctx, location)
				return stateMsg()
			}
		},
	}
}

func openLogWriter(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.LogFile == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
