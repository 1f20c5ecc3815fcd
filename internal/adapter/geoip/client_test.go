package geoip

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-app/skycast/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","lat":59.9139,"lon":10.7522,"city":"Oslo"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, testLogger())
	loc, err := c.Locate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SentinelLocationID, loc.ID)
	assert.Equal(t, "Current Location", loc.Name)
	assert.Empty(t, loc.Country)
	assert.Equal(t, 59.9139, loc.Latitude)
	assert.Equal(t, 10.7522, loc.Longitude)
}

func TestLocate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, testLogger())
	_, err := c.Locate(context.Background())
	require.Error(t, err)

	var nerr *domain.NetworkError
	assert.ErrorAs(t, err, &nerr)
}

func TestLocate_NoCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, testLogger())
	_, err := c.Locate(context.Background())
	require.Error(t, err)
}

func TestLocate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond, testLogger())
	_, err := c.Locate(context.Background())
	require.Error(t, err)
}
