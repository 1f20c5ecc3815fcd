// Package geoip resolves the machine's approximate coordinates from a
// public IP-geolocation endpoint, standing in for a browser's
// geolocation permission flow. Results are never cached: every request
// asks for a fresh position.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/skycast-app/skycast/internal/domain"
)

// Client looks up the caller's position by IP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a geoip client. The timeout bounds the whole lookup;
// there is no retry, the user just asks again.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Locate returns an ad-hoc sentinel location for the machine's
// approximate position. The sentinel ID marks it as unowned by the
// geocoding catalog.
func (c *Client) Locate(ctx context.Context) (domain.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("locate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Location{}, &domain.NetworkError{Op: "geolocation", StatusText: http.StatusText(resp.StatusCode)}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Location{}, fmt.Errorf("decode locate response: %w", err)
	}
	if payload.Latitude == 0 && payload.Longitude == 0 {
		return domain.Location{}, fmt.Errorf("locate response has no coordinates")
	}

	c.logger.Debug("position resolved", "lat", payload.Latitude, "lon", payload.Longitude)

	return domain.Location{
		ID:        domain.SentinelLocationID,
		Name:      "Current Location",
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	}, nil
}

// response is the subset of the ip-api.com JSON payload this client
// reads.
type response struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}
