// Package openmeteo is the only component that talks to the weather
// provider. It wraps the two Open-Meteo endpoints (geocoding search and
// forecast fetch) and hands payload shaping to the domain transformer.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/skycast-app/skycast/internal/domain"
	"github.com/skycast-app/skycast/internal/observability"
)

// searchLimit caps geocoding results via the request's count parameter.
const searchLimit = 5

// Client implements the weather gateway against the Open-Meteo API.
type Client struct {
	geocodingURL string
	forecastURL  string
	httpClient   *http.Client
	clock        clockwork.Clock
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates an Open-Meteo client. The geocoding endpoint is
// rate-limited so type-ahead search cannot hammer the free API, and both
// endpoints share a circuit breaker that opens after consecutive
// failures.
func NewClient(geocodingURL, forecastURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		clock:   clockwork.NewRealClock(),
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "open-meteo",
			Interval: time.Minute,
			Timeout:  2 * time.Minute,
		}),
		metrics: metrics,
		logger:  logger,
	}
}

// SearchLocations resolves a city name to candidate locations. A blank
// or whitespace-only query returns an empty slice without touching the
// network; an absent or empty provider result list is also an empty
// slice, not an error.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]domain.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		c.metrics.SearchRequests.WithLabelValues("skipped").Inc()
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoding rate limit: %w", err)
	}

	params := url.Values{
		"name":     {query},
		"count":    {strconv.Itoa(searchLimit)},
		"language": {"en"},
		"format":   {"json"},
	}

	var payload domain.GeocodingPayload
	if err := c.get(ctx, "geocoding", c.geocodingURL+"?"+params.Encode(), &payload); err != nil {
		c.metrics.SearchRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	if len(payload.Results) == 0 {
		c.metrics.SearchRequests.WithLabelValues("empty").Inc()
		return nil, nil
	}

	locations := make([]domain.Location, 0, len(payload.Results))
	for _, r := range payload.Results {
		locations = append(locations, domain.Location{
			ID:        r.ID,
			Name:      r.Name,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}

	c.metrics.SearchRequests.WithLabelValues("success").Inc()
	c.logger.Debug("location search", "query", query, "results", len(locations))
	return locations, nil
}

// FetchWeather retrieves the 7-day forecast window (3 past days, today,
// 3 future days) for a coordinate pair and returns the normalized
// snapshot tagged with locationName.
func (c *Client) FetchWeather(ctx context.Context, latitude, longitude float64, locationName string) (domain.WeatherSnapshot, error) {
	params := url.Values{
		"latitude":        {formatCoord(latitude)},
		"longitude":       {formatCoord(longitude)},
		"current_weather": {"true"},
		"hourly":          {"relativehumidity_2m,precipitation,pressure_msl"},
		"daily":           {"temperature_2m_max,temperature_2m_min,weathercode,sunrise,sunset,windspeed_10m_max,winddirection_10m_dominant,precipitation_sum"},
		"timezone":        {"auto"},
		"past_days":       {strconv.Itoa(domain.TodayIndex)},
		"forecast_days":   {strconv.Itoa(domain.TimelineDays - domain.TodayIndex)},
	}

	var payload domain.ForecastPayload
	if err := c.get(ctx, "forecast", c.forecastURL+"?"+params.Encode(), &payload); err != nil {
		c.metrics.ForecastRequests.WithLabelValues("error").Inc()
		return domain.WeatherSnapshot{}, err
	}

	snapshot, err := domain.BuildSnapshot(payload, locationName, c.clock.Now())
	if err != nil {
		c.metrics.ForecastRequests.WithLabelValues("error").Inc()
		return domain.WeatherSnapshot{}, err
	}

	c.metrics.ForecastRequests.WithLabelValues("success").Inc()
	c.logger.Debug("forecast fetched", "location", locationName)
	return snapshot, nil
}

// get issues a GET through the circuit breaker and decodes the JSON
// response into out. Non-2xx statuses become NetworkErrors carrying the
// status text; undecodable bodies become TransformErrors.
func (c *Client) get(ctx context.Context, endpoint, fullURL string, out any) error {
	op := "geocoding"
	if endpoint == "forecast" {
		op = "weather fetch"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := c.clock.Now()
	result, err := c.breaker.Execute(func() (any, error) {
		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		return resp, nil
	})
	c.metrics.APIDuration.WithLabelValues(endpoint).Observe(c.clock.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.NetworkError{Op: op, StatusText: statusText(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransformError{Reason: fmt.Sprintf("decode %s response: %v", endpoint, err)}
	}
	return nil
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}

// formatCoord keeps full float precision without scientific notation.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
