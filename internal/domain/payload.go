package domain

// ForecastPayload mirrors the Open-Meteo forecast response for the
// parameter set this client requests: current conditions, three hourly
// series, and a 7-entry daily series (past_days=3, forecast_days=4).
//
// Hourly samples use pointers because the provider encodes missing
// readings as JSON null; the transformer skips nil samples when averaging.
type ForecastPayload struct {
	CurrentWeather CurrentWeatherBlock `json:"current_weather"`
	Hourly         HourlyBlock         `json:"hourly"`
	Daily          DailyBlock          `json:"daily"`
}

// CurrentWeatherBlock is the provider's instantaneous reading.
type CurrentWeatherBlock struct {
	Temperature   float64 `json:"temperature"`
	WeatherCode   int     `json:"weathercode"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection int     `json:"winddirection"`
}

// HourlyBlock holds 7×24 samples aligned to the daily series.
// Time entries are local civil datetimes, e.g. "2026-08-28T14:00".
type HourlyBlock struct {
	Time             []string   `json:"time"`
	RelativeHumidity []*float64 `json:"relativehumidity_2m"`
	Precipitation    []*float64 `json:"precipitation"`
	PressureMSL      []*float64 `json:"pressure_msl"`
}

// DailyBlock holds one entry per calendar day: 3 past days, today, 3
// future days. Time entries are ISO dates, e.g. "2026-08-28".
type DailyBlock struct {
	Time                  []string  `json:"time"`
	TemperatureMax        []float64 `json:"temperature_2m_max"`
	TemperatureMin        []float64 `json:"temperature_2m_min"`
	WeatherCode           []int     `json:"weathercode"`
	Sunrise               []string  `json:"sunrise"`
	Sunset                []string  `json:"sunset"`
	WindSpeedMax          []float64 `json:"windspeed_10m_max"`
	WindDirectionDominant []float64 `json:"winddirection_10m_dominant"`
	PrecipitationSum      []float64 `json:"precipitation_sum"`
}

// GeocodingPayload mirrors the Open-Meteo geocoding response. Results is
// absent entirely when nothing matches.
type GeocodingPayload struct {
	Results []GeocodingResult `json:"results"`
}

// GeocodingResult is one catalog entry from the geocoding endpoint.
type GeocodingResult struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
