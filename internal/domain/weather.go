package domain

// SentinelLocationID marks an ad-hoc location (e.g. resolved from the
// machine's IP) that is not backed by a geocoding catalog entry. Sentinel
// entries are never considered duplicates of provider results.
const SentinelLocationID = 0

// Location is a place the user can fetch weather for. Identity for
// de-duplication is ID alone; provider-returned locations carry the
// provider's catalog ID.
type Location struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DisplayName renders a location the way snapshots are labeled,
// e.g. "London, United Kingdom". Ad-hoc locations have no country.
func (l Location) DisplayName() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}

// DailyForecast aggregates one calendar day of weather. Date is an ISO
// calendar date ("2006-01-02") and is the unique key within a timeline.
type DailyForecast struct {
	Date          string  `json:"date"`
	MaxTemp       int     `json:"maxTemp"`       // °C
	MinTemp       int     `json:"minTemp"`       // °C
	AvgTemp       int     `json:"avgTemp"`       // round((max+min)/2)
	WeatherCode   int     `json:"weatherCode"`   // WMO code, verbatim from provider
	WindSpeed     float64 `json:"windSpeed"`     // km/h, rounded to integer value
	WindDirection int     `json:"windDirection"` // degrees
	Humidity      int     `json:"humidity"`      // %, mean of the day's hourly samples
	Precipitation float64 `json:"precipitation"` // mm, one decimal
	Pressure      int     `json:"pressure"`      // hPa, mean of the day's hourly samples
	Sunrise       string  `json:"sunrise"`       // ISO datetime
	Sunset        string  `json:"sunset"`        // ISO datetime
}

// CurrentConditions is the instantaneous reading, with the containing
// day's extremes and sun times merged in.
type CurrentConditions struct {
	Temp          int     `json:"temp"` // °C
	MaxTemp       int     `json:"maxTemp"`
	MinTemp       int     `json:"minTemp"`
	WeatherCode   int     `json:"weatherCode"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection int     `json:"windDirection"`
	Humidity      int     `json:"humidity"`
	Precipitation float64 `json:"precipitation"`
	Pressure      int     `json:"pressure"`
	Sunrise       string  `json:"sunrise"`
	Sunset        string  `json:"sunset"`
}

// WeatherSnapshot is the normalized view of one forecast fetch. It is
// immutable by convention: the store replaces it wholesale, never
// field-by-field. History + Today + Forecast form a contiguous 7-day
// timeline in ascending date order.
type WeatherSnapshot struct {
	LocationName string            `json:"locationName"`
	Current      CurrentConditions `json:"current"`
	Today        DailyForecast     `json:"today"`
	History      []DailyForecast   `json:"history"`  // 3 days, oldest first
	Forecast     []DailyForecast   `json:"forecast"` // 3 days after today
}

// Timeline returns the full 7-day sequence, oldest first.
func (s WeatherSnapshot) Timeline() []DailyForecast {
	out := make([]DailyForecast, 0, len(s.History)+1+len(s.Forecast))
	out = append(out, s.History...)
	out = append(out, s.Today)
	out = append(out, s.Forecast...)
	return out
}
