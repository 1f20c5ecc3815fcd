package domain

import (
	"fmt"
	"math"
	"time"
)

// The request always asks Open-Meteo for past_days=3 and forecast_days=4,
// so the daily series carries exactly 7 entries with "today" at index 3
// and the hourly series carries 7×24 aligned samples. BuildSnapshot
// validates both lengths instead of trusting the provider.
const (
	TimelineDays = 7
	TodayIndex   = 3
	hoursPerDay  = 24
)

const hourlyTimeLayout = "2006-01-02T15:04"

// BuildSnapshot converts a raw forecast payload into a WeatherSnapshot.
// It is pure and deterministic given the payload and the evaluation
// instant: now is only used to pick the hourly sample backing the
// "current" humidity/precipitation/pressure, and is injected so tests
// can freeze it.
func BuildSnapshot(payload ForecastPayload, locationName string, now time.Time) (WeatherSnapshot, error) {
	if err := validatePayload(payload); err != nil {
		return WeatherSnapshot{}, err
	}

	days := make([]DailyForecast, TimelineDays)
	for i := range days {
		days[i] = buildDay(payload, i)
	}

	today := days[TodayIndex]
	hourIdx := currentHourIndex(payload.Hourly.Time, now)

	cur := payload.CurrentWeather
	current := CurrentConditions{
		Temp:          roundInt(cur.Temperature),
		MaxTemp:       today.MaxTemp,
		MinTemp:       today.MinTemp,
		WeatherCode:   cur.WeatherCode,
		WindSpeed:     cur.WindSpeed,
		WindDirection: cur.WindDirection,
		Humidity:      roundInt(sampleOrZero(payload.Hourly.RelativeHumidity, hourIdx)),
		Precipitation: roundTenth(sampleOrZero(payload.Hourly.Precipitation, hourIdx)),
		Pressure:      roundInt(sampleOrZero(payload.Hourly.PressureMSL, hourIdx)),
		Sunrise:       today.Sunrise,
		Sunset:        today.Sunset,
	}

	return WeatherSnapshot{
		LocationName: locationName,
		Current:      current,
		Today:        today,
		History:      days[:TodayIndex],
		Forecast:     days[TodayIndex+1:],
	}, nil
}

func validatePayload(p ForecastPayload) error {
	if n := len(p.Daily.Time); n != TimelineDays {
		return &TransformError{Reason: fmt.Sprintf("daily series has %d entries, want %d", n, TimelineDays)}
	}
	if len(p.Daily.TemperatureMax) != TimelineDays || len(p.Daily.TemperatureMin) != TimelineDays {
		return &TransformError{Reason: "daily temperature series length mismatch"}
	}
	if len(p.Daily.WeatherCode) != TimelineDays {
		return &TransformError{Reason: "daily weathercode series length mismatch"}
	}
	wantHours := TimelineDays * hoursPerDay
	if n := len(p.Hourly.Time); n != wantHours {
		return &TransformError{Reason: fmt.Sprintf("hourly series has %d entries, want %d", n, wantHours)}
	}
	return nil
}

func buildDay(p ForecastPayload, i int) DailyForecast {
	maxT := roundInt(p.Daily.TemperatureMax[i])
	minT := roundInt(p.Daily.TemperatureMin[i])

	return DailyForecast{
		Date:          p.Daily.Time[i],
		MaxTemp:       maxT,
		MinTemp:       minT,
		AvgTemp:       roundInt((float64(maxT) + float64(minT)) / 2),
		WeatherCode:   p.Daily.WeatherCode[i],
		WindSpeed:     math.Round(floatAt(p.Daily.WindSpeedMax, i)),
		WindDirection: roundInt(floatAt(p.Daily.WindDirectionDominant, i)),
		Humidity:      roundInt(dailyMean(p.Hourly.RelativeHumidity, i)),
		Precipitation: roundTenth(floatAt(p.Daily.PrecipitationSum, i)),
		Pressure:      roundInt(dailyMean(p.Hourly.PressureMSL, i)),
		Sunrise:       stringAt(p.Daily.Sunrise, i),
		Sunset:        stringAt(p.Daily.Sunset, i),
	}
}

// dailyMean averages day i's 24 hourly samples, skipping null readings.
// A day with no valid samples averages to 0.
func dailyMean(samples []*float64, day int) float64 {
	start := day * hoursPerDay
	end := start + hoursPerDay
	if end > len(samples) {
		end = len(samples)
	}

	var sum float64
	var n int
	for idx := start; idx < end; idx++ {
		s := samples[idx]
		if s == nil || math.IsNaN(*s) {
			continue
		}
		sum += *s
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// currentHourIndex finds the hourly sample whose local civil hour and
// calendar date match now. When no entry matches (clock skew, truncated
// series) it falls back to today's slot for the current hour.
func currentHourIndex(times []string, now time.Time) int {
	date := now.Format("2006-01-02")
	for i, raw := range times {
		ts, err := time.Parse(hourlyTimeLayout, raw)
		if err != nil {
			continue
		}
		if ts.Hour() == now.Hour() && ts.Format("2006-01-02") == date {
			return i
		}
	}
	return TodayIndex*hoursPerDay + now.Hour()
}

func sampleOrZero(samples []*float64, idx int) float64 {
	if idx < 0 || idx >= len(samples) || samples[idx] == nil {
		return 0
	}
	return *samples[idx]
}

func floatAt(s []float64, i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func stringAt(s []string, i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}
	return s[i]
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
