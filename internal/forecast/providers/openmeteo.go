package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/bethellan/MaranuiCam/internal/forecast"
)

// hourKeyLayout matches Open-Meteo's local-time hour strings.
const hourKeyLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements forecast.AtmosphericProvider against
// the Open-Meteo forecast API. No API key is required.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	timezone *time.Location
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, timezone *time.Location) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  "https://api.open-meteo.com/v1/forecast",
		timezone: timezone,
		httpCfg:  HTTPClientConfig{Client: client, Backoff: defaultBackoff()},
		circuit:  newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoPayload struct {
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature   []*float64 `json:"temperature_2m"`
		Apparent      []*float64 `json:"apparent_temperature"`
		Humidity      []*float64 `json:"relative_humidity_2m"`
		Pressure      []*float64 `json:"pressure_msl"`
		WindSpeed     []*float64 `json:"wind_speed_10m"`
		WindGusts     []*float64 `json:"wind_gusts_10m"`
		WindDirection []*float64 `json:"wind_direction_10m"`
		Precipitation []*float64 `json:"precipitation"`
		Rain          []*float64 `json:"rain"`
		Showers       []*float64 `json:"showers"`
	} `json:"hourly"`
	Daily struct {
		Sunrise []string `json:"sunrise"`
		Sunset  []string `json:"sunset"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) FetchAtmospheric(ctx context.Context, req forecast.Request) (forecast.AtmosphericReport, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", req.Latitude))
	values.Set("longitude", fmt.Sprintf("%.4f", req.Longitude))
	values.Set("hourly", "temperature_2m,apparent_temperature,relative_humidity_2m,pressure_msl,"+
		"wind_speed_10m,wind_gusts_10m,wind_direction_10m,precipitation,rain,showers")
	values.Set("daily", "sunrise,sunset")
	values.Set("timezone", p.timezone.String())
	values.Set("start_date", req.Day.Format("2006-01-02"))
	values.Set("end_date", req.Day.AddDate(0, 0, 1).Format("2006-01-02"))
	values.Set("windspeed_unit", "kmh")

	var payload openMeteoPayload
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return forecast.AtmosphericReport{}, err
	}

	report := forecast.AtmosphericReport{
		Temperature:   forecast.MissingSeries(),
		FeelsLike:     forecast.MissingSeries(),
		Humidity:      forecast.MissingSeries(),
		Pressure:      forecast.MissingSeries(),
		WindSpeed:     forecast.MissingSeries(),
		WindGusts:     forecast.MissingSeries(),
		WindDirection: forecast.MissingSeries(),
		Rain:          forecast.MissingSeries(),
	}

	index := hourIndex(payload.Hourly.Time)
	for i, hour := range req.Hours {
		j, ok := index[hour.Format(hourKeyLayout)]
		if !ok {
			continue
		}
		report.Temperature[i] = deref(payload.Hourly.Temperature, j)
		report.FeelsLike[i] = deref(payload.Hourly.Apparent, j)
		report.Humidity[i] = deref(payload.Hourly.Humidity, j)
		report.Pressure[i] = deref(payload.Hourly.Pressure, j)
		report.WindSpeed[i] = deref(payload.Hourly.WindSpeed, j)
		report.WindGusts[i] = deref(payload.Hourly.WindGusts, j)
		report.WindDirection[i] = deref(payload.Hourly.WindDirection, j)
		report.Rain[i] = firstOf(
			deref(payload.Hourly.Rain, j),
			deref(payload.Hourly.Showers, j),
			deref(payload.Hourly.Precipitation, j),
			0,
		)
	}

	if len(payload.Daily.Sunrise) > 0 {
		report.Sunrise = parseLocalTime(payload.Daily.Sunrise[0], p.timezone)
	}
	if len(payload.Daily.Sunset) > 0 {
		report.Sunset = parseLocalTime(payload.Daily.Sunset[0], p.timezone)
	}

	return report, nil
}

// hourIndex maps the provider's hour keys to array positions.
func hourIndex(times []string) map[string]int {
	m := make(map[string]int, len(times))
	for i, t := range times {
		m[t] = i
	}
	return m
}

func deref(vals []*float64, i int) float64 {
	if i < 0 || i >= len(vals) || vals[i] == nil {
		return math.NaN()
	}
	return *vals[i]
}

// firstOf returns the first non-missing value.
func firstOf(vals ...float64) float64 {
	for _, v := range vals {
		if !forecast.IsMissing(v) {
			return v
		}
	}
	return math.NaN()
}

func parseLocalTime(s string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(hourKeyLayout, s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
