package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/bethellan/MaranuiCam/internal/forecast"
)

// OpenMeteoMarineProvider implements forecast.MarineProvider against
// the Open-Meteo marine API. No API key is required.
type OpenMeteoMarineProvider struct {
	name     string
	baseURL  string
	timezone *time.Location
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func NewOpenMeteoMarineProvider(client *http.Client, timezone *time.Location) *OpenMeteoMarineProvider {
	return &OpenMeteoMarineProvider{
		name:     "openmeteo-marine",
		baseURL:  "https://marine-api.open-meteo.com/v1/marine",
		timezone: timezone,
		httpCfg:  HTTPClientConfig{Client: client, Backoff: defaultBackoff()},
		circuit:  newBreaker("openmeteo-marine"),
	}
}

func (p *OpenMeteoMarineProvider) Name() string {
	return p.name
}

func (p *OpenMeteoMarineProvider) FetchMarine(ctx context.Context, req forecast.Request) (forecast.MarineReport, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", req.Latitude))
	values.Set("longitude", fmt.Sprintf("%.4f", req.Longitude))
	values.Set("hourly", "wave_height,wave_period,wave_direction,sea_surface_temperature")
	values.Set("timezone", p.timezone.String())
	values.Set("start_date", req.Day.Format("2006-01-02"))
	values.Set("end_date", req.Day.AddDate(0, 0, 1).Format("2006-01-02"))

	var payload struct {
		Hourly struct {
			Time          []string   `json:"time"`
			WaveHeight    []*float64 `json:"wave_height"`
			WavePeriod    []*float64 `json:"wave_period"`
			WaveDirection []*float64 `json:"wave_direction"`
			SeaSurfaceT   []*float64 `json:"sea_surface_temperature"`
		} `json:"hourly"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return forecast.MarineReport{}, err
	}

	report := forecast.MarineReport{
		WaveHeight:    forecast.MissingSeries(),
		WavePeriod:    forecast.MissingSeries(),
		WaveDirection: forecast.MissingSeries(),
		WaterTemp:     forecast.MissingSeries(),
	}

	index := hourIndex(payload.Hourly.Time)
	for i, hour := range req.Hours {
		j, ok := index[hour.Format(hourKeyLayout)]
		if !ok {
			continue
		}
		report.WaveHeight[i] = deref(payload.Hourly.WaveHeight, j)
		report.WavePeriod[i] = deref(payload.Hourly.WavePeriod, j)
		report.WaveDirection[i] = deref(payload.Hourly.WaveDirection, j)
		report.WaterTemp[i] = deref(payload.Hourly.SeaSurfaceT, j)
	}

	return report, nil
}
