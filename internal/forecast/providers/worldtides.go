package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/bethellan/MaranuiCam/internal/forecast"
)

// WorldTidesProvider implements both forecast.TideHeightProvider and
// forecast.TideEventProvider against the WorldTides v2 API. It is
// credential-gated: without a key it reports not-configured instead of
// probing the API.
type WorldTidesProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWorldTidesProvider(client *http.Client, apiKey string) *WorldTidesProvider {
	return &WorldTidesProvider{
		name:    "worldtides",
		apiKey:  apiKey,
		baseURL: "https://www.worldtides.info/api/v2",
		httpCfg: HTTPClientConfig{Client: client, Backoff: defaultBackoff()},
		circuit: newBreaker("worldtides"),
	}
}

func (p *WorldTidesProvider) Name() string {
	return p.name
}

// FetchTideHeights returns the day's hourly tide heights relative to
// mean sea level.
func (p *WorldTidesProvider) FetchTideHeights(ctx context.Context, req forecast.Request) (forecast.HourlySeries, error) {
	if p.apiKey == "" {
		return forecast.HourlySeries{}, forecast.ErrNotConfigured
	}

	start := req.Day.Unix()
	values := url.Values{}
	values.Set("heights", "")
	values.Set("lat", fmt.Sprintf("%.4f", req.Latitude))
	values.Set("lon", fmt.Sprintf("%.4f", req.Longitude))
	values.Set("start", fmt.Sprintf("%d", start))
	values.Set("length", fmt.Sprintf("%d", forecast.HoursPerDay*3600))
	values.Set("step", "3600")
	values.Set("key", p.apiKey)

	var payload struct {
		Status  int `json:"status"`
		Heights []struct {
			Dt     int64   `json:"dt"`
			Height float64 `json:"height"`
		} `json:"heights"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return forecast.HourlySeries{}, err
	}
	if len(payload.Heights) == 0 {
		return forecast.HourlySeries{}, fmt.Errorf("worldtides returned no heights (status %d)", payload.Status)
	}

	heights := forecast.MissingSeries()
	for _, h := range payload.Heights {
		idx := int((h.Dt - start) / 3600)
		if idx >= 0 && idx < forecast.HoursPerDay {
			heights[idx] = h.Height
		}
	}
	return heights, nil
}

// FetchTideEvents returns the day's high/low water events for the
// authoritative overlay.
func (p *WorldTidesProvider) FetchTideEvents(ctx context.Context, req forecast.Request) ([]forecast.TideEvent, error) {
	if p.apiKey == "" {
		return nil, forecast.ErrNotConfigured
	}

	values := url.Values{}
	values.Set("extremes", "")
	values.Set("lat", fmt.Sprintf("%.4f", req.Latitude))
	values.Set("lon", fmt.Sprintf("%.4f", req.Longitude))
	values.Set("start", fmt.Sprintf("%d", req.Day.Unix()))
	values.Set("length", fmt.Sprintf("%d", forecast.HoursPerDay*3600))
	values.Set("key", p.apiKey)

	var payload struct {
		Status   int `json:"status"`
		Extremes []struct {
			Dt   int64  `json:"dt"`
			Type string `json:"type"` // "High" or "Low"
		} `json:"extremes"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	events := make([]forecast.TideEvent, 0, len(payload.Extremes))
	for _, ex := range payload.Extremes {
		kind := forecast.EventLow
		if strings.EqualFold(ex.Type, "high") {
			kind = forecast.EventHigh
		}
		events = append(events, forecast.TideEvent{
			Time: time.Unix(ex.Dt, 0).In(req.Day.Location()),
			Kind: kind,
		})
	}
	return events, nil
}
