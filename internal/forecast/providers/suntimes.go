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

// SunriseSunsetProvider implements forecast.SunProvider against
// sunrise-sunset.org. No API key is required.
type SunriseSunsetProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewSunriseSunsetProvider(client *http.Client) *SunriseSunsetProvider {
	return &SunriseSunsetProvider{
		name:    "sunrise-sunset",
		baseURL: "https://api.sunrise-sunset.org/json",
		httpCfg: HTTPClientConfig{Client: client, Backoff: defaultBackoff()},
		circuit: newBreaker("sunrise-sunset"),
	}
}

func (p *SunriseSunsetProvider) Name() string {
	return p.name
}

func (p *SunriseSunsetProvider) FetchSunTimes(ctx context.Context, req forecast.Request) (forecast.SunTimes, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%.4f", req.Latitude))
	values.Set("lng", fmt.Sprintf("%.4f", req.Longitude))
	values.Set("formatted", "0")
	values.Set("date", req.Day.Format("2006-01-02"))

	var payload struct {
		Status  string `json:"status"`
		Results struct {
			Sunrise string `json:"sunrise"`
			Sunset  string `json:"sunset"`
		} `json:"results"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return forecast.SunTimes{}, err
	}
	if payload.Status != "OK" {
		return forecast.SunTimes{}, fmt.Errorf("sunrise-sunset status %q", payload.Status)
	}

	sunrise, err := time.Parse(time.RFC3339, payload.Results.Sunrise)
	if err != nil {
		return forecast.SunTimes{}, fmt.Errorf("parse sunrise: %w", err)
	}
	sunset, err := time.Parse(time.RFC3339, payload.Results.Sunset)
	if err != nil {
		return forecast.SunTimes{}, fmt.Errorf("parse sunset: %w", err)
	}

	loc := req.Day.Location()
	return forecast.SunTimes{
		Sunrise: sunrise.In(loc),
		Sunset:  sunset.In(loc),
	}, nil
}
