package forecast

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned by adapters whose credential is absent.
// The assembler treats it as "provider unavailable", never as a fault.
var ErrNotConfigured = errors.New("provider not configured")

// Request identifies the day window an adapter should cover.
type Request struct {
	Day       time.Time // local midnight of the requested day
	Hours     [HoursPerDay]time.Time
	Latitude  float64
	Longitude float64
}

// AtmosphericReport is the forecast adapter's partial view of the day.
// Missing hours are NaN; zero sunrise/sunset means the provider did
// not supply them.
type AtmosphericReport struct {
	Temperature   HourlySeries
	FeelsLike     HourlySeries
	Humidity      HourlySeries
	Pressure      HourlySeries
	WindSpeed     HourlySeries
	WindGusts     HourlySeries
	WindDirection HourlySeries
	Rain          HourlySeries

	Sunrise time.Time
	Sunset  time.Time
}

// MarineReport is the marine adapter's partial view of the day.
type MarineReport struct {
	WaveHeight    HourlySeries
	WavePeriod    HourlySeries
	WaveDirection HourlySeries
	WaterTemp     HourlySeries
}

// SunTimes is the sun-times adapter's day-level result.
type SunTimes struct {
	Sunrise time.Time
	Sunset  time.Time
}

// AtmosphericProvider supplies forecast-type metrics.
type AtmosphericProvider interface {
	Name() string
	FetchAtmospheric(ctx context.Context, req Request) (AtmosphericReport, error)
}

// MarineProvider supplies sea-state metrics.
type MarineProvider interface {
	Name() string
	FetchMarine(ctx context.Context, req Request) (MarineReport, error)
}

// TideHeightProvider supplies authoritative hourly tide heights. When
// absent or failing, the harmonic synthesizer takes over.
type TideHeightProvider interface {
	Name() string
	FetchTideHeights(ctx context.Context, req Request) (HourlySeries, error)
}

// TideEventProvider supplies the authoritative high/low event overlay.
type TideEventProvider interface {
	Name() string
	FetchTideEvents(ctx context.Context, req Request) ([]TideEvent, error)
}

// SunProvider supplies sunrise/sunset for the day.
type SunProvider interface {
	Name() string
	FetchSunTimes(ctx context.Context, req Request) (SunTimes, error)
}
