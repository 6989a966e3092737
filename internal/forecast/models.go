package forecast

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// HoursPerDay is the fixed length of every hourly series.
const HoursPerDay = 24

// HourlySeries holds one sample per local hour of a single day,
// index 0 = local midnight. Before normalization a sample may be
// missing (NaN); afterwards every sample is a real value inside the
// metric's physical bounds.
type HourlySeries [HoursPerDay]float64

// MissingSeries returns a series with every sample marked missing.
func MissingSeries() HourlySeries {
	var s HourlySeries
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// IsMissing reports whether a sample is the missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Metric identifies one of the named hourly series in a dataset.
type Metric string

const (
	MetricTemperature   Metric = "temperature"
	MetricFeelsLike     Metric = "feelsLike"
	MetricHumidity      Metric = "humidity"
	MetricPressure      Metric = "pressure"
	MetricWindSpeed     Metric = "windSpeed"
	MetricWindGusts     Metric = "windGusts"
	MetricWindDirection Metric = "windDirection"
	MetricRain          Metric = "rain"
	MetricWaveHeight    Metric = "waveHeight"
	MetricWavePeriod    Metric = "wavePeriod"
	MetricWaveDirection Metric = "waveDirection"
	MetricTideHeight    Metric = "tideHeight"
	MetricWaterTemp     Metric = "waterTemperature"
)

// Metrics lists every series a dataset carries, in table order.
var Metrics = []Metric{
	MetricTemperature, MetricFeelsLike, MetricHumidity, MetricPressure,
	MetricWindSpeed, MetricWindGusts, MetricWindDirection, MetricRain,
	MetricWaveHeight, MetricWavePeriod, MetricWaveDirection,
	MetricTideHeight, MetricWaterTemp,
}

// Bounds is the physically plausible range for a metric. Values outside
// it are clamped, never rejected.
type Bounds struct {
	Min float64
	Max float64
}

var metricBounds = map[Metric]Bounds{
	MetricTemperature:   {-5, 40},
	MetricFeelsLike:     {-5, 40},
	MetricHumidity:      {0, 100},
	MetricPressure:      {950, 1050},
	MetricWindSpeed:     {0, 150},
	MetricWindGusts:     {0, 200},
	MetricWindDirection: {0, 360},
	MetricRain:          {0, 200},
	MetricWaveHeight:    {0, 15},
	MetricWavePeriod:    {0, 30},
	MetricWaveDirection: {0, 360},
	MetricTideHeight:    {-5, 5},
	MetricWaterTemp:     {0, 30},
}

// BoundsFor returns the clamp range for a metric.
func BoundsFor(m Metric) Bounds {
	return metricBounds[m]
}

// TideExtremum is one high or low point of the tide curve.
type TideExtremum struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height"`
}

// TideExtrema holds the day's detected extrema, at most two of each
// kind, ascending by time.
type TideExtrema struct {
	Highs []TideExtremum `json:"highs"`
	Lows  []TideExtremum `json:"lows"`
}

// EventKind distinguishes high from low water in an authoritative
// tide-event overlay.
type EventKind string

const (
	EventHigh EventKind = "high"
	EventLow  EventKind = "low"
)

// TideEvent is one entry of the optional authoritative overlay. The
// overlay annotates the same curve the extremum detector annotates; it
// never replaces the detected extrema.
type TideEvent struct {
	Time time.Time `json:"time"`
	Kind EventKind `json:"kind"`
}

// Dataset is the reconciled, fully populated view of one day. It is
// immutable once published; a refresh produces a new Dataset that
// supersedes it.
type Dataset struct {
	ID         uuid.UUID `json:"id"`
	Generation uint64    `json:"generation"`

	Day   time.Time              `json:"day"` // local midnight
	Hours [HoursPerDay]time.Time `json:"hours"`

	Temperature   HourlySeries `json:"temperature"`
	FeelsLike     HourlySeries `json:"feelsLike"`
	Humidity      HourlySeries `json:"humidity"`
	Pressure      HourlySeries `json:"pressure"`
	WindSpeed     HourlySeries `json:"windSpeed"`
	WindGusts     HourlySeries `json:"windGusts"`
	WindDirection HourlySeries `json:"windDirection"`
	Rain          HourlySeries `json:"rain"`
	WaveHeight    HourlySeries `json:"waveHeight"`
	WavePeriod    HourlySeries `json:"wavePeriod"`
	WaveDirection HourlySeries `json:"waveDirection"`
	TideHeight    HourlySeries `json:"tideHeight"`
	WaterTemp     HourlySeries `json:"waterTemperature"`

	// Surfability is derived from the hourly conditions, 0-10.
	Surfability HourlySeries `json:"surfability"`

	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`

	Tides      TideExtrema `json:"tides"`
	TideEvents []TideEvent `json:"tideEvents,omitempty"`

	// Offline is set when both primary providers failed and every
	// series is synthetic.
	Offline bool `json:"offline"`

	// Sources names the adapters that contributed real data.
	Sources []string `json:"sources,omitempty"`

	AssembledAt time.Time `json:"assembledAt"`
}

// Series returns a pointer to the named series, or nil for an unknown
// metric. Used by the normalization pass to treat all 13 uniformly.
func (d *Dataset) Series(m Metric) *HourlySeries {
	switch m {
	case MetricTemperature:
		return &d.Temperature
	case MetricFeelsLike:
		return &d.FeelsLike
	case MetricHumidity:
		return &d.Humidity
	case MetricPressure:
		return &d.Pressure
	case MetricWindSpeed:
		return &d.WindSpeed
	case MetricWindGusts:
		return &d.WindGusts
	case MetricWindDirection:
		return &d.WindDirection
	case MetricRain:
		return &d.Rain
	case MetricWaveHeight:
		return &d.WaveHeight
	case MetricWavePeriod:
		return &d.WavePeriod
	case MetricWaveDirection:
		return &d.WaveDirection
	case MetricTideHeight:
		return &d.TideHeight
	case MetricWaterTemp:
		return &d.WaterTemp
	default:
		return nil
	}
}
