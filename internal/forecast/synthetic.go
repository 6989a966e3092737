package forecast

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// SyntheticEstimator produces plausible per-hour values for metrics a
// provider did not cover: a smooth diurnal curve plus bounded jitter.
// The jitter is seeded per metric and hour-of-day rather than from the
// wall clock, so fallback output is reproducible.
type SyntheticEstimator struct {
	seed int64
}

// NewSyntheticEstimator creates an estimator. The seed varies the
// jitter across deployments while keeping output stable within one.
func NewSyntheticEstimator(seed int64) *SyntheticEstimator {
	return &SyntheticEstimator{seed: seed}
}

// Estimate returns a synthetic value for an independent metric at the
// given hour of day. FeelsLike and WindGusts derive from other series;
// use EstimateFeelsLike and EstimateGusts for those.
func (e *SyntheticEstimator) Estimate(m Metric, hour int) float64 {
	h := float64(hour)
	rng := e.rng(m, hour)

	switch m {
	case MetricTemperature:
		return 15 + math.Sin(h*0.26)*3 + jitter(rng, 1)
	case MetricHumidity:
		return 70 + math.Sin(h*0.3)*15 + jitter(rng, 5)
	case MetricPressure:
		return 1013 + math.Sin(h*0.2)*5 + jitter(rng, 1)
	case MetricWindSpeed:
		return 8 + math.Sin(h*0.4)*10 + jitter(rng, 2)
	case MetricWindDirection:
		return float64(rng.Intn(360))
	case MetricRain:
		if rng.Float64() < 0.2 {
			return rng.Float64() * 1.5
		}
		return 0
	case MetricWaveHeight:
		return 0.8 + math.Sin(h*0.26)*0.4 + jitter(rng, 0.15)
	case MetricWavePeriod:
		return 7 + math.Sin(h*0.2)*2 + jitter(rng, 0.5)
	case MetricWaveDirection:
		return 180 + jitter(rng, 30)
	case MetricWaterTemp:
		return 14 + math.Sin(h*0.1)*0.5 + jitter(rng, 0.25)
	default:
		return 0
	}
}

// EstimateFeelsLike derives feels-like from the air temperature at the
// same hour.
func (e *SyntheticEstimator) EstimateFeelsLike(temp float64, hour int) float64 {
	if IsMissing(temp) {
		temp = 15
	}
	return temp - 1 + jitter(e.rng(MetricFeelsLike, hour), 1)
}

// EstimateGusts derives gusts from the wind speed at the same hour.
func (e *SyntheticEstimator) EstimateGusts(wind float64, hour int) float64 {
	if IsMissing(wind) {
		wind = 10
	}
	return wind + 5 + jitter(e.rng(MetricWindGusts, hour), 2)
}

func (e *SyntheticEstimator) rng(m Metric, hour int) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(m))
	return rand.New(rand.NewSource(e.seed + int64(h.Sum64()%1_000_003)*31 + int64(hour)))
}

func jitter(rng *rand.Rand, spread float64) float64 {
	return rng.Float64()*2*spread - spread
}
