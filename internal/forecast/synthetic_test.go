package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntheticEstimatorIsReproducible(t *testing.T) {
	a := NewSyntheticEstimator(42)
	b := NewSyntheticEstimator(42)

	for hour := 0; hour < HoursPerDay; hour++ {
		for _, m := range []Metric{
			MetricTemperature, MetricHumidity, MetricPressure,
			MetricWindSpeed, MetricWindDirection, MetricRain,
			MetricWaveHeight, MetricWavePeriod, MetricWaveDirection,
			MetricWaterTemp,
		} {
			assert.Equal(t, a.Estimate(m, hour), b.Estimate(m, hour),
				"%s at hour %d", m, hour)
		}
		assert.Equal(t, a.EstimateFeelsLike(15, hour), b.EstimateFeelsLike(15, hour))
		assert.Equal(t, a.EstimateGusts(10, hour), b.EstimateGusts(10, hour))
	}
}

func TestSyntheticEstimatorSeedChangesJitter(t *testing.T) {
	a := NewSyntheticEstimator(1)
	b := NewSyntheticEstimator(2)

	var diff bool
	for hour := 0; hour < HoursPerDay; hour++ {
		if a.Estimate(MetricTemperature, hour) != b.Estimate(MetricTemperature, hour) {
			diff = true
			break
		}
	}
	assert.True(t, diff, "different seeds should produce different jitter")
}

func TestSyntheticEstimatesStayNearDiurnalCurve(t *testing.T) {
	e := NewSyntheticEstimator(7)

	for hour := 0; hour < HoursPerDay; hour++ {
		temp := e.Estimate(MetricTemperature, hour)
		assert.InDelta(t, 15, temp, 4.001, "temperature hour %d", hour)

		humidity := e.Estimate(MetricHumidity, hour)
		assert.InDelta(t, 70, humidity, 20.001, "humidity hour %d", hour)

		wave := e.Estimate(MetricWaveHeight, hour)
		assert.InDelta(t, 0.8, wave, 0.5501, "wave hour %d", hour)

		dir := e.Estimate(MetricWindDirection, hour)
		assert.GreaterOrEqual(t, dir, 0.0)
		assert.Less(t, dir, 360.0)

		rain := e.Estimate(MetricRain, hour)
		assert.GreaterOrEqual(t, rain, 0.0)
		assert.LessOrEqual(t, rain, 1.5)
	}
}

func TestSyntheticDerivedSeriesTrackTheirBase(t *testing.T) {
	e := NewSyntheticEstimator(7)

	for hour := 0; hour < HoursPerDay; hour++ {
		feels := e.EstimateFeelsLike(18, hour)
		assert.InDelta(t, 17, feels, 1.001, "feels-like hour %d", hour)

		gusts := e.EstimateGusts(12, hour)
		assert.InDelta(t, 17, gusts, 2.001, "gusts hour %d", hour)
	}
}
