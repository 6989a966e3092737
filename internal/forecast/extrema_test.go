package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHours(t *testing.T) [HoursPerDay]time.Time {
	t.Helper()
	day := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	var hours [HoursPerDay]time.Time
	for i := range hours {
		hours[i] = day.Add(time.Duration(i) * time.Hour)
	}
	return hours
}

func TestFindExtremaDetectsPeakAndTrough(t *testing.T) {
	hours := testHours(t)

	var s HourlySeries
	s[3], s[4], s[5], s[6], s[7] = 0.2, 0.5, 1.0, 0.5, 0.2
	s[10], s[11], s[12], s[13], s[14] = -0.2, -0.5, -1.0, -0.5, -0.2

	got := FindExtrema(s, hours)

	require.Len(t, got.Highs, 1)
	assert.Equal(t, hours[5], got.Highs[0].Time)
	assert.Equal(t, 1.0, got.Highs[0].Height)

	require.Len(t, got.Lows, 1)
	assert.Equal(t, hours[12], got.Lows[0].Time)
	assert.Equal(t, -1.0, got.Lows[0].Height)
}

func TestFindExtremaIgnoresSubThresholdRipples(t *testing.T) {
	hours := testHours(t)

	var s HourlySeries
	for i := range s {
		s[i] = 0.5
	}
	// Strictly above its neighbours, but only 0.05 above their
	// average: noise, not a tide.
	s[10] = 0.55

	got := FindExtrema(s, hours)
	assert.Empty(t, got.Highs)
	assert.Empty(t, got.Lows)
}

func TestFindExtremaNeverReportsBoundaries(t *testing.T) {
	hours := testHours(t)

	var s HourlySeries
	s[0] = 10
	s[1] = 8
	s[22] = 8
	s[23] = 10

	got := FindExtrema(s, hours)
	for _, h := range got.Highs {
		assert.NotEqual(t, hours[0], h.Time)
		assert.NotEqual(t, hours[1], h.Time)
		assert.NotEqual(t, hours[22], h.Time)
		assert.NotEqual(t, hours[23], h.Time)
	}
}

func TestFindExtremaCapsAndOrders(t *testing.T) {
	hours := testHours(t)

	// Three clear peaks; only the first two survive the cap.
	var s HourlySeries
	for _, peak := range []int{4, 10, 16} {
		s[peak-1], s[peak], s[peak+1] = 0.5, 1.5, 0.5
	}

	got := FindExtrema(s, hours)

	require.Len(t, got.Highs, 2)
	assert.Equal(t, hours[4], got.Highs[0].Time)
	assert.Equal(t, hours[10], got.Highs[1].Time)
	assert.True(t, got.Highs[0].Time.Before(got.Highs[1].Time))

	assert.LessOrEqual(t, len(got.Lows), 2)
	for i := 1; i < len(got.Lows); i++ {
		assert.True(t, got.Lows[i-1].Time.Before(got.Lows[i].Time))
	}
}
