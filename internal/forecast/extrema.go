package forecast

import (
	"sort"
	"time"
)

// extremumThreshold is the minimum margin, in the series' units, by
// which a candidate must clear the average of its four neighbours.
// Sub-threshold ripples are noise, not tides.
const extremumThreshold = 0.1

// maxExtremaPerKind caps how many highs and lows are kept per day.
const maxExtremaPerKind = 2

// FindExtrema locates significant local maxima and minima in a series.
// Each interior sample is compared against its two preceding and two
// following neighbours; it is a high iff strictly greater than all
// four and above their average by more than the threshold, and
// symmetrically for lows. Boundary samples (the first two and last
// two) are never reported. Results are ascending by time, at most two
// per kind.
func FindExtrema(series HourlySeries, hours [HoursPerDay]time.Time) TideExtrema {
	var highs, lows []TideExtremum

	for i := 2; i < len(series)-2; i++ {
		p2, p1 := series[i-2], series[i-1]
		cur := series[i]
		n1, n2 := series[i+1], series[i+2]
		avg := (p2 + p1 + n1 + n2) / 4

		if cur > p2 && cur > p1 && cur > n1 && cur > n2 && cur-avg > extremumThreshold {
			highs = append(highs, TideExtremum{Time: hours[i], Height: cur})
		}
		if cur < p2 && cur < p1 && cur < n1 && cur < n2 && avg-cur > extremumThreshold {
			lows = append(lows, TideExtremum{Time: hours[i], Height: cur})
		}
	}

	sortExtrema(highs)
	sortExtrema(lows)

	if len(highs) > maxExtremaPerKind {
		highs = highs[:maxExtremaPerKind]
	}
	if len(lows) > maxExtremaPerKind {
		lows = lows[:maxExtremaPerKind]
	}
	return TideExtrema{Highs: highs, Lows: lows}
}

func sortExtrema(xs []TideExtremum) {
	sort.Slice(xs, func(i, j int) bool {
		return xs[i].Time.Before(xs[j].Time)
	})
}
