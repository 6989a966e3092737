package forecast

import "math"

// Normalize gap-fills and range-clamps a series in two passes: a
// forward pass carries the last seen value into missing slots, a
// backward pass fills any still-missing leading slots from the nearest
// following value (or zero when the whole series is empty). Every
// sample is then clamped into [min, max]. It always returns a fully
// populated, in-range series; this is the last line of defense against
// partial provider data.
func Normalize(s HourlySeries, b Bounds) HourlySeries {
	last := math.NaN()
	for i := range s {
		if IsMissing(s[i]) {
			s[i] = last
		} else {
			last = s[i]
		}
	}

	for i := len(s) - 1; i >= 0; i-- {
		if !IsMissing(s[i]) {
			continue
		}
		if i < len(s)-1 {
			s[i] = s[i+1]
		} else {
			s[i] = 0
		}
	}

	for i := range s {
		s[i] = Clamp(s[i], b.Min, b.Max)
	}
	return s
}

// Clamp bounds v into [min, max]. Missing values pass through
// untouched so the gap-fill passes keep ownership of them.
func Clamp(v, min, max float64) float64 {
	if IsMissing(v) {
		return v
	}
	return math.Min(max, math.Max(min, v))
}
