package forecast

import "math"

// Conditions are the hourly inputs to the surf scorer. A missing input
// is NaN; wave height is the only one that zeroes the score outright.
type Conditions struct {
	WaveHeight    float64
	WindSpeed     float64
	Rain          float64
	WindDirection float64
	WavePeriod    float64
	WaveDirection float64
	AirTemp       float64
	WaterTemp     float64
}

// Score rates hourly conditions for surfing on a 0-10 scale. It is a
// pure, total function: a weighted sum of independently-reasoned
// factors (size fitness, cleanliness, wind, period, oversize, rain,
// comfort) clamped into [0,10] at the end. Returns 0 when wave height
// is absent. Other missing inputs default: period and wind to 0, air
// temperature to 15, water temperature to 14; the cleanliness term is
// skipped unless both directions are known.
func Score(c Conditions) float64 {
	if IsMissing(c.WaveHeight) {
		return 0
	}
	wave := c.WaveHeight
	period := defaultIfMissing(c.WavePeriod, 0)
	wind := defaultIfMissing(c.WindSpeed, 0)
	airT := defaultIfMissing(c.AirTemp, 15)
	waterT := defaultIfMissing(c.WaterTemp, 14)

	// Size fitness: Gaussian around an ideal height that grows with
	// period, spread widening for long-period swell. Up to 7 points.
	idealHeight := math.Max(1.0, math.Min(2.6, 0.9+0.12*math.Max(period-8, 0)))
	sigma := 0.45 + 0.04*math.Max(period-10, 0)
	sizeFit := 7 * math.Exp(-math.Pow((wave-idealHeight)/sigma, 2))

	// Cleanliness: wind vs swell angle, bucketed offshore/onshore,
	// scaled by a period-grown amplitude capped at 1.5.
	clean := 0.0
	if !IsMissing(c.WindDirection) && !IsMissing(c.WaveDirection) {
		diff := math.Abs(c.WindDirection - c.WaveDirection)
		diff = math.Min(diff, 360-diff)
		var off float64
		switch {
		case diff >= 150:
			off = 1
		case diff >= 120:
			off = 0.5
		case diff <= 60:
			off = -1
		default:
			off = -0.3
		}
		amp := math.Min(1.5, 0.6+period/12)
		clean = off * 1.2 * amp
	}

	// Wind: threshold rises with period and size; past it the score
	// drops linearly, with a steeper drop 15 km/h beyond. Calm wind on
	// an already clean day earns a small bonus.
	windThresh := 12 + 0.5*math.Max(period-8, 0) + 3*math.Max(math.Min(wave-1, 2), 0)
	windAdj := 0.0
	if wind > windThresh {
		windAdj -= (wind - windThresh) / 6
		if wind > windThresh+15 {
			windAdj -= (wind - (windThresh + 15)) / 3
		}
	} else if wind <= 8 && clean > 0.5 {
		windAdj += 0.4
	}

	periodAdj := 0.0
	switch {
	case period >= 13:
		periodAdj += 0.8
	case period >= 10:
		periodAdj += 0.4
	case period <= 6:
		periodAdj -= 0.6
	}

	// Oversize penalty, softened by favorable period and cleanliness.
	sizePenalty := 0.0
	if wave > 3 {
		soften := math.Min(0.7, (period-11)*0.07+math.Max(clean, 0)*0.2)
		sizePenalty -= (wave - 3) * (1.5 * (1 - math.Max(0, soften)))
	}

	rainAdj := 0.0
	if c.Rain > 0.5 {
		rainAdj -= 1.0
	}
	if c.Rain > 2 {
		rainAdj -= 1.5
	}

	tempBonus := 0.0
	if airT >= 18 && airT <= 22 {
		tempBonus += 0.3
	}
	if waterT >= 14 && waterT <= 18 {
		tempBonus += 0.2
	}

	s := sizeFit + clean + windAdj + periodAdj + sizePenalty + rainAdj + tempBonus
	return math.Max(0, math.Min(10, s))
}

func defaultIfMissing(v, def float64) float64 {
	if IsMissing(v) {
		return def
	}
	return v
}
