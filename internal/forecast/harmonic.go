package forecast

import (
	"math"
	"time"
)

// Harmonic tide model constants. The curve is a superposition of the
// principal lunar semidiurnal component (M2), its first overtone (M4)
// and a synodic envelope approximating spring/neap variation. This is
// a simulation for when no tide provider is reachable, not a
// prediction of any real station.
const (
	tideBaseHeight = 0.9
	tideMainAmp    = 0.60
	tideSecAmp     = 0.25
	tideSpringMod  = 0.25
	tideM2Hours    = 12.42
	tideM4Hours    = 6.21
	tideSynodicH   = 29.5306 * 24
	tidePhaseM2    = math.Pi / 4
	tidePhaseM4    = math.Pi / 6
)

// tideEpoch anchors t=0 of the harmonic model.
var tideEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.FixedZone("NZDT", 13*3600))

// SynthesizeTides produces a deterministic tide curve for the given
// hour timestamps. Identical timestamps always yield identical output.
func SynthesizeTides(hours [HoursPerDay]time.Time) HourlySeries {
	var out HourlySeries
	for i, h := range hours {
		out[i] = tideHeightAt(h)
	}
	return out
}

func tideHeightAt(t time.Time) float64 {
	th := t.Sub(tideEpoch).Hours()
	spring := 1 + tideSpringMod*math.Cos(2*math.Pi*th/tideSynodicH)
	m2 := tideMainAmp * spring * math.Sin(2*math.Pi*th/tideM2Hours-tidePhaseM2)
	m4 := tideSecAmp * math.Sin(2*math.Pi*th/tideM4Hours+tidePhaseM4)
	return tideBaseHeight + m2 + m4
}
