package conjunction

import (
	"math/rand"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/propagation"
)

// EstimateProbability maps a minimum separation to a bounded, deterministic
// probability-like score. This is the value stored on conjunction records.
// Piecewise-constant with strict < comparisons, so exactly 1, 5 and 10 km
// fall into the next lower band.
func EstimateProbability(distanceKm float64) float64 {
	switch {
	case distanceKm < 1:
		return 0.9
	case distanceKm < 5:
		return 0.6
	case distanceKm < 10:
		return 0.3
	default:
		return 0.1
	}
}

// DisplayRisk scores a single object for listing and interactive display.
// Altitude-banded base risk with a uniform jitter factor, clamped to
// [5, 95]. Never used for stored conjunction probabilities; the two scorers
// feed different contracts and must stay distinct.
func DisplayRisk(distanceToCenterKm float64, rng *rand.Rand) float64 {
	altitude := distanceToCenterKm - propagation.EarthRadiusKm

	var base float64
	switch {
	case altitude < 600:
		base = 85
	case altitude < 1000:
		base = 70
	case altitude < 2000:
		base = 45
	default:
		base = 20
	}

	// Jitter factor uniform in [0.7, 1.3].
	risk := base * (0.7 + 0.6*rng.Float64())

	if risk < 5 {
		return 5
	}
	if risk > 95 {
		return 95
	}
	return risk
}
