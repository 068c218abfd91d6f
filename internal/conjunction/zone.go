package conjunction

import "fmt"

// Orbit zone labels.
const (
	ZoneLEO = "LEO"
	ZoneMEO = "MEO"
	ZoneGEO = "GEO"
	ZoneHEO = "HEO"
)

// The two classifiers below evolved independently in operation and both
// contracts are load-bearing: listings use the coarse three-level split,
// conjunction records use the four-level one. They stay separate; callers
// pick the contract they need.

// OrbitZone maps a semi-major-axis-derived altitude to the three-level
// regime label used for catalog listings and display filtering.
func OrbitZone(altitudeKm float64) string {
	switch {
	case altitudeKm < 2000:
		return ZoneLEO
	case altitudeKm < 35786:
		return ZoneMEO
	default:
		return ZoneGEO
	}
}

// OrbitZoneFine maps an altitude to the four-level regime label used when
// classifying conjunction pairs.
func OrbitZoneFine(altitudeKm float64) string {
	switch {
	case altitudeKm < 2000:
		return ZoneLEO
	case altitudeKm < 35786:
		return ZoneMEO
	case altitudeKm < 40000:
		return ZoneGEO
	default:
		return ZoneHEO
	}
}

// PairOrbitZone labels a conjunction by its participants' four-level zones:
// the shared zone when they match, otherwise a composite Mixed label.
func PairOrbitZone(altitude1Km, altitude2Km float64) string {
	z1 := OrbitZoneFine(altitude1Km)
	z2 := OrbitZoneFine(altitude2Km)
	if z1 == z2 {
		return z1
	}
	return fmt.Sprintf("Mixed (%s/%s)", z1, z2)
}
