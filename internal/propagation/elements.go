package propagation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// EarthRadiusKm is the mean Earth radius used for altitude derivation.
	EarthRadiusKm = 6371.0

	// equatorialRadiusKm scales the SGP4 semi-major axis (earth radii) to km.
	equatorialRadiusKm = 6378.137

	// xke is the SGP4 gravitational constant sqrt(GM) expressed in
	// (earth radii)^1.5 per minute, WGS-72/84 convention.
	xke = 7.436691613317342e-2
)

// Elements holds the Keplerian elements of a two-line element set, in the
// units the rest of the engine consumes. Angles are radians; the semi-major
// axis is pre-scaled to kilometers.
type Elements struct {
	CatalogNumber     int
	SemiMajorAxisKm   float64
	Eccentricity      float64
	InclinationRad    float64
	RightAscensionRad float64
	ArgOfPerigeeRad   float64
	MeanAnomalyRad    float64
	MeanMotionRadSec  float64
	PeriodMinutes     float64
	Epoch             time.Time
}

// AltitudeKm returns the semi-major-axis-derived altitude above the mean
// Earth radius. This is the quantity the orbit zone classifiers consume.
func (e Elements) AltitudeKm() float64 {
	return e.SemiMajorAxisKm - EarthRadiusKm
}

// parseElements extracts Keplerian elements from the fixed-column fields of
// a two-line element set. go-satellite keeps its internal satrec fields
// unexported, so the scalar elements are re-derived from the same text the
// SGP4 model is initialized from. Column layout per the standard NORAD
// convention; callers must have validated line lengths first.
func parseElements(line1, line2 string) (Elements, error) {
	catNum, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return Elements{}, fmt.Errorf("invalid catalog number %q: %w", line1[2:7], err)
	}

	epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
	if err != nil {
		return Elements{}, fmt.Errorf("invalid epoch: %w", err)
	}

	inclDeg, err := parseField(line2[8:16], "inclination")
	if err != nil {
		return Elements{}, err
	}
	raanDeg, err := parseField(line2[17:25], "right ascension")
	if err != nil {
		return Elements{}, err
	}
	// Eccentricity is printed without the leading "0." decimal point.
	ecc, err := parseField("0."+strings.TrimSpace(line2[26:33]), "eccentricity")
	if err != nil {
		return Elements{}, err
	}
	argpDeg, err := parseField(line2[34:42], "argument of perigee")
	if err != nil {
		return Elements{}, err
	}
	maDeg, err := parseField(line2[43:51], "mean anomaly")
	if err != nil {
		return Elements{}, err
	}
	mmRevDay, err := parseField(line2[52:63], "mean motion")
	if err != nil {
		return Elements{}, err
	}
	if mmRevDay <= 0 {
		return Elements{}, fmt.Errorf("non-positive mean motion %v", mmRevDay)
	}

	// Semi-major axis from the mean motion, in earth radii as the SGP4
	// model derives it, then scaled to km.
	noRadMin := mmRevDay * 2 * math.Pi / 1440.0
	aEarthRadii := math.Pow(xke/noRadMin, 2.0/3.0)

	mmRadSec := mmRevDay * 2 * math.Pi / 86400.0

	return Elements{
		CatalogNumber:     catNum,
		SemiMajorAxisKm:   aEarthRadii * equatorialRadiusKm,
		Eccentricity:      ecc,
		InclinationRad:    inclDeg * math.Pi / 180.0,
		RightAscensionRad: raanDeg * math.Pi / 180.0,
		ArgOfPerigeeRad:   argpDeg * math.Pi / 180.0,
		MeanAnomalyRad:    maDeg * math.Pi / 180.0,
		MeanMotionRadSec:  mmRadSec,
		PeriodMinutes:     2 * math.Pi / mmRadSec / 60.0,
		Epoch:             epoch,
	}, nil
}

func parseField(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}

// parseEpoch converts an element set epoch string in YYDDD.DDDDDDDD format
// to time.Time. Year 00-56 maps to the 2000s, 57-99 to the 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	// dayOfYear is 1-based: day 1 = Jan 1.
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
