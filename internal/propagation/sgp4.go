package propagation

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// SGP4 library choice: github.com/joshuaferrara/go-satellite
//
// Pure Go (no CGO), explicit TEME output in km and km/s, which is all the
// conjunction geometry needs: both objects are propagated in the same
// inertial frame, so separations and relative velocities are frame-exact.
//
// Note: Propagate() takes Satellite by value so SGP4 error codes are not
// visible to the caller. Propagation failures are detected by checking the
// output for NaN/Inf and unreasonable position magnitudes.

// StateVector is an inertial position/velocity pair at a single instant.
type StateVector struct {
	PositionKm  [3]float64
	VelocityKmS [3]float64
}

// Propagator wraps an initialized SGP4 model for a single element set.
// Immutable after construction; safe for concurrent use.
type Propagator struct {
	sat      satellite.Satellite
	elements Elements
}

// New creates a Propagator from two-line element set text.
// Returns an error if the lines cannot be parsed or the SGP4 model fails
// to initialize.
//
// Pre-validates the line format before passing to the library, because
// go-satellite calls log.Fatal on malformed input (which would kill the
// process).
func New(line1, line2 string) (*Propagator, error) {
	line1 = strings.TrimRight(line1, "\r\n ")
	line2 = strings.TrimRight(line2, "\r\n ")

	if err := validateTLELines(line1, line2); err != nil {
		return nil, fmt.Errorf("invalid element set: %w", err)
	}

	elements, err := parseElements(line1, line2)
	if err != nil {
		return nil, fmt.Errorf("parsing element set: %w", err)
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed for catalog %d: code=%d %s", elements.CatalogNumber, sat.Error, sat.ErrorStr)
	}

	return &Propagator{sat: sat, elements: elements}, nil
}

// Elements returns the Keplerian elements derived from the element set.
func (p *Propagator) Elements() Elements {
	return p.elements
}

// StateAt computes the inertial position and velocity at time t.
func (p *Propagator) StateAt(t time.Time) (StateVector, error) {
	t = t.UTC()
	pos, vel := satellite.Propagate(p.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	if hasBadComponent(pos.X, pos.Y, pos.Z, vel.X, vel.Y, vel.Z) {
		return StateVector{}, fmt.Errorf("sgp4 propagation failed for catalog %d: output is NaN/Inf", p.elements.CatalogNumber)
	}

	// Sanity check: geocentric distance between ~6200km (decayed) and
	// ~90000km (beyond any tracked HEO apogee).
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < 6200.0 || mag > 90000.0 {
		return StateVector{}, fmt.Errorf("sgp4 propagation failed for catalog %d: unreasonable position magnitude %.1f km", p.elements.CatalogNumber, mag)
	}

	return StateVector{
		PositionKm:  [3]float64{pos.X, pos.Y, pos.Z},
		VelocityKmS: [3]float64{vel.X, vel.Y, vel.Z},
	}, nil
}

// validateTLELines performs basic format validation on element set lines.
// This prevents passing garbage to go-satellite which calls log.Fatal on
// parse errors.
func validateTLELines(line1, line2 string) error {
	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if !strings.HasPrefix(line1, "1 ") {
		return fmt.Errorf("line1 must start with %q", "1 ")
	}
	if !strings.HasPrefix(line2, "2 ") {
		return fmt.Errorf("line2 must start with %q", "2 ")
	}
	return nil
}

func hasBadComponent(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
