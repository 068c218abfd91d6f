package conjunction

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/propagation"
)

// DefaultStep is the sampling interval of the closest-approach scan.
const DefaultStep = 10 * time.Minute

// Result is the outcome of one closest-approach scan. When the window
// contained no samples, MinDistanceKm is +Inf and TimeOfClosestApproach is
// the zero time; callers must treat that as "no approach found".
type Result struct {
	MinDistanceKm         float64   `json:"minDistanceKm"`
	TimeOfClosestApproach time.Time `json:"timeOfClosestApproach"`
	Speed1KmS             float64   `json:"speed1KmS"`
	Speed2KmS             float64   `json:"speed2KmS"`
	RelativeSpeedKmS      float64   `json:"relativeSpeedKmS"`
	Samples               int       `json:"samples"`
}

// Found reports whether the scan produced at least one sample.
func (r Result) Found() bool {
	return !math.IsInf(r.MinDistanceKm, 1)
}

// CloseApproach samples the separation of two objects at fixed steps over
// [start, end] and returns the minimum. The end bound is inclusive: the
// scan continues while the sample time is <= end, so end itself is sampled
// exactly when it lands on a step boundary from start, and otherwise the
// last sample strictly before end is used.
//
// The running minimum uses strict < comparison, so ties resolve to the
// earliest sampled time. A propagation failure at any sample aborts the
// scan with an error; the caller decides whether to skip the pair.
func CloseApproach(ctx context.Context, orbit1, orbit2 catalog.Orbit, start, end time.Time, step time.Duration) (Result, error) {
	if step <= 0 {
		step = DefaultStep
	}

	result := Result{MinDistanceKm: math.Inf(1)}

	for t := start; !t.After(end); t = t.Add(step) {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sv1, err := orbit1.StateAt(t)
		if err != nil {
			return result, fmt.Errorf("propagating first object at %s: %w", t.UTC().Format(time.RFC3339), err)
		}
		sv2, err := orbit2.StateAt(t)
		if err != nil {
			return result, fmt.Errorf("propagating second object at %s: %w", t.UTC().Format(time.RFC3339), err)
		}

		result.Samples++

		dist := separation(sv1.PositionKm, sv2.PositionKm)
		if dist < result.MinDistanceKm {
			result.MinDistanceKm = dist
			result.TimeOfClosestApproach = t
			result.Speed1KmS = norm(sv1.VelocityKmS)
			result.Speed2KmS = norm(sv2.VelocityKmS)
			result.RelativeSpeedKmS = separation(sv1.VelocityKmS, sv2.VelocityKmS)
		}
	}

	return result, nil
}

func separation(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// relativeState re-propagates both participants at a single instant and
// returns the separation and relative speed. Used by maneuver planning.
func relativeState(orbit1, orbit2 catalog.Orbit, t time.Time) (distKm, relSpeedKmS float64, sv1, sv2 propagation.StateVector, err error) {
	sv1, err = orbit1.StateAt(t)
	if err != nil {
		return 0, 0, sv1, sv2, fmt.Errorf("propagating first object: %w", err)
	}
	sv2, err = orbit2.StateAt(t)
	if err != nil {
		return 0, 0, sv1, sv2, fmt.Errorf("propagating second object: %w", err)
	}
	return separation(sv1.PositionKm, sv2.PositionKm), separation(sv1.VelocityKmS, sv2.VelocityKmS), sv1, sv2, nil
}
