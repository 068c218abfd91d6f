package conjunction

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

type fakePlanSink struct {
	plans []*store.ManeuverPlan
	err   error
}

func (s *fakePlanSink) InsertManeuverPlan(ctx context.Context, p *store.ManeuverPlan) error {
	if s.err != nil {
		return s.err
	}
	p.ID = int64(len(s.plans) + 1)
	s.plans = append(s.plans, p)
	return nil
}

func snapshotStore(objects ...catalog.TrackedObject) *catalog.Store {
	snap := &catalog.Snapshot{FetchedAt: time.Now()}
	for _, obj := range objects {
		if obj.Category == catalog.CategorySatellite {
			snap.Satellites = append(snap.Satellites, obj)
		} else {
			snap.Debris = append(snap.Debris, obj)
		}
	}
	cs := catalog.NewStore()
	cs.Set(snap)
	return cs
}

func testConjunction(cat1, cat2 int, distKm float64) *store.Conjunction {
	return &store.Conjunction{
		ID:                42,
		Object1:           store.ObjectRef{CatalogNumber: cat1, Name: "ONE", Category: "satellite"},
		Object2:           store.ObjectRef{CatalogNumber: cat2, Name: "TWO", Category: "debris"},
		ConjunctionTime:   scanStart.Add(30 * time.Minute),
		ClosestDistanceKm: distKm,
	}
}

// TestPlanAssignsBurnToSatellite verifies the full plan derivation for a
// satellite/debris pair: clamped delta-v, fuel cost, execution lead time and
// the expected miss improvement.
func TestPlanAssignsBurnToSatellite(t *testing.T) {
	// Closing speed at the conjunction time is exactly 1 km/s, so a 9.5 km
	// miss asks for ~10 km/s of along-track delta-v, far above the clamp.
	sat := trackedObject(0, 100, "SAT", catalog.CategorySatellite,
		&fakeOrbit{pos: [3]float64{7000, 0, 0}, vel: [3]float64{1, 0, 0}, elems: leoElements(100, 500)})
	deb := trackedObject(0, 200, "DEB", catalog.CategoryDebris,
		&fakeOrbit{pos: [3]float64{7000, 9.5, 0}, elems: leoElements(200, 500)})

	sink := &fakePlanSink{}
	planner := NewPlanner(snapshotStore(sat, deb), sink, testLogger())

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	plan, err := planner.Plan(context.Background(), testConjunction(100, 200, 9.5), now)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if plan.ManeuveringCatalogNumber != 100 {
		t.Errorf("ManeuveringCatalogNumber = %d, want the satellite (100)", plan.ManeuveringCatalogNumber)
	}
	if plan.ManeuverType != ManeuverTypeAlongTrack {
		t.Errorf("ManeuverType = %q, want %q", plan.ManeuverType, ManeuverTypeAlongTrack)
	}
	if plan.DeltaVMetersPerSec != deltaVMaxMps {
		t.Errorf("DeltaVMetersPerSec = %v, want clamped to %v", plan.DeltaVMetersPerSec, deltaVMaxMps)
	}
	if plan.FuelCostKg != 2.5 {
		t.Errorf("FuelCostKg = %v, want 2.5", plan.FuelCostKg)
	}
	if plan.ExpectedMissDistanceKm != 10.5 {
		t.Errorf("ExpectedMissDistanceKm = %v, want 10.5", plan.ExpectedMissDistanceKm)
	}
	if plan.RiskReductionPercent != riskReductionPercent {
		t.Errorf("RiskReductionPercent = %v, want %v", plan.RiskReductionPercent, riskReductionPercent)
	}
	if !plan.ExecutionTime.Equal(now.Add(executionLeadTime)) {
		t.Errorf("ExecutionTime = %v, want now+%v", plan.ExecutionTime, executionLeadTime)
	}
	if plan.ConjunctionID != 42 {
		t.Errorf("ConjunctionID = %d, want 42", plan.ConjunctionID)
	}
	if len(sink.plans) != 1 {
		t.Errorf("sink holds %d plans, want 1", len(sink.plans))
	}
}

// TestPlanUnclampedDeltaV verifies the heuristic passes through when the
// closing speed is high enough to keep the burn inside the envelope.
func TestPlanUnclampedDeltaV(t *testing.T) {
	// 500 km/s closing speed with a 0.5 km miss asks for (0.5+0.5)/500 km/s,
	// which is 2 m/s.
	sat := trackedObject(0, 100, "SAT", catalog.CategorySatellite,
		&fakeOrbit{pos: [3]float64{7000, 0, 0}, vel: [3]float64{500, 0, 0}, elems: leoElements(100, 500)})
	deb := trackedObject(0, 200, "DEB", catalog.CategoryDebris,
		&fakeOrbit{pos: [3]float64{7000, 0.5, 0}, elems: leoElements(200, 500)})

	planner := NewPlanner(snapshotStore(sat, deb), &fakePlanSink{}, testLogger())
	plan, err := planner.Plan(context.Background(), testConjunction(100, 200, 0.5), time.Now().UTC())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if math.Abs(plan.DeltaVMetersPerSec-2.0) > 1e-3 {
		t.Errorf("DeltaVMetersPerSec = %v, want ~2.0", plan.DeltaVMetersPerSec)
	}
	if math.Abs(plan.FuelCostKg-1.0) > 1e-3 {
		t.Errorf("FuelCostKg = %v, want ~1.0", plan.FuelCostKg)
	}
}

// TestPlanRequiresSingleSatellite verifies the candidate selection rejects
// debris/debris and satellite/satellite pairs.
func TestPlanRequiresSingleSatellite(t *testing.T) {
	mk := func(cat catalog.Category, n int) catalog.TrackedObject {
		return trackedObject(0, n, "OBJ", cat,
			&fakeOrbit{pos: [3]float64{7000, float64(n % 10), 0}, vel: [3]float64{1, 0, 0}, elems: leoElements(n, 500)})
	}

	tests := []struct {
		name string
		obj1 catalog.TrackedObject
		obj2 catalog.TrackedObject
	}{
		{"both debris", mk(catalog.CategoryDebris, 100), mk(catalog.CategoryDebris, 200)},
		{"both satellites", mk(catalog.CategorySatellite, 100), mk(catalog.CategorySatellite, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := NewPlanner(snapshotStore(tt.obj1, tt.obj2), &fakePlanSink{}, testLogger())
			_, err := planner.Plan(context.Background(), testConjunction(100, 200, 5), time.Now().UTC())
			if !errors.Is(err, ErrNoManeuverCandidate) {
				t.Errorf("err = %v, want ErrNoManeuverCandidate", err)
			}
		})
	}
}

// TestPlanMissingElementSet verifies re-lookup failures map to
// ErrElementSetNotFound, both for an absent object and an empty store.
func TestPlanMissingElementSet(t *testing.T) {
	sat := trackedObject(0, 100, "SAT", catalog.CategorySatellite,
		&fakeOrbit{pos: [3]float64{7000, 0, 0}, elems: leoElements(100, 500)})

	planner := NewPlanner(snapshotStore(sat), &fakePlanSink{}, testLogger())
	_, err := planner.Plan(context.Background(), testConjunction(100, 200, 5), time.Now().UTC())
	if !errors.Is(err, ErrElementSetNotFound) {
		t.Errorf("missing participant: err = %v, want ErrElementSetNotFound", err)
	}

	planner = NewPlanner(catalog.NewStore(), &fakePlanSink{}, testLogger())
	_, err = planner.Plan(context.Background(), testConjunction(100, 200, 5), time.Now().UTC())
	if !errors.Is(err, ErrElementSetNotFound) {
		t.Errorf("no snapshot: err = %v, want ErrElementSetNotFound", err)
	}
}

// TestPlanSurfacesPersistenceError verifies a sink failure aborts planning.
func TestPlanSurfacesPersistenceError(t *testing.T) {
	sat := trackedObject(0, 100, "SAT", catalog.CategorySatellite,
		&fakeOrbit{pos: [3]float64{7000, 0, 0}, vel: [3]float64{1, 0, 0}, elems: leoElements(100, 500)})
	deb := trackedObject(0, 200, "DEB", catalog.CategoryDebris,
		&fakeOrbit{pos: [3]float64{7000, 5, 0}, elems: leoElements(200, 500)})

	planner := NewPlanner(snapshotStore(sat, deb), &fakePlanSink{err: errors.New("disk full")}, testLogger())
	if _, err := planner.Plan(context.Background(), testConjunction(100, 200, 5), time.Now().UTC()); err == nil {
		t.Fatal("expected persistence error to surface")
	}
}
