package conjunction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

// First-order along-track burn model. The delta-v heuristic trades accuracy
// for not needing a full Keplerian solver; the clamp keeps proposals inside
// the operational envelope of a small station-keeping thruster.
const (
	ManeuverTypeAlongTrack = "along_track_burn"

	deltaVMinMps         = 0.01
	deltaVMaxMps         = 5.0
	fuelKgPerMps         = 0.5
	riskReductionPercent = 95.0
	executionLeadTime    = 2 * time.Hour
	relSpeedEpsilon      = 1e-6
	missImprovementKm    = 1.0
)

// PlanSink persists maneuver plans. Satisfied by *store.Store.
type PlanSink interface {
	InsertManeuverPlan(ctx context.Context, p *store.ManeuverPlan) error
}

// SnapshotProvider yields the current catalog snapshot for element set
// re-lookup. Satisfied by *catalog.Store.
type SnapshotProvider interface {
	Get() *catalog.Snapshot
}

// Planner derives an avoidance maneuver from a persisted conjunction.
type Planner struct {
	snapshots SnapshotProvider
	sink      PlanSink
	logger    *slog.Logger
}

// NewPlanner creates a Planner re-locating element sets through snapshots
// and writing plans to sink.
func NewPlanner(snapshots SnapshotProvider, sink PlanSink, logger *slog.Logger) *Planner {
	return &Planner{snapshots: snapshots, sink: sink, logger: logger}
}

// Plan re-propagates both participants of conj at its conjunction time,
// assigns the burn to the satellite participant, and persists the resulting
// plan. Fails with ErrElementSetNotFound when a participant cannot be
// re-located by catalog number, and with ErrNoManeuverCandidate unless
// exactly one participant is a satellite.
func (p *Planner) Plan(ctx context.Context, conj *store.Conjunction, now time.Time) (*store.ManeuverPlan, error) {
	snap := p.snapshots.Get()
	if snap == nil {
		return nil, fmt.Errorf("no catalog snapshot loaded: %w", ErrElementSetNotFound)
	}

	obj1, ok := snap.FindByCatalogNumber(conj.Object1.CatalogNumber)
	if !ok {
		return nil, fmt.Errorf("object %d (%s): %w", conj.Object1.CatalogNumber, conj.Object1.Name, ErrElementSetNotFound)
	}
	obj2, ok := snap.FindByCatalogNumber(conj.Object2.CatalogNumber)
	if !ok {
		return nil, fmt.Errorf("object %d (%s): %w", conj.Object2.CatalogNumber, conj.Object2.Name, ErrElementSetNotFound)
	}

	maneuvering, err := selectManeuveringObject(obj1, obj2)
	if err != nil {
		return nil, err
	}

	distKm, relSpeedKmS, _, _, err := relativeState(obj1.Orbit, obj2.Orbit, conj.ConjunctionTime)
	if err != nil {
		return nil, fmt.Errorf("re-propagating conjunction %d: %w", conj.ID, err)
	}

	// First-order along-track delta-v: enough to shift the encounter by
	// the miss distance plus margin, scaled by closing speed.
	requiredKmS := (conj.ClosestDistanceKm + 0.5) / (relSpeedKmS + relSpeedEpsilon)
	deltaVMps := clamp(requiredKmS*1000.0, deltaVMinMps, deltaVMaxMps)

	plan := &store.ManeuverPlan{
		ConjunctionID:            conj.ID,
		ManeuveringCatalogNumber: maneuvering.CatalogNumber,
		ManeuverType:             ManeuverTypeAlongTrack,
		DeltaVMetersPerSec:       deltaVMps,
		ExecutionTime:            now.Add(executionLeadTime),
		ExpectedMissDistanceKm:   conj.ClosestDistanceKm + missImprovementKm,
		FuelCostKg:               deltaVMps * fuelKgPerMps,
		RiskReductionPercent:     riskReductionPercent,
		GeneratedAt:              now,
	}

	if err := p.sink.InsertManeuverPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("persisting maneuver plan: %w", err)
	}

	p.logger.Info("maneuver plan generated",
		"conjunction_id", conj.ID,
		"maneuvering_object", maneuvering.CatalogNumber,
		"delta_v_m_s", plan.DeltaVMetersPerSec,
		"fuel_cost_kg", plan.FuelCostKg,
		"separation_at_tca_km", distKm,
	)

	return plan, nil
}

// selectManeuveringObject picks the single satellite participant. Debris is
// assumed non-maneuverable; two satellites would need an ownership decision
// the engine cannot make.
func selectManeuveringObject(obj1, obj2 catalog.TrackedObject) (catalog.TrackedObject, error) {
	sat1 := obj1.Category == catalog.CategorySatellite
	sat2 := obj2.Category == catalog.CategorySatellite

	switch {
	case sat1 && !sat2:
		return obj1, nil
	case sat2 && !sat1:
		return obj2, nil
	default:
		return catalog.TrackedObject{}, fmt.Errorf("%s and %s: %w", obj1.Category, obj2.Category, ErrNoManeuverCandidate)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
