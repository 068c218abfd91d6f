package conjunction

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/metrics"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

// interactiveThresholdKm is the fixed distance threshold of the interactive
// one-vs-many simulation path. Caller-supplied thresholds are accepted but
// overridden; the override is long-standing observed behavior kept for
// parity, surfaced with a warning instead of silently.
const interactiveThresholdKm = 1000.0

// maxCandidatesDefault caps a detection run's candidate set. Cost is
// quadratic in object count and linear in window/step, so batches stay in
// the tens of objects.
const maxCandidatesDefault = 64

// ConjunctionSink persists detection output. Satisfied by *store.Store.
type ConjunctionSink interface {
	InsertConjunction(ctx context.Context, c *store.Conjunction) error
}

// DetectorConfig tunes a Detector.
type DetectorConfig struct {
	Step          time.Duration // sampling interval (default 10m)
	MaxCandidates int           // candidate-set ceiling (default 64)
}

// Detector drives the closest-approach scan over all unordered pairs of a
// candidate set and persists qualifying conjunctions.
type Detector struct {
	sink   ConjunctionSink
	config DetectorConfig
	logger *slog.Logger
}

// NewDetector creates a Detector writing to sink.
func NewDetector(sink ConjunctionSink, config DetectorConfig, logger *slog.Logger) *Detector {
	if config.Step <= 0 {
		config.Step = DefaultStep
	}
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = maxCandidatesDefault
	}
	return &Detector{sink: sink, config: config, logger: logger}
}

// Detect scans all unordered pairs of objects over [windowStart, windowEnd]
// and persists a conjunction record for every pair whose minimum separation
// is strictly below thresholdKm. A pair whose propagation fails is skipped
// with a warning; a persistence failure is surfaced unmodified. Returns the
// records emitted, in pair-enumeration order. A run that finds nothing
// returns an empty slice and persists nothing.
func (d *Detector) Detect(ctx context.Context, objects []catalog.TrackedObject, windowStart, windowEnd time.Time, thresholdKm float64) ([]*store.Conjunction, error) {
	if len(objects) > d.config.MaxCandidates {
		d.logger.Warn("candidate set exceeds ceiling, truncating",
			"candidates", len(objects),
			"ceiling", d.config.MaxCandidates,
		)
		objects = objects[:d.config.MaxCandidates]
	}

	// One detection timestamp for the whole run.
	detectedAt := time.Now().UTC()
	runStart := time.Now()

	var emitted []*store.Conjunction
	var pairsScanned, pairsSkipped int

	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			obj1, obj2 := objects[i], objects[j]

			result, err := CloseApproach(ctx, obj1.Orbit, obj2.Orbit, windowStart, windowEnd, d.config.Step)
			if err != nil {
				if ctx.Err() != nil {
					// Aborted mid-scan: partial persisted results stand.
					metrics.RecordDetectionRun(time.Since(runStart), pairsScanned, len(emitted))
					return emitted, ctx.Err()
				}
				pairsSkipped++
				d.logger.Warn("skipping pair after propagation failure",
					"object1", obj1.Name,
					"object2", obj2.Name,
					"error", err,
				)
				continue
			}
			pairsScanned++

			if !result.Found() || result.MinDistanceKm >= thresholdKm {
				continue
			}

			record := d.buildRecord(obj1, obj2, result, detectedAt)
			if err := d.sink.InsertConjunction(ctx, record); err != nil {
				metrics.RecordDetectionRun(time.Since(runStart), pairsScanned, len(emitted))
				return emitted, fmt.Errorf("persisting conjunction %s/%s: %w", obj1.Name, obj2.Name, err)
			}
			emitted = append(emitted, record)
		}
	}

	metrics.RecordDetectionRun(time.Since(runStart), pairsScanned, len(emitted))
	d.logger.Info("detection run complete",
		"candidates", len(objects),
		"pairs_scanned", pairsScanned,
		"pairs_skipped", pairsSkipped,
		"conjunctions", len(emitted),
		"threshold_km", thresholdKm,
		"duration_ms", time.Since(runStart).Milliseconds(),
	)

	return emitted, nil
}

func (d *Detector) buildRecord(obj1, obj2 catalog.TrackedObject, result Result, detectedAt time.Time) *store.Conjunction {
	alt1 := obj1.Orbit.Elements().AltitudeKm()
	alt2 := obj2.Orbit.Elements().AltitudeKm()

	return &store.Conjunction{
		Object1:             objectRef(obj1),
		Object2:             objectRef(obj2),
		DetectedAt:          detectedAt,
		ConjunctionTime:     result.TimeOfClosestApproach,
		ClosestDistanceKm:   result.MinDistanceKm,
		Object1VelocityKmS:  result.Speed1KmS,
		Object2VelocityKmS:  result.Speed2KmS,
		RelativeVelocityKmS: result.RelativeSpeedKmS,
		Probability:         EstimateProbability(result.MinDistanceKm),
		OrbitZone:           PairOrbitZone(alt1, alt2),
	}
}

func objectRef(obj catalog.TrackedObject) store.ObjectRef {
	return store.ObjectRef{
		LocalID:       obj.ID,
		CatalogNumber: obj.CatalogNumber,
		Name:          obj.Name,
		Category:      string(obj.Category),
	}
}

// SimulationHit is one candidate result of an interactive one-vs-many
// simulation. Nothing about it is persisted.
type SimulationHit struct {
	Object      store.ObjectRef `json:"object"`
	Result      Result          `json:"result"`
	Probability float64         `json:"probability"`
}

// SimulateAgainstCatalog scans one selected object against up to bound
// other catalog entries. The distance threshold is fixed at 1000 km
// regardless of requestedThresholdKm; probability is the linear score
// (threshold - distance) / threshold capped at 1, not the banded estimate.
// Hits are sorted by probability descending, then approach time ascending.
func (d *Detector) SimulateAgainstCatalog(ctx context.Context, target catalog.TrackedObject, others []catalog.TrackedObject, windowStart, windowEnd time.Time, requestedThresholdKm float64, bound int) ([]SimulationHit, error) {
	if requestedThresholdKm > 0 && requestedThresholdKm != interactiveThresholdKm {
		d.logger.Warn("interactive simulation overrides requested threshold",
			"requested_km", requestedThresholdKm,
			"effective_km", interactiveThresholdKm,
		)
	}
	if bound <= 0 || bound > d.config.MaxCandidates {
		bound = d.config.MaxCandidates
	}

	var hits []SimulationHit
	compared := 0
	for _, other := range others {
		if compared >= bound {
			break
		}
		if other.CatalogNumber == target.CatalogNumber {
			continue
		}
		compared++

		result, err := CloseApproach(ctx, target.Orbit, other.Orbit, windowStart, windowEnd, d.config.Step)
		if err != nil {
			if ctx.Err() != nil {
				return hits, ctx.Err()
			}
			d.logger.Warn("skipping candidate after propagation failure",
				"candidate", other.Name,
				"error", err,
			)
			continue
		}
		if !result.Found() || result.MinDistanceKm >= interactiveThresholdKm {
			continue
		}

		prob := (interactiveThresholdKm - result.MinDistanceKm) / interactiveThresholdKm
		if prob > 1 {
			prob = 1
		}

		hits = append(hits, SimulationHit{
			Object:      objectRef(other),
			Result:      result,
			Probability: prob,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Probability != hits[j].Probability {
			return hits[i].Probability > hits[j].Probability
		}
		return hits[i].Result.TimeOfClosestApproach.Before(hits[j].Result.TimeOfClosestApproach)
	})

	return hits, nil
}
