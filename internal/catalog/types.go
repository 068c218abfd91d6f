package catalog

import (
	"time"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/propagation"
)

// Category labels what kind of object a catalog entry describes.
type Category string

const (
	CategorySatellite Category = "satellite"
	CategoryDebris    Category = "debris"
)

// Orbit is the propagator-ready element set of a tracked object. The
// concrete implementation lives in internal/propagation; the engine only
// needs state vectors and derived elements.
type Orbit interface {
	StateAt(t time.Time) (propagation.StateVector, error)
	Elements() propagation.Elements
}

// TrackedObject is one entry of a loaded catalog. Transient: it lives for
// the duration of one detection or simulation pass and is never persisted.
// ID is the zero-based position within the source catalog load and has no
// cross-load meaning; CatalogNumber is the only identifier stable across
// reloads.
type TrackedObject struct {
	ID            int
	CatalogNumber int
	Name          string
	Category      Category
	Orbit         Orbit
}

// Snapshot is one complete catalog load: satellites and debris together
// with the time their source text was fetched.
type Snapshot struct {
	FetchedAt  time.Time
	Satellites []TrackedObject
	Debris     []TrackedObject
}

// All returns satellites followed by debris, the candidate ordering a
// detection run enumerates pairs over.
func (s *Snapshot) All() []TrackedObject {
	all := make([]TrackedObject, 0, len(s.Satellites)+len(s.Debris))
	all = append(all, s.Satellites...)
	all = append(all, s.Debris...)
	return all
}

// FindByCatalogNumber locates an object across both categories.
func (s *Snapshot) FindByCatalogNumber(n int) (TrackedObject, bool) {
	for _, obj := range s.All() {
		if obj.CatalogNumber == n {
			return obj, true
		}
	}
	return TrackedObject{}, false
}
