package store

import "time"

// ObjectRef describes one participant of a conjunction as it was known at
// detection time. LocalID is only meaningful within the catalog load that
// produced it; CatalogNumber is what later re-lookup must use.
type ObjectRef struct {
	LocalID       int    `json:"localId"`
	CatalogNumber int    `json:"catalogNumber"`
	Name          string `json:"name"`
	Category      string `json:"category"`
}

// Conjunction is a persisted close-approach prediction. Created exactly
// once by a detection run, never mutated.
type Conjunction struct {
	ID                  int64     `json:"id"`
	Object1             ObjectRef `json:"object1"`
	Object2             ObjectRef `json:"object2"`
	DetectedAt          time.Time `json:"detectedAt"`
	ConjunctionTime     time.Time `json:"conjunctionTime"`
	ClosestDistanceKm   float64   `json:"closestDistanceKm"`
	Object1VelocityKmS  float64   `json:"object1VelocityKmS"`
	Object2VelocityKmS  float64   `json:"object2VelocityKmS"`
	RelativeVelocityKmS float64   `json:"relativeVelocityKmS"`
	Probability         float64   `json:"probability"`
	OrbitZone           string    `json:"orbitZone"`
	Notes               string    `json:"notes,omitempty"`
}

// ManeuverPlan is a persisted avoidance proposal for one conjunction.
type ManeuverPlan struct {
	ID                       int64     `json:"id"`
	ConjunctionID            int64     `json:"conjunctionId"`
	ManeuveringCatalogNumber int       `json:"maneuveringCatalogNumber"`
	ManeuverType             string    `json:"maneuverType"`
	DeltaVMetersPerSec       float64   `json:"deltaVMetersPerSec"`
	ExecutionTime            time.Time `json:"executionTime"`
	ExpectedMissDistanceKm   float64   `json:"expectedMissDistanceKm"`
	FuelCostKg               float64   `json:"fuelCostKg"`
	RiskReductionPercent     float64   `json:"riskReductionPercent"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
