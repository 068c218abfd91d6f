package conjunction

import "testing"

// TestOrbitZoneBoundaries exercises the three-level classifier including the
// exact band edges.
func TestOrbitZoneBoundaries(t *testing.T) {
	tests := []struct {
		altKm float64
		want  string
	}{
		{400, ZoneLEO},
		{1999.9, ZoneLEO},
		{2000, ZoneMEO},
		{20000, ZoneMEO},
		{35785.9, ZoneMEO},
		{35786, ZoneGEO},
		{50000, ZoneGEO},
	}

	for _, tt := range tests {
		if got := OrbitZone(tt.altKm); got != tt.want {
			t.Errorf("OrbitZone(%v) = %q, want %q", tt.altKm, got, tt.want)
		}
	}
}

// TestOrbitZoneFineBoundaries exercises the four-level classifier used for
// conjunction pair labels.
func TestOrbitZoneFineBoundaries(t *testing.T) {
	tests := []struct {
		altKm float64
		want  string
	}{
		{400, ZoneLEO},
		{2000, ZoneMEO},
		{35786, ZoneGEO},
		{39999.9, ZoneGEO},
		{40000, ZoneHEO},
		{80000, ZoneHEO},
	}

	for _, tt := range tests {
		if got := OrbitZoneFine(tt.altKm); got != tt.want {
			t.Errorf("OrbitZoneFine(%v) = %q, want %q", tt.altKm, got, tt.want)
		}
	}
}

// TestPairOrbitZone verifies shared zones collapse to one label and
// cross-zone pairs get the composite label.
func TestPairOrbitZone(t *testing.T) {
	if got := PairOrbitZone(400, 800); got != ZoneLEO {
		t.Errorf("PairOrbitZone(400, 800) = %q, want LEO", got)
	}
	if got := PairOrbitZone(400, 20000); got != "Mixed (LEO/MEO)" {
		t.Errorf("PairOrbitZone(400, 20000) = %q, want Mixed (LEO/MEO)", got)
	}
	if got := PairOrbitZone(36000, 45000); got != "Mixed (GEO/HEO)" {
		t.Errorf("PairOrbitZone(36000, 45000) = %q, want Mixed (GEO/HEO)", got)
	}
}
