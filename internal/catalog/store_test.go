package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func writeSatCatalog(t *testing.T, cache *Cache, ts time.Time) {
	t.Helper()
	text := strings.Join([]string{issName, issLine1, issLine2}, "\n")
	if err := cache.Write(CategorySatellite, []byte(text), ts); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
}

// TestStoreReloadInstallsSnapshot verifies Reload parses the cached text and
// publishes the snapshot atomically.
func TestStoreReloadInstallsSnapshot(t *testing.T) {
	cache := NewCache(t.TempDir(), 5)
	fetched := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	writeSatCatalog(t, cache, fetched)

	store := NewStore()
	if store.Get() != nil {
		t.Fatal("fresh store should have no snapshot")
	}
	if store.AgeSeconds() != -1 {
		t.Errorf("AgeSeconds = %v, want -1 before first load", store.AgeSeconds())
	}

	snap, err := store.Reload(cache, 20, testLogger())
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(snap.Satellites) != 1 {
		t.Errorf("got %d satellites, want 1", len(snap.Satellites))
	}
	if !snap.FetchedAt.Equal(fetched) {
		t.Errorf("FetchedAt = %v, want %v", snap.FetchedAt, fetched)
	}
	if store.Get() != snap {
		t.Error("Get should return the reloaded snapshot")
	}
	if store.AgeSeconds() < 0 {
		t.Errorf("AgeSeconds = %v, want >= 0", store.AgeSeconds())
	}
}

// TestStoreReloadMissingDebrisDegrades verifies a missing debris catalog is
// tolerated while a missing satellite catalog is fatal.
func TestStoreReloadMissingDebrisDegrades(t *testing.T) {
	cache := NewCache(t.TempDir(), 5)
	store := NewStore()

	if _, err := store.Reload(cache, 20, testLogger()); !errors.Is(err, ErrCatalogUnavailable) {
		t.Errorf("no satellite catalog: err = %v, want ErrCatalogUnavailable", err)
	}

	writeSatCatalog(t, cache, time.Now())
	snap, err := store.Reload(cache, 20, testLogger())
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(snap.Debris) != 0 {
		t.Errorf("got %d debris, want 0", len(snap.Debris))
	}
}

// TestSnapshotLookup verifies All ordering and catalog-number search across
// both categories.
func TestSnapshotLookup(t *testing.T) {
	snap := &Snapshot{
		Satellites: []TrackedObject{{ID: 0, CatalogNumber: 100, Name: "SAT-A", Category: CategorySatellite}},
		Debris:     []TrackedObject{{ID: 0, CatalogNumber: 200, Name: "DEB-A", Category: CategoryDebris}},
	}

	all := snap.All()
	if len(all) != 2 {
		t.Fatalf("All returned %d objects, want 2", len(all))
	}
	if all[0].CatalogNumber != 100 || all[1].CatalogNumber != 200 {
		t.Error("All should return satellites before debris")
	}

	obj, ok := snap.FindByCatalogNumber(200)
	if !ok || obj.Name != "DEB-A" {
		t.Errorf("FindByCatalogNumber(200) = %v, %v", obj, ok)
	}
	if _, ok := snap.FindByCatalogNumber(999); ok {
		t.Error("FindByCatalogNumber(999) should miss")
	}
}
