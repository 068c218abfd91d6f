package catalog

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Store provides thread-safe access to the current catalog snapshot.
type Store struct {
	snapshot atomic.Pointer[Snapshot]
	mu       sync.Mutex // serializes reloads
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current snapshot, or nil if none has been loaded.
func (s *Store) Get() *Snapshot {
	return s.snapshot.Load()
}

// Set atomically replaces the current snapshot.
func (s *Store) Set(snap *Snapshot) {
	s.snapshot.Store(snap)
}

// AgeSeconds returns the age of the current snapshot in seconds, or -1 if
// none is loaded.
func (s *Store) AgeSeconds() float64 {
	snap := s.snapshot.Load()
	if snap == nil {
		return -1
	}
	return time.Since(snap.FetchedAt).Seconds()
}

// Reload parses the latest cached catalog text into a fresh snapshot and
// installs it. The satellite catalog is required; a missing debris catalog
// degrades to an empty debris list with a warning, since debris sources are
// updated far less often. Returns ErrCatalogUnavailable when no satellite
// catalog text exists.
func (s *Store) Reload(cache *Cache, limit int, logger *slog.Logger) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	satData, satTS, err := cache.LoadLatest(CategorySatellite)
	if err != nil {
		return nil, err
	}
	satellites, err := Load(bytes.NewReader(satData), CategorySatellite, limit, logger)
	if err != nil {
		return nil, err
	}

	var debris []TrackedObject
	debData, _, err := cache.LoadLatest(CategoryDebris)
	switch {
	case errors.Is(err, ErrCatalogUnavailable):
		logger.Warn("no cached debris catalog, continuing with satellites only")
	case err != nil:
		return nil, err
	default:
		debris, err = Load(bytes.NewReader(debData), CategoryDebris, limit, logger)
		if err != nil {
			return nil, err
		}
	}

	snap := &Snapshot{
		FetchedAt:  satTS,
		Satellites: satellites,
		Debris:     debris,
	}
	s.snapshot.Store(snap)

	logger.Info("catalog snapshot loaded",
		"satellites", len(satellites),
		"debris", len(debris),
		"fetched_at", satTS.UTC().Format(time.RFC3339),
	)
	return snap, nil
}
