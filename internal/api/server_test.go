package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/auth"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/config"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/conjunction"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/propagation"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// testOrbit is a straight-line ephemeris, enough for handler-level tests.
type testOrbit struct {
	pos   [3]float64
	vel   [3]float64
	elems propagation.Elements
}

func (o testOrbit) StateAt(t time.Time) (propagation.StateVector, error) {
	return propagation.StateVector{PositionKm: o.pos, VelocityKmS: o.vel}, nil
}

func (o testOrbit) Elements() propagation.Elements {
	return o.elems
}

func testSnapshot() *catalog.Snapshot {
	leo := propagation.Elements{SemiMajorAxisKm: propagation.EarthRadiusKm + 500}
	return &catalog.Snapshot{
		FetchedAt: time.Now(),
		Satellites: []catalog.TrackedObject{{
			ID: 0, CatalogNumber: 100, Name: "SAT-A", Category: catalog.CategorySatellite,
			Orbit: testOrbit{pos: [3]float64{7000, 0, 0}, vel: [3]float64{1, 0, 0}, elems: leo},
		}},
		Debris: []catalog.TrackedObject{{
			ID: 0, CatalogNumber: 200, Name: "DEB-B", Category: catalog.CategoryDebris,
			Orbit: testOrbit{pos: [3]float64{7000, 5, 0}, elems: leo},
		}},
	}
}

func newTestServer(t *testing.T, authCfg auth.Config, snap *catalog.Snapshot) (*Server, http.Handler) {
	t.Helper()

	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	catalogStore := catalog.NewStore()
	if snap != nil {
		catalogStore.Set(snap)
	}

	logger := testLogger()
	detection := config.DetectionConfig{
		WindowDays:        1,
		StepMinutes:       10,
		ThresholdKm:       10,
		MaxCandidates:     64,
		RunTimeoutMinutes: 1,
	}
	detector := conjunction.NewDetector(db, conjunction.DetectorConfig{
		Step:          detection.Step(),
		MaxCandidates: detection.MaxCandidates,
	}, logger)

	srv := NewServer("127.0.0.1:0", logger, Deps{
		AuthConfig:      authCfg,
		Catalog:         catalogStore,
		Cache:           catalog.NewCache(t.TempDir(), 5),
		DB:              db,
		Detector:        detector,
		Planner:         conjunction.NewPlanner(catalogStore, db, logger),
		Detection:       detection,
		Simulation:      config.SimulationConfig{MaxCandidates: 50},
		ObjectLimit:     20,
		RefreshInterval: 30 * time.Second,
	})

	return srv, srv.HTTPServer().Handler
}

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// TestHealthAndReadiness verifies liveness is unconditional and readiness
// tracks the catalog snapshot.
func TestHealthAndReadiness(t *testing.T) {
	_, empty := newTestServer(t, auth.Config{}, nil)
	if w := doRequest(empty, "GET", "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200", w.Code)
	}
	if w := doRequest(empty, "GET", "/readyz", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz without catalog = %d, want 503", w.Code)
	}

	_, loaded := newTestServer(t, auth.Config{}, testSnapshot())
	if w := doRequest(loaded, "GET", "/readyz", ""); w.Code != http.StatusOK {
		t.Errorf("readyz with catalog = %d, want 200", w.Code)
	}
}

// TestAuthEnforcement verifies bearer auth guards the API while probe paths
// stay public.
func TestAuthEnforcement(t *testing.T) {
	_, handler := newTestServer(t, auth.Config{Enabled: true, Token: "secret"}, testSnapshot())

	if w := doRequest(handler, "GET", "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200 (exempt)", w.Code)
	}
	if w := doRequest(handler, "GET", "/api/v1/conjunctions", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated = %d, want 401", w.Code)
	}

	req := httptest.NewRequest("GET", "/api/v1/conjunctions", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authenticated = %d, want 200", w.Code)
	}
}

// TestDetectAndManeuverFlow runs the whole pipeline through the HTTP layer:
// detection over the snapshot, conjunction retrieval, then maneuver planning
// and retrieval.
func TestDetectAndManeuverFlow(t *testing.T) {
	_, handler := newTestServer(t, auth.Config{}, testSnapshot())

	w := doRequest(handler, "POST", "/api/v1/conjunctions/detect", `{"thresholdKm": 10}`)
	if w.Code != http.StatusOK {
		t.Fatalf("detect = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var detected detectResponse
	if err := json.NewDecoder(w.Body).Decode(&detected); err != nil {
		t.Fatalf("decoding detect response: %v", err)
	}
	if detected.Detected != 1 {
		t.Fatalf("detected = %d, want 1 (one pair 5 km apart)", detected.Detected)
	}
	conjID := detected.Conjunctions[0].ID
	if conjID == 0 {
		t.Fatal("conjunction should carry its persisted id")
	}

	w = doRequest(handler, "GET", fmt.Sprintf("/api/v1/conjunctions/%d", conjID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get conjunction = %d, want 200", w.Code)
	}
	var conj store.Conjunction
	if err := json.NewDecoder(w.Body).Decode(&conj); err != nil {
		t.Fatalf("decoding conjunction: %v", err)
	}
	if conj.ClosestDistanceKm != 5 {
		t.Errorf("ClosestDistanceKm = %v, want 5", conj.ClosestDistanceKm)
	}
	if conj.Probability != 0.3 {
		t.Errorf("Probability = %v, want 0.3 (5 km band)", conj.Probability)
	}

	// No plan exists yet.
	path := fmt.Sprintf("/api/v1/conjunctions/%d/maneuver", conjID)
	if w := doRequest(handler, "GET", path, ""); w.Code != http.StatusNotFound {
		t.Errorf("get maneuver before planning = %d, want 404", w.Code)
	}

	w = doRequest(handler, "POST", path, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("plan maneuver = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var plan store.ManeuverPlan
	if err := json.NewDecoder(w.Body).Decode(&plan); err != nil {
		t.Fatalf("decoding plan: %v", err)
	}
	if plan.ManeuveringCatalogNumber != 100 {
		t.Errorf("ManeuveringCatalogNumber = %d, want the satellite (100)", plan.ManeuveringCatalogNumber)
	}
	if plan.DeltaVMetersPerSec != 5.0 {
		t.Errorf("DeltaVMetersPerSec = %v, want clamped 5.0", plan.DeltaVMetersPerSec)
	}

	if w := doRequest(handler, "GET", path, ""); w.Code != http.StatusOK {
		t.Errorf("get maneuver after planning = %d, want 200", w.Code)
	}
}

// TestGetConjunctionNotFound verifies the typed store miss maps to 404.
func TestGetConjunctionNotFound(t *testing.T) {
	_, handler := newTestServer(t, auth.Config{}, testSnapshot())

	if w := doRequest(handler, "GET", "/api/v1/conjunctions/999", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if w := doRequest(handler, "GET", "/api/v1/conjunctions/abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id = %d, want 400", w.Code)
	}
}

// TestLiveSatellites verifies the live listing shape and that debris is not
// included.
func TestLiveSatellites(t *testing.T) {
	_, handler := newTestServer(t, auth.Config{}, testSnapshot())

	w := doRequest(handler, "GET", "/api/v1/satellites", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var views []liveObjectView
	if err := json.NewDecoder(w.Body).Decode(&views); err != nil {
		t.Fatalf("decoding views: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1 (satellites only)", len(views))
	}
	v := views[0]
	if v.CatalogNumber != 100 || v.X != 7000 {
		t.Errorf("view = %+v", v)
	}
	if v.OrbitZone != "LEO" {
		t.Errorf("OrbitZone = %q, want LEO", v.OrbitZone)
	}
	if v.RiskFactor < 5 || v.RiskFactor > 95 {
		t.Errorf("RiskFactor = %v, want within [5, 95]", v.RiskFactor)
	}
}

// TestSimulate verifies the interactive path over the snapshot and the 404
// for an unknown target.
func TestSimulate(t *testing.T) {
	_, handler := newTestServer(t, auth.Config{}, testSnapshot())

	w := doRequest(handler, "POST", "/api/v1/simulate", `{"catalogNumber": 100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var hits []conjunction.SimulationHit
	if err := json.NewDecoder(w.Body).Decode(&hits); err != nil {
		t.Fatalf("decoding hits: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1 (the 5 km debris)", len(hits))
	}
	if hits[0].Object.CatalogNumber != 200 {
		t.Errorf("hit = %d, want 200", hits[0].Object.CatalogNumber)
	}

	if w := doRequest(handler, "POST", "/api/v1/simulate", `{"catalogNumber": 999}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown target = %d, want 404", w.Code)
	}
}

// TestGraph verifies the projection endpoint returns nodes for the loaded
// population.
func TestGraph(t *testing.T) {
	_, handler := newTestServer(t, auth.Config{}, testSnapshot())

	w := doRequest(handler, "GET", "/api/v1/graph", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var view struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("decoding view: %v", err)
	}
	if len(view.Nodes) != 2 {
		t.Errorf("got %d nodes, want 2", len(view.Nodes))
	}

	if w := doRequest(handler, "GET", "/api/v1/graph?days=zero", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad days = %d, want 400", w.Code)
	}
}

// TestListConjunctionsValidation verifies query parameter validation on the
// listing endpoint.
func TestListConjunctionsValidation(t *testing.T) {
	_, handler := newTestServer(t, auth.Config{}, testSnapshot())

	if w := doRequest(handler, "GET", "/api/v1/conjunctions?date=notadate", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d, want 400", w.Code)
	}
	if w := doRequest(handler, "GET", "/api/v1/conjunctions?object=notanumber", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad object = %d, want 400", w.Code)
	}
	if w := doRequest(handler, "GET", "/api/v1/conjunctions", ""); w.Code != http.StatusOK {
		t.Errorf("default listing = %d, want 200", w.Code)
	}
}
