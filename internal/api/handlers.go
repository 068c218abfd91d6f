package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/conjunction"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/graph"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

// maxListing bounds listing responses to keep payloads manageable.
const maxListing = 100

// liveObjectView is one object in the live-position listing. RiskFactor is
// the jittered display score, not a stored probability.
type liveObjectView struct {
	ID             int       `json:"id"`
	CatalogNumber  int       `json:"catalogNumber"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	X              float64   `json:"x"`
	Y              float64   `json:"y"`
	Z              float64   `json:"z"`
	InclinationDeg float64   `json:"inclination"`
	OrbitZone      string    `json:"orbitType"`
	RiskFactor     float64   `json:"riskFactor"`
	Timestamp      time.Time `json:"timestamp"`
}

type positionView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// elementsView is one object in the orbital-elements listing.
type elementsView struct {
	ID               int          `json:"id"`
	CatalogNumber    int          `json:"noradId"`
	Name             string       `json:"name"`
	SemiMajorAxisKm  float64      `json:"semiMajorAxis"`
	Eccentricity     float64      `json:"eccentricity"`
	InclinationRad   float64      `json:"inclination"`
	RightAscension   float64      `json:"rightAscension"`
	ArgOfPerigee     float64      `json:"argumentOfPerigee"`
	MeanAnomaly      float64      `json:"meanAnomaly"`
	MeanMotionRadSec float64      `json:"meanMotion"`
	PeriodMinutes    float64      `json:"period"`
	Epoch            time.Time    `json:"epoch"`
	CurrentPosition  positionView `json:"currentPosition"`
	Category         string       `json:"type"`
	OrbitZone        string       `json:"orbitType"`
	RiskFactor       float64      `json:"riskFactor"`
}

// snapshot returns the current catalog snapshot, loading it from the cache
// on first use.
func (s *Server) snapshot() (*catalog.Snapshot, error) {
	if snap := s.deps.Catalog.Get(); snap != nil {
		return snap, nil
	}
	return s.deps.Catalog.Reload(s.deps.Cache, s.deps.ObjectLimit, s.logger)
}

func (s *Server) displayRisk(distanceToCenterKm float64) float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return conjunction.DisplayRisk(distanceToCenterKm, s.rng)
}

func (s *Server) handleLiveSatellites(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	views, err := s.liveGate.GetOrRefresh(now, func() ([]liveObjectView, error) {
		return s.buildLiveViews(now)
	})
	if err != nil {
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			writeError(w, http.StatusInternalServerError, "cached catalog not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) buildLiveViews(now time.Time) ([]liveObjectView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	views := make([]liveObjectView, 0, maxListing)
	for _, obj := range snap.Satellites {
		if len(views) >= maxListing {
			break
		}
		sv, err := obj.Orbit.StateAt(now)
		if err != nil {
			continue
		}
		el := obj.Orbit.Elements()
		views = append(views, liveObjectView{
			ID:             obj.ID,
			CatalogNumber:  obj.CatalogNumber,
			Name:           obj.Name,
			Category:       string(obj.Category),
			X:              sv.PositionKm[0],
			Y:              sv.PositionKm[1],
			Z:              sv.PositionKm[2],
			InclinationDeg: el.InclinationRad * 180 / math.Pi,
			OrbitZone:      conjunction.OrbitZone(el.AltitudeKm()),
			RiskFactor:     s.displayRisk(norm3(sv.PositionKm)),
			Timestamp:      now,
		})
	}
	return views, nil
}

func (s *Server) handleOrbitalElements(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot()
	if err != nil {
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			writeError(w, http.StatusInternalServerError, "cached catalog not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now().UTC()
	views := make([]elementsView, 0, len(snap.Satellites))
	for _, obj := range snap.All() {
		sv, err := obj.Orbit.StateAt(now)
		if err != nil {
			continue
		}
		el := obj.Orbit.Elements()
		views = append(views, elementsView{
			ID:               obj.ID,
			CatalogNumber:    obj.CatalogNumber,
			Name:             obj.Name,
			SemiMajorAxisKm:  el.SemiMajorAxisKm,
			Eccentricity:     el.Eccentricity,
			InclinationRad:   el.InclinationRad,
			RightAscension:   el.RightAscensionRad,
			ArgOfPerigee:     el.ArgOfPerigeeRad,
			MeanAnomaly:      el.MeanAnomalyRad,
			MeanMotionRadSec: el.MeanMotionRadSec,
			PeriodMinutes:    el.PeriodMinutes,
			Epoch:            el.Epoch,
			CurrentPosition:  positionView{X: sv.PositionKm[0], Y: sv.PositionKm[1], Z: sv.PositionKm[2]},
			Category:         string(obj.Category),
			OrbitZone:        conjunction.OrbitZone(el.AltitudeKm()),
			RiskFactor:       s.displayRisk(norm3(sv.PositionKm)),
		})
	}

	// Group by zone, riskiest first within each zone.
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].OrbitZone != views[j].OrbitZone {
			return views[i].OrbitZone < views[j].OrbitZone
		}
		return views[i].RiskFactor > views[j].RiskFactor
	})
	if len(views) > maxListing {
		views = views[:maxListing]
	}

	writeJSON(w, http.StatusOK, views)
}

type detectRequest struct {
	WindowDays  int     `json:"windowDays"`
	ThresholdKm float64 `json:"thresholdKm"`
}

type detectResponse struct {
	Detected     int                  `json:"detected"`
	Conjunctions []*store.Conjunction `json:"conjunctions"`
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	req := detectRequest{
		WindowDays:  s.deps.Detection.WindowDays,
		ThresholdKm: s.deps.Detection.ThresholdKm,
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.WindowDays <= 0 {
		req.WindowDays = s.deps.Detection.WindowDays
	}
	if req.ThresholdKm <= 0 {
		req.ThresholdKm = s.deps.Detection.ThresholdKm
	}

	snap, err := s.snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	ctx, cancel := contextWithTimeout(r, s.deps.Detection.RunTimeout())
	defer cancel()

	now := time.Now().UTC()
	records, err := s.deps.Detector.Detect(ctx, snap.All(), now, now.Add(time.Duration(req.WindowDays)*24*time.Hour), req.ThresholdKm)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*store.Conjunction{}
	}

	writeJSON(w, http.StatusOK, detectResponse{Detected: len(records), Conjunctions: records})
}

func (s *Server) handleListConjunctions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if objStr := q.Get("object"); objStr != "" {
		catNum, err := strconv.Atoi(objStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid object catalog number")
			return
		}
		upcoming := true
		if upStr := q.Get("upcoming"); upStr != "" {
			if upcoming, err = strconv.ParseBool(upStr); err != nil {
				writeError(w, http.StatusBadRequest, "invalid upcoming flag")
				return
			}
		}
		records, err := s.deps.DB.ConjunctionsByObject(ctx, catNum, upcoming, time.Now().UTC())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(records))
		return
	}

	day := time.Now().UTC()
	if dateStr := q.Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}
	records, err := s.deps.DB.ConjunctionsByDate(ctx, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(records))
}

func (s *Server) handleGetConjunction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conjunction id")
		return
	}

	record, err := s.deps.DB.ConjunctionByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "conjunction not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handlePlanManeuver(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conjunction id")
		return
	}

	conj, err := s.deps.DB.ConjunctionByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "conjunction not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	plan, err := s.deps.Planner.Plan(r.Context(), conj, time.Now().UTC())
	switch {
	case errors.Is(err, conjunction.ErrElementSetNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, conjunction.ErrNoManeuverCandidate):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusCreated, plan)
	}
}

func (s *Server) handleGetManeuver(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conjunction id")
		return
	}

	plan, err := s.deps.DB.ManeuverPlanByConjunction(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no maneuver plan for conjunction")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type simulateRequest struct {
	CatalogNumber int     `json:"catalogNumber"`
	WindowDays    int     `json:"windowDays"`
	ThresholdKm   float64 `json:"thresholdKm"`
	MaxCandidates int     `json:"maxCandidates"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WindowDays <= 0 {
		req.WindowDays = s.deps.Detection.WindowDays
	}
	if req.MaxCandidates <= 0 || req.MaxCandidates > s.deps.Simulation.MaxCandidates {
		req.MaxCandidates = s.deps.Simulation.MaxCandidates
	}

	snap, err := s.snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	target, ok := snap.FindByCatalogNumber(req.CatalogNumber)
	if !ok {
		writeError(w, http.StatusNotFound, "object not found in catalog")
		return
	}

	ctx, cancel := contextWithTimeout(r, s.deps.Detection.RunTimeout())
	defer cancel()

	now := time.Now().UTC()
	hits, err := s.deps.Detector.SimulateAgainstCatalog(ctx, target, snap.All(), now, now.Add(time.Duration(req.WindowDays)*24*time.Hour), req.ThresholdKm, req.MaxCandidates)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hits == nil {
		hits = []conjunction.SimulationHit{}
	}
	writeJSON(w, http.StatusOK, hits)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	days := 7
	if dStr := r.URL.Query().Get("days"); dStr != "" {
		parsed, err := strconv.Atoi(dStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid days parameter")
			return
		}
		days = parsed
	}

	snap, err := s.snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	records, err := s.deps.DB.RecentConjunctions(r.Context(), days, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, graph.Build(snap.All(), records))
}

func norm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func emptyIfNil(records []*store.Conjunction) []*store.Conjunction {
	if records == nil {
		return []*store.Conjunction{}
	}
	return records
}
