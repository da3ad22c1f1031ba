package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hotspot-cli/internal/dbscan"
	"github.com/sells-group/hotspot-cli/internal/hotspot"
	"github.com/sells-group/hotspot-cli/internal/model"
	"github.com/sells-group/hotspot-cli/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clusterRequest carries raw points and parameters for a stateless
// clustering call.
type clusterRequest struct {
	Points []dbscan.Point `json:"points"`
	Eps    float64        `json:"eps"`
	MinPts int            `json:"min_pts"`
}

type clusterResponse struct {
	Labels  []dbscan.Label `json:"labels"`
	Summary dbscan.Summary `json:"summary"`
}

// handleCluster clusters the points given in the request body. Coordinates
// are normalized before clustering; the summary centroids are reported in the
// original coordinates.
func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	var req clusterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Eps == 0 {
		req.Eps = s.defaults.Eps
	}
	if req.MinPts == 0 {
		req.MinPts = s.defaults.MinPts
	}

	labels, err := dbscan.Cluster(dbscan.Normalize(req.Points), req.Eps, req.MinPts)
	if err != nil {
		if eris.Is(err, dbscan.ErrInvalidParameter) || eris.Is(err, dbscan.ErrMalformedPoint) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "clustering failed")
		return
	}

	writeJSON(w, http.StatusOK, clusterResponse{
		Labels:  labels,
		Summary: dbscan.Summarize(req.Points, labels),
	})
}

// handleHotspots runs the analyzer against stored incidents and persists the
// run. Identical requests over the same data are served from the cache.
func (s *Server) handleHotspots(w http.ResponseWriter, r *http.Request) {
	var params model.Params
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	s.applyDefaults(&params)

	incidents, err := s.store.ListIncidents(r.Context(), store.IncidentFilter{
		District: params.District,
		Category: params.Category,
	})
	if err != nil {
		zap.L().Error("server: list incidents", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading incidents failed")
		return
	}
	if len(incidents) == 0 {
		writeError(w, http.StatusNotFound, "no incidents match the requested filters")
		return
	}

	key := hotspot.Fingerprint(incidents, params)
	if cached := s.cache.Get(key); cached != nil {
		writeJSON(w, http.StatusOK, map[string]any{"result": cached.Result, "cached": true})
		return
	}

	run, err := s.store.CreateRun(r.Context(), params)
	if err != nil {
		zap.L().Error("server: create run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "creating run failed")
		return
	}

	out, err := hotspot.Analyze(incidents, params)
	if err != nil {
		if ferr := s.store.FailRun(r.Context(), run.ID); ferr != nil {
			zap.L().Error("server: fail run", zap.String("run", run.ID), zap.Error(ferr))
		}
		if eris.Is(err, dbscan.ErrInvalidParameter) || eris.Is(err, dbscan.ErrMalformedPoint) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	if err := s.store.CompleteRun(r.Context(), run.ID, &out.Result); err != nil {
		zap.L().Error("server: complete run", zap.String("run", run.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "persisting run failed")
		return
	}
	s.cache.Set(key, out)

	writeJSON(w, http.StatusOK, map[string]any{"run_id": run.ID, "result": out.Result})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{
		Status: model.RunStatus(r.URL.Query().Get("status")),
	}
	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("server: list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing runs failed")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		zap.L().Error("server: get run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading run failed")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// applyDefaults fills zero-valued parameters from the configured defaults.
func (s *Server) applyDefaults(p *model.Params) {
	if p.Eps == 0 {
		p.Eps = s.defaults.Eps
	}
	if p.MinPts == 0 {
		p.MinPts = s.defaults.MinPts
	}
	if p.SampleSize == 0 {
		p.SampleSize = s.defaults.SampleSize
	}
	if p.Seed == 0 {
		p.Seed = s.defaults.Seed
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
