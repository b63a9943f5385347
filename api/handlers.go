// Package api exposes the coordination engine over HTTP. The surface is
// the propose/confirm/commit handshake: candidate reads for a mission,
// conflict scans, and assignment commits after a human confirms a match.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/droneops/coordinator/core/coord"
	"github.com/droneops/coordinator/core/logger"
	"github.com/droneops/coordinator/core/model"
	"github.com/droneops/coordinator/core/store"
)

// Handler routes the coordination API.
type Handler struct {
	coord *coord.Coordinator
	log   logger.Logger
	mux   *http.ServeMux
}

// New builds the API handler around the coordinator.
func New(c *coord.Coordinator, log logger.Logger) *Handler {
	h := &Handler{coord: c, log: log, mux: http.NewServeMux()}
	h.mux.HandleFunc("/api/missions", h.missions)
	h.mux.HandleFunc("/api/missions/", h.candidates)
	h.mux.HandleFunc("/api/conflicts", h.conflicts)
	h.mux.HandleFunc("/api/assignments/pilot", h.assignPilot)
	h.mux.HandleFunc("/api/assignments/drone", h.assignDrone)
	h.mux.HandleFunc("/api/status", h.updateStatus)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.mux.ServeHTTP(w, r) }

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("encode response: %v", err)
	}
}

type errorBody struct {
	Error  string `json:"error"`
	Rescan bool   `json:"rescan_recommended,omitempty"`
}

// writeError maps the store error taxonomy onto HTTP statuses. A partial
// drone+mission write maps to 409 and tells the caller to re-run conflict
// detection.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	var partial *store.PartialWriteError
	switch {
	case errors.As(err, &partial):
		w.WriteHeader(http.StatusConflict)
		if encErr := json.NewEncoder(w).Encode(errorBody{Error: err.Error(), Rescan: true}); encErr != nil {
			h.log.Errorf("encode response: %v", encErr)
		}
		return
	case errors.Is(err, store.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, store.ErrInvalidState):
		w.WriteHeader(http.StatusUnprocessableEntity)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	if encErr := json.NewEncoder(w).Encode(errorBody{Error: err.Error()}); encErr != nil {
		h.log.Errorf("encode response: %v", encErr)
	}
}

// GET /api/missions
func (h *Handler) missions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	missions, err := h.coord.Missions(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, missions)
}

// GET /api/missions/{id}/pilots and /api/missions/{id}/drones
func (h *Handler) candidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/missions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	missionID := parts[0]
	var (
		out []string
		err error
	)
	switch parts[1] {
	case "pilots":
		out, err = h.coord.PilotCandidates(r.Context(), missionID)
	case "drones":
		out, err = h.coord.DroneCandidates(r.Context(), missionID)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	if out == nil {
		out = []string{}
	}
	h.writeJSON(w, out)
}

// GET /api/conflicts
func (h *Handler) conflicts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	conflicts, err := h.coord.Scan(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, conflicts)
}

type pilotAssignment struct {
	Pilot     string `json:"pilot"`
	MissionID string `json:"mission_id"`
}

// POST /api/assignments/pilot
func (h *Handler) assignPilot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req pilotAssignment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Pilot == "" || req.MissionID == "" {
		http.Error(w, "pilot and mission_id are required", http.StatusBadRequest)
		return
	}
	if err := h.coord.AssignPilot(r.Context(), req.Pilot, req.MissionID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type droneAssignment struct {
	DroneID   string `json:"drone_id"`
	MissionID string `json:"mission_id"`
}

// POST /api/assignments/drone
func (h *Handler) assignDrone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req droneAssignment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.DroneID == "" || req.MissionID == "" {
		http.Error(w, "drone_id and mission_id are required", http.StatusBadRequest)
		return
	}
	if err := h.coord.AssignDrone(r.Context(), req.DroneID, req.MissionID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusUpdate struct {
	Entity string `json:"entity"` // "pilot" or "drone"
	Key    string `json:"key"`
	Status string `json:"status"`
}

// POST /api/status
func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req statusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var err error
	switch req.Entity {
	case "pilot":
		err = h.coord.UpdatePilotStatus(r.Context(), req.Key, model.PilotStatus(req.Status))
	case "drone":
		err = h.coord.UpdateDroneStatus(r.Context(), req.Key, model.DroneStatus(req.Status))
	default:
		http.Error(w, "entity must be pilot or drone", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
