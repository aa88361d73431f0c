package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/skyops/core/audit"
)

func (s *Server) listPilots(w http.ResponseWriter, r *http.Request) {
	pilots, err := s.engine.Pilots(r.Context(), rosterFilter(r.URL.Query()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pilots)
}

func (s *Server) pilotAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := s.engine.PilotAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) pilotCost(w http.ResponseWriter, r *http.Request) {
	missionID := strings.TrimSpace(r.URL.Query().Get("mission_id"))
	if missionID == "" {
		s.fail(w, r, fmt.Errorf("%w: mission_id is required", errBadRequest))
		return
	}
	c, err := s.engine.PilotCost(r.Context(), chi.URLParam(r, "id"), missionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updatePilotStatus(w http.ResponseWriter, r *http.Request) {
	var req PilotStatusRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.engine.UpdatePilotStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) listDrones(w http.ResponseWriter, r *http.Request) {
	f, err := fleetFilter(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	drones, err := s.engine.Drones(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drones)
}

func (s *Server) maintenance(w http.ResponseWriter, r *http.Request) {
	drones, err := s.engine.DronesNeedingMaintenance(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drones)
}

func (s *Server) droneAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := s.engine.DroneAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) updateDroneStatus(w http.ResponseWriter, r *http.Request) {
	var req DroneStatusRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.engine.UpdateDroneStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) listMissions(w http.ResponseWriter, r *http.Request) {
	f, err := missionFilter(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ms, err := s.engine.Missions(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (s *Server) matchPilots(w http.ResponseWriter, r *http.Request) {
	urgent, err := queryBool(r.URL.Query(), "urgent")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	matches, err := s.engine.MatchPilots(r.Context(), chi.URLParam(r, "id"), urgent != nil && *urgent)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) matchDrones(w http.ResponseWriter, r *http.Request) {
	matches, err := s.engine.MatchDrones(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) urgentReassign(w http.ResponseWriter, r *http.Request) {
	var req UrgentRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.ranker.Reassign(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) replacementPilots(w http.ResponseWriter, r *http.Request) {
	opts, err := s.ranker.ReplacementPilots(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("exclude"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) replacementDrones(w http.ResponseWriter, r *http.Request) {
	opts, err := s.ranker.ReplacementDrones(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("exclude"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	as, err := s.engine.ActiveAssignments(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, as)
}

func (s *Server) createAssignment(w http.ResponseWriter, r *http.Request) {
	var req AssignmentRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.engine.CreateAssignment(r.Context(), req.PilotID, req.DroneID, req.MissionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) detectConflicts(w http.ResponseWriter, r *http.Request) {
	f, err := conflictFilter(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cs, err := s.detector.Detect(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *Server) auditLog(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeMessage(w, http.StatusNotFound, "audit log disabled")
		return
	}
	q, err := auditQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	recs, err := s.audit.Query(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []audit.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}
