// Package api exposes the coordinator over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kilianp07/skyops/core/audit"
	"github.com/kilianp07/skyops/core/conflicts"
	corelogger "github.com/kilianp07/skyops/core/logger"
	"github.com/kilianp07/skyops/core/matching"
	"github.com/kilianp07/skyops/core/monitoring"
	"github.com/kilianp07/skyops/core/urgent"
)

// Deps are the collaborators behind the handlers. Audit, Log, Monitor and
// Token are optional.
type Deps struct {
	Engine   *matching.Engine
	Detector *conflicts.Detector
	Ranker   *urgent.Ranker
	Audit    audit.LogStore
	Log      corelogger.Logger
	Monitor  monitoring.Monitor
	// Token, when set, is required as "Bearer <token>" on every /api route.
	Token string
}

// Server holds the HTTP handlers.
type Server struct {
	engine   *matching.Engine
	detector *conflicts.Detector
	ranker   *urgent.Ranker
	audit    audit.LogStore
	log      corelogger.Logger
	mon      monitoring.Monitor
	token    string
}

// NewServer returns a Server over d.
func NewServer(d Deps) *Server {
	return &Server{
		engine:   d.Engine,
		detector: d.Detector,
		ranker:   d.Ranker,
		audit:    d.Audit,
		log:      corelogger.OrNop(d.Log),
		mon:      monitoring.OrNop(d.Monitor),
		token:    d.Token,
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(s.requestLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth)

		r.Route("/pilots", func(r chi.Router) {
			r.Get("/", s.listPilots)
			r.Get("/{id}/assignment", s.pilotAssignment)
			r.Get("/{id}/cost", s.pilotCost)
			r.Put("/{id}/status", s.updatePilotStatus)
		})
		r.Route("/drones", func(r chi.Router) {
			r.Get("/", s.listDrones)
			r.Get("/maintenance", s.maintenance)
			r.Get("/{id}/assignment", s.droneAssignment)
			r.Put("/{id}/status", s.updateDroneStatus)
		})
		r.Route("/missions", func(r chi.Router) {
			r.Get("/", s.listMissions)
			r.Get("/{id}/pilots", s.matchPilots)
			r.Get("/{id}/drones", s.matchDrones)
			r.Post("/{id}/urgent", s.urgentReassign)
			r.Get("/{id}/replacements/pilots", s.replacementPilots)
			r.Get("/{id}/replacements/drones", s.replacementDrones)
		})
		r.Get("/assignments", s.listAssignments)
		r.Post("/assignments", s.createAssignment)
		r.Get("/conflicts", s.detectConflicts)
		r.Get("/audit", s.auditLog)
	})
	return r
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.mon.CaptureException(panicError{rec}, map[string]string{"route": r.URL.Path, "module": "api"})
				s.log.Errorf("panic serving %s: %v", r.URL.Path, rec)
				writeMessage(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debugw("http request", map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}
