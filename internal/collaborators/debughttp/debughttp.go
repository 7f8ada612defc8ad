// Package debughttp exposes a read-only chi router for inspecting a
// running Store, grounded on the playlist-service's own Server.Router
// route table shape (health check plus a handful of GETs).
package debughttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arcflow/core/internal/core"
)

// Server exposes core.Store state over HTTP for debugging and local
// tooling. It never dispatches actions; it only reads.
type Server struct {
	store *core.Store
}

// New wraps store for read-only HTTP introspection.
func New(store *core.Store) *Server {
	return &Server{store: store}
}

// Router builds the chi router. Like the teacher's Server.Router, any
// middlewares the caller wants are applied before routes are registered.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/state", s.handleState)
	r.Get("/state/queue", s.handleQueue)
	r.Get("/state/notifications", s.handleNotifications)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": "arcflowctl"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State())
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State().Queue)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State().Notifications)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
