// Package http exposes the service's HTTP surface: health endpoints,
// session introspection, and the media stream websocket.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ai-voice-reception-service/internal/app"
	"ai-voice-reception-service/internal/telephony"
)

// SessionFactory builds a call session bound to an accepted
// connection. Wiring lives in cmd so the handler stays transport-only.
type SessionFactory func(conn telephony.Conn, callSid, from, clinicID string) *telephony.Session

// NewRouter constructs the HTTP router for the service.
func NewRouter(application *app.Application, registry *telephony.Registry, newSession SessionFactory) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/sessions", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"active":   registry.Len(),
				"sessions": registry.Snapshot(),
			})
		})
		r.Get("/media-stream", newMediaStreamHandler(application, registry, newSession))
	})

	return r
}
