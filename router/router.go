package router

import (
	"net/http"
	summaryHandler "travelease/internal/summary"
	"travelease/internal/summary/service"
	"travelease/middleware"
	"travelease/socket"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options configures the HTTP surface.
type Options struct {
	JWTSecret   string
	CORSOrigins []string
}

func Setup(svc *service.SummaryService, hub *socket.Hub, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))

	h := summaryHandler.NewSummaryHandler(svc)

	// Public
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(opts.JWTSecret))

		// WebSocket
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := middleware.UserIDFromContext(r.Context())
			socket.ServeWs(hub, w, r, userID)
		})

		// REST API
		r.Route("/api/summaries", func(r chi.Router) {
			r.Get("/", h.ListSummaries)
			r.Post("/", h.CreateSummary)
			r.Get("/{id}", h.GetSummary)
			r.Get("/{id}/render", h.RenderSummary)
		})
		r.Post("/api/process", h.Process)
	})

	return r
}
