package http

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router. requestTimeout bounds every request; zero
// disables the limit.
func (h *Handler) Init(requestTimeout time.Duration) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))
	if requestTimeout > 0 {
		router.Use(middleware.Timeout(requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/api/version/", h.getServerVersion)
	})

	router.Route("/rest/v1", func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/{table}", h.insertRecord)
		r.Patch("/{table}/{id}", h.updateRecord)
		r.Delete("/{table}/{id}", h.deleteRecord)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
