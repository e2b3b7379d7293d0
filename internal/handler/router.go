package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the people API. events, when non-nil, serves /events.
func NewRouter(h *PeopleHandler, events http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/people", h.ListPeople)
		r.Post("/people", h.CreatePerson)
		r.Get("/people/{id}", h.GetPerson)
		r.Put("/people/{id}", h.RenamePerson)
		r.Delete("/people/{id}", h.DeletePerson)

		r.Get("/formats", h.GetFormats)
		r.Get("/possessive", h.GetPossessive)

		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
	})

	if events != nil {
		r.Method(http.MethodGet, "/events", events)
	}

	return r
}
