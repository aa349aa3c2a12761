package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router.
func RegisterRoutes(r chi.Router, engine Engine) {
	h := NewHandlers(engine)
	r.Get("/calculators", h.List)
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/{id}", h.Calculate)
		r.Delete("/{id}", h.Clear)
	})
}
