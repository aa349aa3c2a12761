package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"multicalc/internal/app"
	"multicalc/internal/calculator"
	"multicalc/internal/handlers"
	"multicalc/internal/observability"
)

// NewRouter wires the session endpoints behind the observability middleware.
// reg may be nil, in which case /metrics is not served.
func NewRouter(state *app.State, loader app.Loader, reg *prometheus.Registry) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	if reg != nil {
		r.Handle("/metrics", observability.PrometheusHandler(reg))
	}

	calculator.RegisterRoutes(r, state)
	app.RegisterRoutes(r, state, loader)

	return r
}
