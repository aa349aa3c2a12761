package calculator

import (
	"context"
	"encoding/json"
	"net/http"

	"multicalc/internal/handlers"
	"multicalc/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Engine runs calculations against the session state. *app.State implements it.
type Engine interface {
	Calculate(ctx context.Context, id string, src InputSource, sink OutputSink) Outcome
	ClearOutputs(id string, sink OutputSink)
	Catalog() *Catalog
	Localizer() *Localizer
}

// Handlers serves the calculator endpoints.
type Handlers struct {
	engine Engine
}

func NewHandlers(engine Engine) *Handlers {
	return &Handlers{engine: engine}
}

// List handles GET /calculators
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	catalog := h.engine.Catalog()
	loc := h.engine.Localizer()

	entries := make([]CatalogEntry, 0, len(catalog.IDs()))
	for _, id := range catalog.IDs() {
		def, _ := catalog.Lookup(id)
		entries = append(entries, describe(def, loc))
	}
	handlers.WriteJSON(w, http.StatusOK, entries)
}

// Calculate handles POST /calculator/{id}. Unknown calculators are ignored
// with 204 No Content; invalid input still answers 200 with the localized
// error text in the result output.
func (h *Handlers) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	logger := observability.LoggerWithTrace(ctx)

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("calculator.id", id),
		attribute.String("request.id", observability.RequestIDFromContext(ctx)),
	)

	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, id, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	resp := newCalcResponse(id)
	outcome := h.engine.Calculate(ctx, id, &req, resp)
	if outcome == Ignored {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	resp.Status = outcome.String()

	logger.Debug("calculation answered",
		zap.String("calculator", id),
		zap.String("status", resp.Status),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// Clear handles DELETE /calculator/{id}: it returns every output blanked and
// every summary hidden.
func (h *Handlers) Clear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.engine.Catalog().Lookup(id); !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	resp := newCalcResponse(id)
	h.engine.ClearOutputs(id, resp)
	resp.Status = "cleared"
	handlers.WriteJSON(w, http.StatusOK, resp)
}
