package app

import (
	"errors"
	"net/http"

	"multicalc/internal/handlers"
	"multicalc/internal/history"
	"multicalc/internal/i18n"
	"multicalc/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the history, language and preference endpoints.
func RegisterRoutes(r chi.Router, s *State, loader Loader) {
	h := &sessionHandlers{state: s, loader: loader}

	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.history)
		r.Delete("/", h.clearHistory)
	})
	r.Route("/language", func(r chi.Router) {
		r.Get("/", h.activeLanguage)
		r.Get("/{lang}", h.languageDocument)
		r.Put("/{lang}", h.switchLanguage)
	})
	r.Route("/preferences", func(r chi.Router) {
		r.Get("/", h.preferences)
		r.Put("/theme/{theme}", h.setTheme)
		r.Post("/theme/toggle", h.toggleTheme)
	})
}

type sessionHandlers struct {
	state  *State
	loader Loader
}

type languageResponse struct {
	Language string `json:"language"`
	Version  string `json:"version"`
}

type preferencesResponse struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

// history handles GET /history
func (h *sessionHandlers) history(w http.ResponseWriter, _ *http.Request) {
	entries := h.state.History()
	if entries == nil {
		entries = []history.Entry{}
	}
	handlers.WriteJSON(w, http.StatusOK, entries)
}

// clearHistory handles DELETE /history
func (h *sessionHandlers) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.state.ClearHistory(); err != nil {
		observability.LoggerWithTrace(r.Context()).Error("clear history failed", zap.Error(err))
		handlers.WriteError(w, http.StatusInternalServerError, "history could not be cleared")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// activeLanguage handles GET /language
func (h *sessionHandlers) activeLanguage(w http.ResponseWriter, _ *http.Request) {
	b := h.state.Language()
	if b == nil {
		handlers.WriteError(w, http.StatusServiceUnavailable, "no language loaded")
		return
	}
	handlers.WriteJSON(w, http.StatusOK, languageResponse{Language: b.Lang(), Version: b.Version()})
}

// languageDocument handles GET /language/{lang}: the raw text tree, with the
// bundle version as ETag.
func (h *sessionHandlers) languageDocument(w http.ResponseWriter, r *http.Request) {
	b, err := h.loader.Load(r.Context(), chi.URLParam(r, "lang"))
	if err != nil {
		writeLanguageError(w, r, err)
		return
	}

	etag := `"` + b.Version() + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	handlers.WriteJSON(w, http.StatusOK, b.Tree())
}

// switchLanguage handles PUT /language/{lang}
func (h *sessionHandlers) switchLanguage(w http.ResponseWriter, r *http.Request) {
	if err := h.state.SwitchLanguage(r.Context(), chi.URLParam(r, "lang")); err != nil {
		writeLanguageError(w, r, err)
		return
	}
	h.activeLanguage(w, r)
}

func writeLanguageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, i18n.ErrUnknownLanguage) {
		handlers.WriteError(w, http.StatusNotFound, "unknown language")
		return
	}
	observability.LoggerWithTrace(r.Context()).Error("language load failed", zap.Error(err))
	handlers.WriteError(w, http.StatusInternalServerError, "language could not be loaded")
}

// preferences handles GET /preferences
func (h *sessionHandlers) preferences(w http.ResponseWriter, _ *http.Request) {
	resp := preferencesResponse{Theme: h.state.Theme()}
	if b := h.state.Language(); b != nil {
		resp.Language = b.Lang()
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// setTheme handles PUT /preferences/theme/{theme}
func (h *sessionHandlers) setTheme(w http.ResponseWriter, r *http.Request) {
	err := h.state.SetTheme(chi.URLParam(r, "theme"))
	if errors.Is(err, ErrUnknownTheme) {
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		observability.LoggerWithTrace(r.Context()).Warn("theme not saved", zap.Error(err))
	}
	h.preferences(w, r)
}

// toggleTheme handles POST /preferences/theme/toggle
func (h *sessionHandlers) toggleTheme(w http.ResponseWriter, r *http.Request) {
	if _, err := h.state.ToggleTheme(); err != nil {
		observability.LoggerWithTrace(r.Context()).Warn("theme not saved", zap.Error(err))
	}
	h.preferences(w, r)
}
