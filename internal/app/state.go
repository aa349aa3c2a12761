// Package app owns the state of one calculator session: the active language,
// the theme preference and the calculation history. Every operation is
// serialized so handlers observe the same single-threaded model the page had.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"multicalc/internal/calculator"
	"multicalc/internal/history"
	"multicalc/internal/i18n"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Store keys.
const (
	LanguageKey = "preferredLanguage"
	ThemeKey    = "theme"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	fallbackLanguage = "en"
)

// ErrUnknownTheme is returned by SetTheme for anything but light or dark.
var ErrUnknownTheme = errors.New("unknown theme")

// Loader fetches a language bundle. *i18n.Loader implements it.
type Loader interface {
	Load(ctx context.Context, lang string) (*i18n.Bundle, error)
}

// State is the explicit replacement for the page's global variables.
type State struct {
	mu sync.Mutex

	store      history.Store
	loader     Loader
	ledger     *history.Ledger
	dispatcher *calculator.Dispatcher
	view       history.View
	logger     *zap.Logger

	defaultLang string
	bundle      *i18n.Bundle
	tag         language.Tag
	theme       string
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *State) { s.logger = l }
}

// WithDefaultLanguage sets the language used when none was saved.
func WithDefaultLanguage(lang string) Option {
	return func(s *State) { s.defaultLang = lang }
}

// WithHistoryView forwards every history change to v.
func WithHistoryView(v history.View) Option {
	return func(s *State) { s.view = v }
}

// New builds an idle state. Call Start before serving requests.
func New(store history.Store, loader Loader, catalog *calculator.Catalog, opts ...Option) *State {
	s := &State{
		store:       store,
		loader:      loader,
		logger:      zap.NewNop(),
		defaultLang: fallbackLanguage,
		tag:         language.English,
		theme:       ThemeLight,
	}
	for _, opt := range opts {
		opt(s)
	}
	ledgerOpts := []history.Option{history.WithLogger(s.logger)}
	if s.view != nil {
		ledgerOpts = append(ledgerOpts, history.WithView(s.view))
	}
	s.ledger = history.NewLedger(store, ledgerOpts...)
	s.dispatcher = calculator.NewDispatcher(catalog,
		calculator.WithHistory(s.ledger),
		calculator.WithLogger(s.logger),
	)
	return s
}

// Start restores the saved language, theme and history. The language is
// loaded first because history labels and messages depend on it. A
// language that cannot be loaded falls back to English; unreadable theme or
// history data falls back to defaults. Only a failure to load any language
// is returned.
func (s *State) Start(ctx context.Context) error {
	lang := s.defaultLang
	if saved, ok := s.getPref(LanguageKey); ok {
		lang = saved
	}
	if err := s.SwitchLanguage(ctx, lang); err != nil {
		s.logger.Warn("preferred language unavailable",
			zap.String("language", lang),
			zap.Error(err),
		)
		if lang == fallbackLanguage {
			return err
		}
		if err := s.SwitchLanguage(ctx, fallbackLanguage); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if theme, ok := s.getPref(ThemeKey); ok && (theme == ThemeLight || theme == ThemeDark) {
		s.theme = theme
	}
	if err := s.ledger.Load(); err != nil {
		s.logger.Warn("history unavailable", zap.Error(err))
	}
	return nil
}

func (s *State) getPref(key string) (string, bool) {
	if s.store == nil {
		return "", false
	}
	v, ok, err := s.store.Get(key)
	if err != nil {
		s.logger.Warn("preference unreadable", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok && v != ""
}

func (s *State) setPref(key, value string) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SwitchLanguage loads lang and makes it active. On failure the previous
// language stays active.
func (s *State) SwitchLanguage(ctx context.Context, lang string) error {
	bundle, err := s.loader.Load(ctx, lang)
	if err != nil {
		return fmt.Errorf("switch language: %w", err)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bundle = bundle
	s.tag = tag
	if err := s.setPref(LanguageKey, lang); err != nil {
		s.logger.Warn("language preference not saved", zap.Error(err))
	}
	s.logger.Info("language switched", zap.String("language", lang), zap.String("version", bundle.Version()))
	return nil
}

// Language returns the active bundle, nil before Start.
func (s *State) Language() *i18n.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bundle
}

// Localizer renders values in the active language.
func (s *State) Localizer() *calculator.Localizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localizerLocked()
}

func (s *State) localizerLocked() *calculator.Localizer {
	if s.bundle == nil {
		return calculator.NewLocalizer(s.tag, nil)
	}
	return calculator.NewLocalizer(s.tag, s.bundle)
}

// Calculate runs calculator id against src and sink.
func (s *State) Calculate(ctx context.Context, id string, src calculator.InputSource, sink calculator.OutputSink) calculator.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatcher.Dispatch(ctx, id, s.localizerLocked(), src, sink)
}

// ClearOutputs blanks the outputs of calculator id.
func (s *State) ClearOutputs(id string, sink calculator.OutputSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher.ClearOutputs(id, sink)
}

func (s *State) Catalog() *calculator.Catalog { return s.dispatcher.Catalog() }

// History returns the recent calculations, newest first.
func (s *State) History() []history.Entry {
	return s.ledger.Entries()
}

func (s *State) HistoryLen() int { return s.ledger.Len() }

// ClearHistory empties the history and its persisted copy.
func (s *State) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clear()
}

func (s *State) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme stores the theme preference.
func (s *State) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = theme
	return s.setPref(ThemeKey, theme)
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *State) ToggleTheme() (string, error) {
	next := ThemeDark
	if s.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(next)
}
