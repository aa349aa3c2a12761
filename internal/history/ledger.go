// Package history keeps the bounded list of recent calculations, newest
// first, and mirrors it into a key/value store after every change.
package history

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	// MaxEntries is the number of calculations kept.
	MaxEntries = 15
	// StorageKey is the store key holding the serialized list.
	StorageKey = "mathHistory"
)

// Entry is one past calculation as displayed.
type Entry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// Store is the persistence the ledger writes through.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// View is told about the full list after every change.
type View interface {
	RenderHistory(entries []Entry)
}

// Ledger is the in-memory history list. It is safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
	store   Store
	view    View
	logger  *zap.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithView registers the display collaborator.
func WithView(v View) Option {
	return func(l *Ledger) { l.view = v }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// NewLedger returns an empty ledger backed by store. A nil store keeps the
// history in memory only.
func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the list with the persisted one. Missing or unreadable data
// leaves the ledger empty; only store access failures are returned.
func (l *Ledger) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	if l.store == nil {
		l.renderLocked()
		return nil
	}

	raw, ok, err := l.store.Get(StorageKey)
	if err != nil {
		l.renderLocked()
		return fmt.Errorf("read history: %w", err)
	}
	if ok {
		var saved []Entry
		if err := json.Unmarshal([]byte(raw), &saved); err != nil {
			l.logger.Warn("discarding corrupt history", zap.Error(err))
		} else {
			if len(saved) > MaxEntries {
				saved = saved[:MaxEntries]
			}
			l.entries = saved
		}
	}
	l.renderLocked()
	return nil
}

// Push adds e as the newest entry and drops the oldest beyond MaxEntries.
// The in-memory list is updated even when saving fails.
func (l *Ledger) Push(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]Entry, 0, len(l.entries)+1)
	entries = append(entries, e)
	entries = append(entries, l.entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	l.entries = entries

	l.renderLocked()
	return l.saveLocked()
}

// Clear empties the list and deletes the persisted copy.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	l.renderLocked()
	if l.store == nil {
		return nil
	}
	if err := l.store.Remove(StorageKey); err != nil {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

// Entries returns a copy of the list, newest first.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Ledger) saveLocked() error {
	if l.store == nil {
		return nil
	}
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := l.store.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (l *Ledger) renderLocked() {
	if l.view != nil {
		l.view.RenderHistory(append([]Entry(nil), l.entries...))
	}
}
