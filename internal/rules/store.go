package rules

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
)

// Store owns the process-wide rule table. The first EnsureLoaded call reads
// the source; later calls return the cached handle. Reload replaces the
// handle atomically, so readers never see a half-built table.
type Store struct {
	src     Source
	current atomic.Pointer[Table]
	mu      sync.Mutex
	loadFn  func(Source) (*Table, error)
}

// NewStore creates a store that has not loaded anything yet.
func NewStore(src Source) *Store {
	return &Store{src: src, loadFn: Load}
}

// NewStaticStore wraps an already built table. Used by tests and the CLI.
func NewStaticStore(t *Table) *Store {
	s := &Store{loadFn: func(Source) (*Table, error) { return t, nil }}
	s.current.Store(t)
	return s
}

// EnsureLoaded returns the loaded table, loading it on first use. A failed
// load is not cached; the next call tries again.
func (s *Store) EnsureLoaded() (*Table, error) {
	if t := s.current.Load(); t != nil {
		return t, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.current.Load(); t != nil {
		return t, nil
	}
	return s.loadLocked()
}

// Reload re-reads the source and swaps the table. On failure the previous
// table stays in place.
func (s *Store) Reload() (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Loaded reports whether a table is available without triggering a load.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}

// Table returns the loaded table, or Empty when loading fails. Lint never
// blocks on a broken rule source.
func (s *Store) Table() *Table {
	t, err := s.EnsureLoaded()
	if err != nil {
		return Empty()
	}
	return t
}

func (s *Store) loadLocked() (*Table, error) {
	t, err := s.loadFn(s.src)
	if err != nil {
		logger.Warn("Rule table load failed",
			zap.String("dir", s.src.Dir),
			zap.Error(err),
		)
		return nil, err
	}
	s.current.Store(t)
	stats := t.Stats()
	logger.Info("Rule table loaded",
		zap.String("source", t.Source),
		zap.Int("terms", stats["terms"]),
		zap.Int("words", stats["words"]),
		zap.String("title_punctuation", string(t.Style.TitlePunctuation)),
	)
	return t, nil
}
