// Package session holds the per-user generation state: the current
// filtered column set and how it was produced.
package session

import (
	"sync"
	"time"

	"github.com/okian/toto/internal/domain/filter"
	"github.com/okian/toto/internal/domain/model"
)

// Summary describes the generation that produced the current set.
type Summary struct {
	Selections  string         `json:"selections"`
	Constraints filter.Config  `json:"constraints"`
	Raw         int            `json:"raw"`
	Filtered    int            `json:"filtered"`
	Rejections  map[string]int `json:"rejections"`
	Cost        float64        `json:"cost"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Session owns one filtered column set. The set is replaced as a whole and
// never mutated in place, so slices handed out by Combinations stay valid
// and must be treated as read-only.
type Session struct {
	id        string
	createdAt time.Time

	mu         sync.RWMutex
	combos     []model.Combination
	summary    Summary
	generation uint64
	touchedAt  time.Time
}

// New creates an empty session.
func New(id string, now time.Time) *Session {
	return &Session{id: id, createdAt: now, touchedAt: now}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Replace installs a freshly filtered set.
func (s *Session) Replace(combos []model.Combination, summary Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.combos = combos
	s.summary = summary
	s.generation++
	s.touchedAt = summary.GeneratedAt
}

// Clear drops the current set. Scoring and export fail until the next
// generation.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.combos = nil
	s.summary = Summary{}
}

// Combinations returns the current set, or ErrEmptyFilteredSet when nothing
// has been generated, the set was cleared, or filtering left no column.
func (s *Session) Combinations() ([]model.Combination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.combos) == 0 {
		return nil, ErrEmptyFilteredSet
	}
	return s.combos, nil
}

// Summary returns the summary of the current set.
func (s *Session) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// Len returns the size of the current set.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.combos)
}

// Generation counts successful Replace calls.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Touch records activity for idle eviction.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = now
}

// TouchedAt returns the last activity time.
func (s *Session) TouchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.touchedAt
}
