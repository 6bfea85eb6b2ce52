package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/toto/internal/domain/session"
	"github.com/okian/toto/pkg/metrics"
)

// Defaults for the in-memory store.
const (
	DefaultMaxSessions           = 1024
	defaultMetricsUpdateInterval = 5 * time.Second
)

// MemoryStore is an in-memory, bounded Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	maxSessions           int
	idleTTL               time.Duration
	metricsUpdateInterval time.Duration
	now                   func() time.Time
	newID                 func() string

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewMemoryStore constructs a store and starts its background sweeper.
// Call Close to stop it.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions:              make(map[string]*session.Session),
		maxSessions:           DefaultMaxSessions,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		now:                   time.Now,
		newID:                 uuid.NewString,
		stopChan:              make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateSessionsActive(0)
	s.startSweeper(ctx)

	return s
}

// Create implements Store.Create.
func (s *MemoryStore) Create(ctx context.Context) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case <-s.stopChan:
		return nil, ErrStoreClosed
	default:
	}

	now := s.now()
	sess := session.New(s.newID(), now)

	s.mu.Lock()
	if _, dup := s.sessions[sess.ID()]; dup {
		s.mu.Unlock()
		return nil, fmt.Errorf("session id %q already in use", sess.ID())
	}
	for len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}
	s.sessions[sess.ID()] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	metrics.RecordSessionCreated()
	metrics.UpdateSessionsActive(count)
	return sess, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, id string) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByType("session_not_found", "warning")
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.Touch(s.now())
	return sess, nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	metrics.UpdateSessionsActive(count)
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the background sweeper.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// evictOldestLocked drops the session with the oldest TouchedAt. Caller holds mu.
func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, sess := range s.sessions {
		at := sess.TouchedAt()
		if oldestID == "" || at.Before(oldestAt) {
			oldestID, oldestAt = id, at
		}
	}
	if oldestID == "" {
		return
	}
	delete(s.sessions, oldestID)
	metrics.RecordSessionEvicted()
}

// sweepIdle drops sessions idle for longer than idleTTL and returns how many.
func (s *MemoryStore) sweepIdle() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.TouchedAt().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	for i := 0; i < n; i++ {
		metrics.RecordSessionEvicted()
	}
	return n
}

// startSweeper starts a background goroutine that expires idle sessions and
// refreshes the active sessions gauge.
func (s *MemoryStore) startSweeper(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.sweepIdle()
				metrics.UpdateSessionsActive(s.Count(ctx))
			}
		}
	}()
}
