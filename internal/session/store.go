package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lcgrants/internal/cache"
	"lcgrants/internal/dataset"
	"lcgrants/internal/filter"
)

// Store holds live sessions in an LRU cache. Sessions idle for longer than
// the TTL, or pushed out by newer ones, are dropped and start over with
// default filters.
type Store struct {
	sessions *cache.LRUCache[*Session]
	ds       *dataset.Dataset
	engine   *filter.Engine
	limits   *filter.Limits
}

// NewStore creates a store over the shared dataset.
func NewStore(ds *dataset.Dataset, engine *filter.Engine, maxSessions int, idleTTL time.Duration) *Store {
	onEvict := func(id string, _ *Session) {
		slog.Debug("Session evicted", "component", "session", "session_id", id)
	}
	return &Store{
		sessions: cache.NewLRUCache[*Session](maxSessions, idleTTL,
			cache.WithSlidingExpiry[*Session](),
			cache.WithEvictCallback(onEvict)),
		ds:     ds,
		engine: engine,
		limits: filter.NewLimits(ds, engine.Categories),
	}
}

// Get returns the live session with id.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return s.sessions.Get(id)
}

// Create starts a session with default filters.
func (s *Store) Create() *Session {
	sess := newSession(uuid.NewString(), s.ds, s.engine, s.limits)
	s.sessions.Set(sess.ID, sess)
	slog.Debug("Session created", "component", "session", "session_id", sess.ID)
	return sess
}

// GetOrCreate returns the session with id, or a new one when id is unknown
// or expired. created reports which.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.Create(), true
}

// Delete ends a session.
func (s *Store) Delete(id string) {
	s.sessions.Delete(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int { return s.sessions.Size() }

// Cleaner exposes the session cache to a cache.Manager.
func (s *Store) Cleaner() cache.Cleaner { return s.sessions }
