package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

// Store keeps sessions in memory for the lifetime of the process; they expire
// after ttl.
type Store struct {
	cache *cache.Cache
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Store{cache: cache.New(ttl, 10*time.Minute)}
}

func (s *Store) Put(session *types.UserSession) {
	s.cache.Set(session.ID.String(), session, cache.DefaultExpiration)
}

func (s *Store) Get(id uuid.UUID) (*types.UserSession, bool) {
	v, ok := s.cache.Get(id.String())
	if !ok {
		return nil, false
	}
	return v.(*types.UserSession), true
}

// OnEvicted registers a callback for expired or deleted sessions.
func (s *Store) OnEvicted(fn func(id uuid.UUID)) {
	s.cache.OnEvicted(func(key string, _ interface{}) {
		if id, err := uuid.Parse(key); err == nil {
			fn(id)
		}
	})
}
