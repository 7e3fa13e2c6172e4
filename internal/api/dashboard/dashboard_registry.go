package dashboard

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-hotel-concierge/internal/api/booking"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/concierge"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

// Registry hands out one Coordinator per session.
type Registry struct {
	coordinators    *cache.Cache
	directory       booking.Directory
	generators      concierge.Service
	maxHistoryTurns int
	logger          *slog.Logger
}

func NewRegistry(directory booking.Directory, generators concierge.Service, maxHistoryTurns int, ttl time.Duration, logger *slog.Logger) *Registry {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Registry{
		coordinators:    cache.New(ttl, 10*time.Minute),
		directory:       directory,
		generators:      generators,
		maxHistoryTurns: maxHistoryTurns,
		logger:          logger,
	}
}

// For returns the session's coordinator, creating it on first use.
func (r *Registry) For(session *types.UserSession) *Coordinator {
	key := session.ID.String()
	if v, ok := r.coordinators.Get(key); ok {
		return v.(*Coordinator)
	}
	c := NewCoordinator(session, r.directory, r.generators, r.maxHistoryTurns, r.logger)
	if err := r.coordinators.Add(key, c, cache.DefaultExpiration); err != nil {
		// Lost the race to another request for the same session.
		if v, ok := r.coordinators.Get(key); ok {
			return v.(*Coordinator)
		}
	}
	return c
}

// Forget drops the coordinator of an ended session.
func (r *Registry) Forget(id uuid.UUID) {
	r.coordinators.Delete(id.String())
}

func (r *Registry) Len() int {
	return r.coordinators.ItemCount()
}
