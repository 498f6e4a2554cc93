package session

import (
	"context"
	"sync"
	"time"

	"betbingo-backend/internal/models"
)

// Registry holds one SessionCoordinator per user for the multi-user API
// surface. Each coordinator is its own mutual-exclusion domain; the
// registry lock only guards the map.
type Registry struct {
	mu       sync.Mutex
	identity Identity
	notifier Notifier
	store    Store
	sessions map[string]*SessionCoordinator
}

func NewRegistry(identity Identity, notifier Notifier, store Store) *Registry {
	return &Registry{
		identity: identity,
		notifier: notifier,
		store:    store,
		sessions: make(map[string]*SessionCoordinator),
	}
}

// Login resolves credentials and adopts the profile on the user's
// coordinator, creating it on first sight.
func (r *Registry) Login(ctx context.Context, email, password string) (*SessionCoordinator, *models.UserProfile, error) {
	profile, err := r.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	c := r.coordinator(profile.ID)
	c.HandleSessionChange(profile)
	return c, profile, nil
}

// Coordinator returns the live coordinator for a user, if any.
func (r *Registry) Coordinator(userID string) (*SessionCoordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[userID]
	return c, ok
}

// HandleSessionChange is the identity gateway's subscription target.
func (r *Registry) HandleSessionChange(userID string, profile *models.UserProfile) {
	if profile == nil {
		if c, ok := r.Coordinator(userID); ok {
			c.HandleSessionChange(nil)
		}
		return
	}
	r.coordinator(userID).HandleSessionChange(profile)
}

// SweepEntries expires stale pending tournament entries across all
// sessions and reports the total removed.
func (r *Registry) SweepEntries(maxAge time.Duration) int {
	r.mu.Lock()
	coordinators := make([]*SessionCoordinator, 0, len(r.sessions))
	for _, c := range r.sessions {
		coordinators = append(coordinators, c)
	}
	r.mu.Unlock()

	removed := 0
	for _, c := range coordinators {
		removed += c.SweepEntries(maxAge)
	}
	return removed
}

func (r *Registry) coordinator(userID string) *SessionCoordinator {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.sessions[userID]
	if !ok {
		c = NewSessionCoordinator(r.identity, r.notifier, r.store)
		r.sessions[userID] = c
	}
	return c
}
