package cart

import (
	"context"
	"sync"
	"time"

	"Storefront/internal/storage"
)

const DefaultNamespace = "storefront"

type sessionEntry struct {
	c        *Container
	lastUsed time.Time
}

// Sessions opens one Container per session id on first use and forgets
// containers that sit idle longer than the TTL. Every mutation is already
// persisted, so a forgotten session is rehydrated from storage on its next
// request.
type Sessions struct {
	store     storage.Store
	namespace string
	idleTTL   time.Duration
	opts      []Option
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

func NewSessions(store storage.Store, namespace string, idleTTL time.Duration, opts ...Option) *Sessions {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Sessions{
		store:     store,
		namespace: namespace,
		idleTTL:   idleTTL,
		opts:      opts,
		now:       time.Now,
		entries:   map[string]*sessionEntry{},
	}
}

func (s *Sessions) Get(ctx context.Context, sessionID string) *Container {
	s.mu.Lock()
	if e, ok := s.entries[sessionID]; ok {
		e.lastUsed = s.now()
		s.mu.Unlock()
		return e.c
	}
	s.mu.Unlock()

	c := Open(ctx, s.store, KeysFor(s.namespace, sessionID), s.opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[sessionID]; ok {
		e.lastUsed = s.now()
		return e.c
	}
	s.entries[sessionID] = &sessionEntry{c: c, lastUsed: s.now()}
	return c
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops containers idle for longer than the TTL and returns how many
// were dropped. A zero TTL disables eviction.
func (s *Sessions) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
