package auth

import (
	"context"
	"sync"
	"time"
)

// JwtBlacklistStore records revoked tokens until they expire.
type JwtBlacklistStore interface {
	// IsBlacklisted checks if the given token is revoked.
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	// AddToBlacklist revokes token until exp.
	AddToBlacklist(ctx context.Context, token string, exp time.Time) error
}

// InMemoryBlacklistStore keeps revoked tokens in process memory.
type InMemoryBlacklistStore struct {
	blacklist map[string]time.Time
	mu        sync.RWMutex
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewInMemoryBlacklistStore creates a store and starts its cleanup loop.
func NewInMemoryBlacklistStore() *InMemoryBlacklistStore {
	store := &InMemoryBlacklistStore{
		blacklist: make(map[string]time.Time),
		stop:      make(chan struct{}),
	}
	go store.periodicallyCleanUp(5 * time.Minute)
	return store
}

func (s *InMemoryBlacklistStore) periodicallyCleanUp(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.CleanUpExpired()
		case <-s.stop:
			return
		}
	}
}

// Close stops the cleanup loop.
func (s *InMemoryBlacklistStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// CleanUpExpired drops entries whose expiry has passed.
func (s *InMemoryBlacklistStore) CleanUpExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, exp := range s.blacklist {
		if exp.Before(now) {
			delete(s.blacklist, token)
		}
	}
}

func (s *InMemoryBlacklistStore) IsBlacklisted(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.blacklist[token]
	return exists, nil
}

func (s *InMemoryBlacklistStore) AddToBlacklist(_ context.Context, token string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist[token] = exp
	return nil
}
