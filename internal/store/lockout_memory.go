package store

import (
	"context"
	"sync"
	"time"
)

// memoryLockoutStore keeps lockout state in process memory. It is used when
// no Redis URL is configured.
type memoryLockoutStore struct {
	mu     sync.Mutex
	states map[string]LockoutState
}

// NewMemoryLockoutStore returns an empty in-process lockout store.
func NewMemoryLockoutStore() LockoutStore {
	return &memoryLockoutStore{states: make(map[string]LockoutState)}
}

func (s *memoryLockoutStore) Get(_ context.Context, key string) (LockoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[key], nil
}

func (s *memoryLockoutStore) RecordFailure(_ context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (LockoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.states[key]
	state.FailedCount++
	if state.FailedCount >= threshold {
		lockedUntil := now.Add(lockoutWindow).UTC()
		state.LockedUntil = &lockedUntil
	}
	s.states[key] = state
	return state, nil
}

func (s *memoryLockoutStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}
