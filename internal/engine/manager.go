package engine

import (
	"context"
	"sync"
)

// Manager hands out one Engine per user id, loading the snapshot on first
// access. Engines live for the lifetime of the process; explicit Reload is
// the refresh contract, there is no re-fetch on every request.
type Manager struct {
	repos Repos

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewManager(repos Repos) *Manager {
	return &Manager{
		repos:   repos,
		engines: make(map[string]*Engine),
	}
}

// ForUser returns the user's engine, creating and loading it on first use.
// If the initial load fails the engine is not retained, so a later request
// retries from scratch.
func (m *Manager) ForUser(ctx context.Context, userID string) (*Engine, error) {
	m.mu.Lock()
	eng, ok := m.engines[userID]
	m.mu.Unlock()
	if ok {
		return eng, nil
	}

	eng = New(m.repos, userID)
	if err := eng.Load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have won the race; prefer the retained engine.
	if existing, ok := m.engines[userID]; ok {
		return existing, nil
	}
	m.engines[userID] = eng
	return eng, nil
}

// Evict drops the user's engine, e.g. on sign-out.
func (m *Manager) Evict(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, userID)
}
