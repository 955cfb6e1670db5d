package settings

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use the PostgreSQL
// implementation.
type InMemoryRepository struct {
	mu      sync.RWMutex
	current *Settings
}

// NewInMemoryRepository creates a new in-memory settings repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Get retrieves the stored profile.
func (r *InMemoryRepository) Get(_ context.Context) (*Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return nil, ErrSettingsNotFound
	}
	return copySettings(r.current), nil
}

// Save creates or replaces the stored profile.
func (r *InMemoryRepository) Save(_ context.Context, s *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = copySettings(s)
	return nil
}

func copySettings(s *Settings) *Settings {
	if s == nil {
		return nil
	}
	settingsCopy := *s
	if s.Location != nil {
		loc := *s.Location
		settingsCopy.Location = &loc
	}
	return &settingsCopy
}
