package settings

import "context"

// Repository defines the interface for settings persistence.
type Repository interface {
	// Get retrieves the stored profile.
	// Returns ErrSettingsNotFound when nothing has been saved yet.
	Get(ctx context.Context) (*Settings, error)

	// Save creates or replaces the stored profile.
	Save(ctx context.Context, s *Settings) error
}
