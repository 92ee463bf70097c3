package domain

import "context"

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// List returns the page of profiles matching q, newest first, and the
	// total number of matches.
	List(ctx context.Context, q ListQuery) ([]Profile, int64, error)
	// GetByID returns ErrProfileNotFound for unknown or malformed ids.
	GetByID(ctx context.Context, id string) (*Profile, error)
	// EmailExists compares against the stored (lowercase) email.
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create assigns ID and timestamps. A unique-index violation on email
	// is reported as ErrEmailTaken.
	Create(ctx context.Context, p *Profile) (*Profile, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*Profile, error)
	Delete(ctx context.Context, id string) error
	// WorkTypes returns the distinct work tags in ascending order.
	WorkTypes(ctx context.Context) ([]string, error)
}
