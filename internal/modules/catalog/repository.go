package catalog

import "context"

// Repository defines read access to the store profile.
type Repository interface {
	// GetProfile returns the persisted store profile, or ok=false when none
	// has been saved yet.
	GetProfile(ctx context.Context) (*StoreProfile, bool, error)
}
