// Package preference persists the key/value preferences of each browser
// profile.
package preference

import (
	"context"
	"errors"
)

// ErrEmptyProfile is returned when a call names no profile.
var ErrEmptyProfile = errors.New("preference: empty profile id")

// Store persists preference values per browser profile.
// Missing keys are not errors; Get reports them with ok=false.
type Store interface {
	Load(ctx context.Context, profileID string) (map[string]string, error)
	Get(ctx context.Context, profileID, key string) (string, bool, error)
	Set(ctx context.Context, profileID, key, value string) error
	Remove(ctx context.Context, profileID, key string) error
	Clear(ctx context.Context, profileID string) error
}

func checkProfile(profileID string) error {
	if profileID == "" {
		return ErrEmptyProfile
	}
	return nil
}
