package preference

import (
	"context"
	"log/slog"

	"aula/internal/domain/profile"
)

// Bound is one profile's preferences for the length of a request. It reads a
// snapshot taken at Bind and writes through to the store, so the page sees
// its own writes immediately.
// A failed write is logged and kept in the snapshot.
type Bound struct {
	ctx       context.Context
	store     Store
	profileID string
	values    map[string]string
	writes    int
	failures  int
}

var _ profile.KeyValue = (*Bound)(nil)

// Bind loads the profile's snapshot.
// PRE: profileID is non-empty
// POST: on a load error the returned Bound starts empty and the error is
// returned alongside it
func Bind(ctx context.Context, store Store, profileID string) (*Bound, error) {
	b := &Bound{ctx: ctx, store: store, profileID: profileID, values: map[string]string{}}
	kv, err := store.Load(ctx, profileID)
	if err != nil {
		return b, err
	}
	if kv != nil {
		b.values = kv
	}
	return b, nil
}

// ProfileID returns the bound profile.
func (b *Bound) ProfileID() string { return b.profileID }

// Writes returns how many Set and Remove calls reached the store.
func (b *Bound) Writes() int { return b.writes }

// Failures returns how many writes the store rejected.
func (b *Bound) Failures() int { return b.failures }

// Get implements profile.KeyValue.
func (b *Bound) Get(key string) (string, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Set implements profile.KeyValue.
func (b *Bound) Set(key, value string) {
	b.values[key] = value
	b.writes++
	if err := b.store.Set(b.ctx, b.profileID, key, value); err != nil {
		b.failures++
		slog.Warn("pref_write_failed", "profile", b.profileID, "key", key, "error", err.Error())
	}
}

// Remove implements profile.KeyValue.
func (b *Bound) Remove(key string) {
	delete(b.values, key)
	b.writes++
	if err := b.store.Remove(b.ctx, b.profileID, key); err != nil {
		b.failures++
		slog.Warn("pref_write_failed", "profile", b.profileID, "key", key, "error", err.Error())
	}
}
