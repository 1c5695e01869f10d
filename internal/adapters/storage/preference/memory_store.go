package preference

import (
	"context"
	"sync"
)

// MemoryStore implements Store in process memory. Values are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]map[string]string)}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, profileID string) (map[string]string, error) {
	if err := checkProfile(profileID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.profiles[profileID]))
	for k, v := range s.profiles[profileID] {
		out[k] = v
	}
	return out, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, profileID, key string) (string, bool, error) {
	if err := checkProfile(profileID); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.profiles[profileID][key]
	return v, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, profileID, key, value string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, ok := s.profiles[profileID]
	if !ok {
		kv = make(map[string]string)
		s.profiles[profileID] = kv
	}
	kv[key] = value
	return nil
}

// Remove implements Store.
func (s *MemoryStore) Remove(ctx context.Context, profileID, key string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles[profileID], key)
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(ctx context.Context, profileID string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, profileID)
	return nil
}
