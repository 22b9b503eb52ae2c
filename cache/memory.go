package cache

import "time"

// MemoryStore is an in-memory Store with the same envelope and expiry
// semantics as BadgerStore. It backs tests and throwaway runs where
// persistence across restarts is not wanted.
type MemoryStore struct {
	entries map[string][]byte
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory cache with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(key string, out any) (bool, error) {
	raw, ok := s.entries[SanitizeKey(key)]
	if !ok {
		return false, nil
	}
	expired, err := unseal(raw, out, s.now(), s.ttl)
	if err != nil || expired {
		delete(s.entries, SanitizeKey(key))
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Put(key string, v any) error {
	raw, err := seal(v, s.now())
	if err != nil {
		return err
	}
	s.entries[SanitizeKey(key)] = raw
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int { return len(s.entries) }
