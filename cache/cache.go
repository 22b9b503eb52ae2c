// Package cache provides the expiring key-value cache that backs upstream
// listing and rent lookups. Entries carry their creation time and expire
// after a configurable TTL (30 days by default); expired entries are evicted
// lazily on read, there is no background sweep.
package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Store is the interface the pipeline caches through. Get reports a miss
// with (false, nil); corrupt or expired entries are misses, never errors.
// Put failures must not abort the caller's control flow.
type Store interface {
	Get(key string, out any) (bool, error)
	Put(key string, v any) error
	Close() error
}

// envelope wraps a cached payload with its creation timestamp.
type envelope struct {
	CachedAt time.Time       `json:"cached_at"`
	Data     json.RawMessage `json:"data"`
}

// SanitizeKey maps an arbitrary cache key onto a safe storage identifier.
// Alphanumerics pass through; every other byte (including '_' itself) is
// escaped as "_xx" hex, so distinct inputs never collide.
func SanitizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "_%02x", c)
	}
	return b.String()
}

func seal(v any, at time.Time) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cache: marshal payload: %w", err)
	}
	return json.Marshal(envelope{CachedAt: at, Data: data})
}

// unseal unpacks a stored envelope. A nil error with expired=true means the
// entry was readable but past its TTL.
func unseal(raw []byte, out any, now time.Time, ttl time.Duration) (expired bool, err error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, fmt.Errorf("cache: decode envelope: %w", err)
	}
	if now.After(env.CachedAt.Add(ttl)) {
		return true, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, fmt.Errorf("cache: decode payload: %w", err)
	}
	return false, nil
}
