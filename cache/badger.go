package cache

import (
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"rental-analyzer/utils"
)

// BadgerStore is the persistent cache backing. It survives process restarts
// within the TTL window, which is the whole point: upstream lookups are
// metered and a batch re-run should not repeat them.
type BadgerStore struct {
	db     *badger.DB
	ttl    time.Duration
	logger *utils.Logger

	// now is swapped in tests to backdate entries.
	now func() time.Time
}

// NewBadgerStore opens (or creates) the badger database at dir.
func NewBadgerStore(dir string, ttl time.Duration, logger *utils.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: open badger at %q: %w", dir, err)
	}
	return &BadgerStore{db: db, ttl: ttl, logger: logger, now: time.Now}, nil
}

// Get looks up key and decodes the cached payload into out. Expired and
// corrupt entries are deleted and reported as a miss. The only hard errors
// are storage-level read failures.
func (s *BadgerStore) Get(key string, out any) (bool, error) {
	storageKey := []byte(SanitizeKey(key))

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storageKey)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: read %q: %w", key, err)
	}

	expired, err := unseal(raw, out, s.now(), s.ttl)
	if err != nil {
		// Corrupt entry: treat as a miss and clean it up.
		s.logger.Warn("[cache] Dropping corrupt entry for %q: %v", key, err)
		s.delete(storageKey)
		return false, nil
	}
	if expired {
		s.logger.Debug("[cache] Entry for %q has expired", key)
		s.delete(storageKey)
		return false, nil
	}
	return true, nil
}

// Put stores v under key, stamped with the current time. An existing entry
// is overwritten wholesale.
func (s *BadgerStore) Put(key string, v any) error {
	raw, err := seal(v, s.now())
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(SanitizeKey(key)), raw)
	})
	if err != nil {
		return fmt.Errorf("cache: write %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying badger database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) delete(storageKey []byte) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(storageKey)
	})
	if err != nil {
		s.logger.Warn("[cache] Failed to evict entry: %v", err)
	}
}
