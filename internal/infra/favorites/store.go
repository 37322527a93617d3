// Package favorites persists the user's favorite tool set in a local
// bbolt database. Membership is keyed by tool name; values carry the
// toggle timestamp for debugging only.
package favorites

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "favorites"

var (
	ErrStoreClosed   = errors.New("favorites store is closed")
	ErrEmptyToolName = errors.New("tool name is required")
)

// Set is the favorites contract injected into consumers: a persistent
// set of tool names with toggle semantics.
type Set interface {
	Add(name string) error
	Remove(name string) error
	Toggle(name string) (bool, error)
	Has(name string) (bool, error)
	List() ([]string, error)
}

// Store implements Set on bbolt.
type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	closed bool
}

// Open opens (or creates) the favorites database at path.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("favorites path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure favorites dir: %w", err)
	}
	options := &bolt.Options{Timeout: time.Second}
	db, err := bolt.Open(trimmed, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("open favorites db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure favorites bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Add marks a tool as favorite. Adding an existing favorite is a no-op.
func (s *Store) Add(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyToolName
	}
	return s.update(func(bucket *bolt.Bucket) error {
		stamp := time.Now().UTC().Format(time.RFC3339Nano)
		return bucket.Put([]byte(name), []byte(stamp))
	})
}

// Remove unmarks a tool. Removing a non-favorite is a no-op.
func (s *Store) Remove(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyToolName
	}
	return s.update(func(bucket *bolt.Bucket) error {
		return bucket.Delete([]byte(name))
	})
}

// Toggle flips membership and returns the new state.
func (s *Store) Toggle(name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, ErrEmptyToolName
	}
	var nowFavorite bool
	err := s.update(func(bucket *bolt.Bucket) error {
		if bucket.Get([]byte(name)) != nil {
			nowFavorite = false
			return bucket.Delete([]byte(name))
		}
		nowFavorite = true
		stamp := time.Now().UTC().Format(time.RFC3339Nano)
		return bucket.Put([]byte(name), []byte(stamp))
	})
	return nowFavorite, err
}

// Has is a pure membership test.
func (s *Store) Has(name string) (bool, error) {
	var found bool
	err := s.view(func(bucket *bolt.Bucket) error {
		found = bucket.Get([]byte(name)) != nil
		return nil
	})
	return found, err
}

// List returns all favorite tool names, sorted.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.view(func(bucket *bolt.Bucket) error {
		return bucket.ForEach(func(key, _ []byte) error {
			names = append(names, string(key))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Snapshot returns the favorites as a membership predicate, read once.
func (s *Store) Snapshot() (func(string) bool, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	members := make(map[string]struct{}, len(names))
	for _, name := range names {
		members[name] = struct{}{}
	}
	return func(name string) bool {
		_, ok := members[name]
		return ok
	}, nil
}

func (s *Store) view(fn func(*bolt.Bucket) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return fmt.Errorf("missing favorites bucket")
		}
		return fn(bucket)
	})
}

func (s *Store) update(fn func(*bolt.Bucket) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return fmt.Errorf("missing favorites bucket")
		}
		return fn(bucket)
	})
}
