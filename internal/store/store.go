package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketFrames = []byte("frames")
)

// frameEntry is the persisted form of a rendered badge
type frameEntry struct {
	Frame   string `json:"frame"`
	SavedAt int64  `json:"saved_at"`
}

// FrameStore implements domain.FrameCache using BoltDB.
type FrameStore struct {
	db     *bolt.DB
	maxAge time.Duration
	now    func() time.Time

	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string]frameEntry
}

// NewFrameStore opens the frame cache under dir. An empty dir gives a
// memory-only store. Entries older than maxAge (0 = forever) are misses.
func NewFrameStore(dir string, maxAge time.Duration) (*FrameStore, error) {
	s := &FrameStore{
		maxAge: maxAge,
		now:    time.Now,
		cache:  make(map[string]frameEntry),
	}
	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "frames.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFrames)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// FrameKey builds the cache key for a source rendered at a given size.
func FrameKey(src string, width, height int) string {
	return fmt.Sprintf("%dx%d:%s", width, height, src)
}

func (s *FrameStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetFrame returns a fresh cached frame.
func (s *FrameStore) GetFrame(key string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return entry.Frame, s.fresh(entry)
	}

	if s.db == nil {
		return "", false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFrames)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return "", false
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = entry
	s.mu.Unlock()

	return entry.Frame, s.fresh(entry)
}

func (s *FrameStore) fresh(e frameEntry) bool {
	if s.maxAge <= 0 {
		return true
	}
	return s.now().Sub(time.Unix(e.SavedAt, 0)) < s.maxAge
}

// SaveFrame stores a rendered frame.
func (s *FrameStore) SaveFrame(key, frame string) error {
	entry := frameEntry{Frame: frame, SavedAt: s.now().Unix()}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = entry
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFrames).Put([]byte(key), data)
	})
}

// DeletePrefix drops every frame whose key starts with prefix (e.g. one size).
func (s *FrameStore) DeletePrefix(prefix string) error {
	s.mu.Lock()
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFrames)
		c := b.Cursor()
		prefixBytes := []byte(prefix)

		// Collect first; deleting under a live cursor skips keys.
		var keys [][]byte
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear removes every cached frame.
func (s *FrameStore) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string]frameEntry)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketFrames); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketFrames)
		return err
	})
}

// Len returns the number of persisted frames (memory entries when memory-only).
func (s *FrameStore) Len() int {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.cache)
	}
	n := 0
	s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketFrames).Stats().KeyN
		return nil
	})
	return n
}
