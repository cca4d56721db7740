// Package geocache holds the persistent geocode cache: an exact-match map
// from query string to resolved coordinate. The cache is authoritative for
// the lifetime of a run: entries never expire and cached queries are never
// re-sent to the network. Staleness is an accepted tradeoff.
package geocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lebrazwesh/roadbook/internal/domain"
)

// Store is a thread-safe query→coordinate cache backed by a JSON file. The
// file format (query string → {lat, lon}) matches the cache files written by
// earlier versions of the booking application, so existing caches keep
// working.
type Store struct {
	mu      sync.RWMutex
	entries map[string]domain.Geo
	path    string
}

// Load reads the cache file at path. A missing file yields an empty store;
// any other read or decode failure is an error.
func Load(path string) (*Store, error) {
	s := &Store{
		entries: make(map[string]domain.Geo),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read geocode cache: %w", err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("decode geocode cache %s: %w", path, err)
	}
	return s, nil
}

// Get looks up a query by exact string match.
func (s *Store) Get(query string) (domain.Geo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.entries[query]
	return loc, ok
}

// Put stores a resolution under its literal query string. Concurrent batches
// may upsert the same key; the value is equivalent either way.
func (s *Store) Put(query string, loc domain.Geo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[query] = loc
}

// Len reports the number of cached queries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a copy of the full mapping.
func (s *Store) Snapshot() map[string]domain.Geo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Geo, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Save durably rewrites the whole mapping. The write goes to a temp file in
// the same directory followed by a rename, so a crash mid-save cannot
// truncate an existing cache.
func (s *Store) Save() error {
	snapshot := s.Snapshot()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode geocode cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "geocode_cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write geocode cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace geocode cache: %w", err)
	}
	return nil
}
