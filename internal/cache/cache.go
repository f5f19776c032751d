// Package cache stores the per-profile region catalog between runs so the
// interactive flow does not pay for a describe-regions round trip each time.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultTTL is how long a cached catalog stays fresh.
const DefaultTTL = 24 * time.Hour

type entry struct {
	Profile   string    `json:"profile"`
	Regions   []string  `json:"regions"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store is a directory of JSON entries keyed by profile hash.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewStore opens (creating if needed) the cache directory under the user's
// home. ttl <= 0 selects DefaultTTL.
func NewStore(ttl time.Duration) (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(home, ".inspex", "cache"), ttl)
}

// NewStoreAt opens a store rooted at an explicit directory.
func NewStoreAt(dir string, ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached regions for a profile if present and fresh.
func (s *Store) Get(profile string) ([]string, bool) {
	b, err := os.ReadFile(s.path(profile))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, false
	}
	if e.Profile != profile || len(e.Regions) == 0 {
		return nil, false
	}
	if s.now().Sub(e.FetchedAt) > s.ttl {
		return nil, false
	}
	return e.Regions, true
}

// Put records the regions for a profile. Failures are returned but callers
// treat the cache as best-effort.
func (s *Store) Put(profile string, regions []string) error {
	b, err := json.MarshalIndent(entry{Profile: profile, Regions: regions, FetchedAt: s.now()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(profile), b, 0o644)
}

func (s *Store) path(profile string) string {
	return filepath.Join(s.dir, fmt.Sprintf("regions-%016x.json", xxhash.Sum64String(profile)))
}
