// Package fetchcache stores raw upstream payloads on disk so repeated
// invocations within the TTL don't hit the platforms again. A cache hit
// must be indistinguishable from a live fetch, so adapters cache the
// payload they would otherwise have fetched, before normalization.
package fetchcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache is a per-program file cache with a time-to-live.
type Cache struct {
	dir string
	ttl time.Duration
}

// New creates a cache rooted at dir. The directory is created lazily on
// the first Put.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

func (c *Cache) path(programID string) string {
	return filepath.Join(c.dir, programID+".json")
}

// Get loads the cached payload for programID into v. It returns false
// on a miss, an expired entry, or a corrupt entry. Corrupt entries are
// deleted and logged; corruption is never surfaced as an error, the
// caller just falls through to a live fetch.
func (c *Cache) Get(programID string, v any) bool {
	path := c.path(programID)
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(fi.ModTime()) > c.ttl {
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Str("program_id", programID).Err(err).Msg("Discarding corrupt cache entry")
		os.Remove(path)
		return false
	}
	return true
}

// Put stores the payload for programID. Caching is best effort: on any
// failure the partial file is removed and the error is logged, never
// returned.
func (c *Cache) Put(programID string, v any) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		log.Warn().Str("program_id", programID).Err(err).Msg("Failed to create cache directory")
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Str("program_id", programID).Err(err).Msg("Failed to encode cache entry")
		return
	}
	path := c.path(programID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn().Str("program_id", programID).Err(err).Msg("Failed to write cache entry")
		os.Remove(path)
	}
}
