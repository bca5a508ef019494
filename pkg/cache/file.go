package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/dotforge/pkg/errors"
)

// FileCache persists artifacts under a directory, one file per key. Entries
// carry their own expiry and are evicted lazily on read. This is the default
// backend for CLI invocations, where renders of the same DOT text tend to
// repeat across runs.
type FileCache struct {
	dir string
}

// NewFileCache opens (creating if needed) a file cache rooted at dir.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "create cache directory %s", dir)
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk form of one cached artifact. A zero ExpiresAt
// means the entry never expires.
type fileEntry struct {
	Payload   []byte    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the artifact stored under key. Expired or undecodable entries
// are removed and reported as a miss.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.entryPath(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeCache, err, "read cache entry")
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Payload, true, nil
}

// Set stores an artifact under key. A non-positive ttl stores it without
// expiration.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Payload: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "encode cache entry")
	}

	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "create cache shard")
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "write cache entry")
	}
	return nil
}

// Delete removes the artifact stored under key, if present.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.entryPath(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeCache, err, "delete cache entry")
	}
	return nil
}

// Close does nothing; the file cache holds no open resources.
func (c *FileCache) Close() error {
	return nil
}

// entryPath maps a key to its file, sharded by the first hash byte so large
// caches do not pile every entry into one directory.
func (c *FileCache) entryPath(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+".entry")
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
