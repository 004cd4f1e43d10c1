package core

import (
	"cmp"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DiskCache is a file-based cache keyed by arbitrary strings, sharded by MD5.
// It is safe for concurrent use: writes are atomic renames, and readers tolerate missing files.
type DiskCache struct {
	Root    string
	TTL     time.Duration
	MaxSize int64
}

// Option configures the DiskCache.
type Option func(*DiskCache)

// WithTTL sets the time-to-live for cached items; zero means items never expire.
func WithTTL(ttl time.Duration) Option {
	return func(c *DiskCache) {
		c.TTL = ttl
	}
}

// WithMaxSize sets the maximum size of the cache in bytes; zero disables pruning.
func WithMaxSize(size int64) Option {
	return func(c *DiskCache) {
		c.MaxSize = size
	}
}

// NewDiskCache creates a new DiskCache rooted at the given directory.
func NewDiskCache(root string, opts ...Option) *DiskCache {
	c := &DiskCache{
		Root:    root,
		MaxSize: 64 * 1024 * 1024, // Default 64MB
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Find retrieves the cached bytes for key.
// Returns nil, nil for a cache miss (not an error), including expired items.
func (c *DiskCache) Find(key string) ([]byte, error) {
	cachePath := c.buildPath(key)

	info, err := os.Stat(cachePath)
	if os.IsNotExist(err) {
		return nil, nil // A cache miss is not an error.
	} else if err != nil {
		return nil, err
	}

	if c.TTL > 0 && time.Since(info.ModTime()) > c.TTL {
		_ = os.Remove(cachePath)
		return nil, nil
	}

	cached, err := os.ReadFile(cachePath)
	if os.IsNotExist(err) {
		return nil, nil // Pruned between Stat and ReadFile.
	} else if err != nil {
		return nil, fmt.Errorf("error reading cache: %w", err)
	}
	return cached, nil
}

// Write stores data in the cache for key.
func (c *DiskCache) Write(key string, data []byte) error {
	return WriteFileAtomic(c.buildPath(key), data)
}

// Delete removes the cached item for key. Deleting a missing item is an error.
func (c *DiskCache) Delete(key string) error {
	return os.Remove(c.buildPath(key))
}

// buildPath shards files using the first two characters of the MD5
// to prevent too many files in one directory.
func (c *DiskCache) buildPath(key string) string {
	md5 := MD5(key)
	return filepath.Join(c.Root, md5[:2], md5)
}

type pruningFile struct {
	path    string
	size    int64
	modTime time.Time
}

// Prune removes expired items, then the oldest items until the cache fits within MaxSize.
// Returns the number of files removed.
func (c *DiskCache) Prune() (int, error) {
	var files []pruningFile
	var totalSize int64
	removed := 0

	err := filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.Root && os.IsNotExist(err) {
				return fs.SkipAll // Nothing cached yet.
			}
			return nil // Skip unreadable entries without failing the whole prune.
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if c.TTL > 0 && time.Since(info.ModTime()) > c.TTL {
			if os.Remove(path) == nil {
				removed++
			}
			return nil
		}
		totalSize += info.Size()
		files = append(files, pruningFile{
			path:    path,
			size:    info.Size(),
			modTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("error walking cache dir: %w", err)
	}

	if c.MaxSize <= 0 || totalSize <= c.MaxSize {
		slog.Info("no need to prune",
			"root", filepath.Base(c.Root),
			"size", humanize.Bytes(uint64(totalSize)),
			"limit", humanize.Bytes(uint64(max(c.MaxSize, 0))),
			"ttl", c.TTL,
			"expired", removed,
		)
		return removed, nil
	}

	// Oldest first.
	slices.SortFunc(files, func(a, b pruningFile) int {
		return cmp.Compare(a.modTime.UnixNano(), b.modTime.UnixNano())
	})

	for _, f := range files {
		if totalSize <= c.MaxSize {
			break
		}
		if err := os.Remove(f.path); err == nil {
			totalSize -= f.size
			removed++
		}
	}

	slog.Info("pruned cache",
		"root", filepath.Base(c.Root),
		"removed", removed,
		"size", humanize.Bytes(uint64(totalSize)),
		"limit", humanize.Bytes(uint64(c.MaxSize)),
	)
	return removed, nil
}
