package bootstrap

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"gaut/internal/source"
)

// Increment when CacheEntry changes shape.
const stageCacheSchemaVersion uint16 = 1

// StageCache persists converged bootstrap reports keyed by the compiler
// source digest, so re-running the harness over unchanged source skips the
// native rebuild chain. Thread-safe for concurrent access.
type StageCache struct {
	mu  sync.RWMutex
	dir string
}

// CacheEntry is the serialized form of a converged report.
type CacheEntry struct {
	Schema       uint16
	StageDigests []source.Digest
	Converged    bool
}

// OpenStageCache initializes the cache at the standard location
// ($XDG_CACHE_HOME or ~/.cache, under the app subdirectory).
func OpenStageCache(app string) (*StageCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "bootstrap")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &StageCache{dir: dir}, nil
}

// OpenStageCacheAt initializes the cache at an explicit directory.
func OpenStageCacheAt(dir string) (*StageCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &StageCache{dir: dir}, nil
}

func (c *StageCache) pathFor(key source.Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes an entry.
func (c *StageCache) Put(key source.Digest, entry *CacheEntry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Schema = stageCacheSchemaVersion
	p := c.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads an entry; a missing key or stale schema reports not-found.
func (c *StageCache) Get(key source.Digest, out *CacheEntry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != stageCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *StageCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.dir)
}

func reportToEntry(report *Report) *CacheEntry {
	entry := &CacheEntry{Converged: report.Converged}
	for _, s := range report.Stages {
		entry.StageDigests = append(entry.StageDigests, s.Digest)
	}
	return entry
}

func entryToReport(digest source.Digest, entry *CacheEntry) *Report {
	report := &Report{SourceDigest: digest, Converged: entry.Converged}
	for i, d := range entry.StageDigests {
		matched := i == 0 || d == entry.StageDigests[i-1]
		report.Stages = append(report.Stages, StageResult{Stage: i, Digest: d, Matched: matched})
	}
	return report
}
