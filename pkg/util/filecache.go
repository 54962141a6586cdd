package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxCachedFiles bounds the number of files kept mapped at once.
// Validation passes read the same tree several times (architecture, tokens,
// naming), so keeping recently used files mapped avoids re-reading them.
const DefaultMaxCachedFiles = 1024

// FileCache provides read-only file access backed by memory-mapped files
// with LRU eviction. Evicted or closed entries are unmapped automatically.
//
// Safe for concurrent use.
type FileCache struct {
	cache  *lru.Cache[string, *mappedFile]
	logger *slog.Logger

	statsMu sync.Mutex
	stats   FileCacheStats
}

// FileCacheStats tracks cache behavior for observability.
type FileCacheStats struct {
	Hits         int64
	Misses       int64
	Evictions    int64
	MmapFailures int64
}

// mappedFile is one cached entry. Either data (mmap) or fallback (plain
// read) is set, never both.
type mappedFile struct {
	data     mmap.MMap
	file     *os.File
	fallback []byte
}

func (mf *mappedFile) bytes() []byte {
	if mf.data != nil {
		return mf.data
	}
	return mf.fallback
}

func (mf *mappedFile) release(logger *slog.Logger) {
	if mf.data != nil {
		if err := mf.data.Unmap(); err != nil {
			logger.Warn("unmap failed", "error", err)
		}
	}
	if mf.file != nil {
		if err := mf.file.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

// NewFileCache creates a cache holding at most maxFiles entries.
// maxFiles <= 0 uses DefaultMaxCachedFiles.
func NewFileCache(maxFiles int, logger *slog.Logger) (*FileCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxCachedFiles
	}

	fc := &FileCache{logger: logger}

	cache, err := lru.NewWithEvict(maxFiles, func(key string, value *mappedFile) {
		value.release(logger)
		fc.statsMu.Lock()
		fc.stats.Evictions++
		fc.statsMu.Unlock()
	})
	if err != nil {
		return nil, fmt.Errorf("create file cache: %w", err)
	}

	fc.cache = cache
	return fc, nil
}

// Get returns the contents of the file at path, loading and mapping it on
// first access. The returned slice is valid until the entry is evicted or
// the cache is closed; callers that retain content must copy it.
func (fc *FileCache) Get(path string) ([]byte, error) {
	if mf, ok := fc.cache.Get(path); ok {
		fc.recordHit()
		return mf.bytes(), nil
	}
	fc.recordMiss()

	mf, err := fc.load(path)
	if err != nil {
		return nil, err
	}
	fc.cache.Add(path, mf)
	return mf.bytes(), nil
}

// GetString is Get returning the contents as a string (copied, safe to keep).
func (fc *FileCache) GetString(path string) (string, error) {
	b, err := fc.Get(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// load opens and maps a file, falling back to os.ReadFile when mmap fails.
func (fc *FileCache) load(path string) (*mappedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}

	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		return &mappedFile{fallback: []byte{}}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using plain read", "file", path, "error", err)
		file.Close()

		fc.statsMu.Lock()
		fc.stats.MmapFailures++
		fc.statsMu.Unlock()

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %q after mmap failure: %w", path, readErr)
		}
		return &mappedFile{fallback: raw}, nil
	}

	return &mappedFile{data: data, file: file}, nil
}

// Len returns the number of currently cached files.
func (fc *FileCache) Len() int {
	return fc.cache.Len()
}

// Stats returns a snapshot of cache metrics.
func (fc *FileCache) Stats() FileCacheStats {
	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	return fc.stats
}

// Close unmaps and drops all cached entries. The cache is unusable after
// Close.
func (fc *FileCache) Close() error {
	fc.cache.Purge()
	return nil
}

func (fc *FileCache) recordHit() {
	fc.statsMu.Lock()
	fc.stats.Hits++
	fc.statsMu.Unlock()
}

func (fc *FileCache) recordMiss() {
	fc.statsMu.Lock()
	fc.stats.Misses++
	fc.statsMu.Unlock()
}
