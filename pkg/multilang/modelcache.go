package multilang

import (
	"fmt"
	"sync"

	"github.com/jeff-barlow-spady/ramble/pkg/logger"
)

// ModelCache is a process-wide, lifetime-managed singleton loader for
// acoustic models. It guarantees a given ModelSize is loaded at most once;
// concurrent first-touches block on the same load and all receive the
// resulting instance.
type ModelCache struct {
	mu      sync.Mutex
	loader  ModelLoader
	resolve func(ModelSize) (string, error)
	entries map[ModelSize]*cacheEntry
}

type cacheEntry struct {
	once  sync.Once
	model TranscribeModel
	err   error
}

// NewModelCache builds a ModelCache that resolves a ModelSize to an
// on-disk path via resolve and loads it via loader on first request.
func NewModelCache(loader ModelLoader, resolve func(ModelSize) (string, error)) *ModelCache {
	return &ModelCache{
		loader:  loader,
		resolve: resolve,
		entries: make(map[ModelSize]*cacheEntry),
	}
}

// Get returns the TranscribeModel for size, loading it if this is the
// first request for that size. Safe for concurrent use.
func (c *ModelCache) Get(size ModelSize) (TranscribeModel, error) {
	c.mu.Lock()
	entry, ok := c.entries[size]
	if !ok {
		entry = &cacheEntry{}
		c.entries[size] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		path, err := c.resolve(size)
		if err != nil {
			entry.err = ModelLoadError(string(size), err)
			return
		}
		logger.Info(logger.CategoryEngine, "loading model %s (first use)", size)
		model, err := c.loader(size, path)
		if err != nil {
			entry.err = ModelLoadError(string(size), err)
			return
		}
		entry.model = model
	})

	if entry.err != nil {
		return nil, entry.err
	}
	return entry.model, nil
}

// Preload loads every size in sizes up front, returning the first error
// encountered. MultilangTranscribe preloads both the detection and
// accurate models before opening the pipeline so the first segment does
// not stall on a cold load.
func (c *ModelCache) Preload(sizes ...ModelSize) error {
	seen := make(map[ModelSize]bool, len(sizes))
	for _, size := range sizes {
		if seen[size] {
			continue
		}
		seen[size] = true
		if _, err := c.Get(size); err != nil {
			return fmt.Errorf("preload %s: %w", size, err)
		}
	}
	return nil
}

// Close releases every loaded model. Intended for process shutdown or
// test teardown; MultilangTranscribe itself does not call it since the
// cache's documented lifetime is the process.
func (c *ModelCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for size, entry := range c.entries {
		if entry.model == nil {
			continue
		}
		if err := entry.model.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close model %s: %w", size, err)
		}
	}
	return firstErr
}
