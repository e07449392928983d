// Package registry maps source ids to their constructors.
// This package is separate from the source implementations to avoid circular dependencies.
package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/openstatehouse/legisync/internal/sources/feed"
	"github.com/openstatehouse/legisync/internal/sources/local"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/sources"
)

// Config carries the settings a source constructor may need.
type Config struct {
	// Path is the data directory of a local source
	Path string
	// URL is the base URL of a feed source
	URL string
	// APIKey authenticates against a feed
	APIKey string
}

// Factory builds a source from configuration.
type Factory func(ctx context.Context, cfg Config) (sources.Source, error)

var (
	mu       sync.RWMutex
	registry = map[sources.ID]Factory{
		sources.LocalID: func(_ context.Context, cfg Config) (sources.Source, error) {
			if cfg.Path == "" {
				return nil, errors.NewConfigError("source", "local source requires a path", nil)
			}
			return local.Open(cfg.Path)
		},
		sources.FeedID: func(ctx context.Context, cfg Config) (sources.Source, error) {
			if cfg.URL == "" {
				return nil, errors.NewConfigError("source", "feed source requires a URL", nil)
			}
			return feed.Open(ctx, cfg.URL, cfg.APIKey)
		},
	}
)

// Register adds or replaces the factory for id.
func Register(id sources.ID, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[id] = factory
}

// Get creates a NEW source instance for the given id.
func Get(ctx context.Context, id sources.ID, cfg Config) (sources.Source, error) {
	mu.RLock()
	factory, ok := registry[id]
	mu.RUnlock()
	if !ok {
		return nil, &errors.ValidationError{
			Field:   "source",
			Value:   id,
			Message: fmt.Sprintf("unsupported source: %s (registered: %v)", id, RegisteredIDs()),
		}
	}
	return factory(ctx, cfg)
}

// Has checks if a source id has a factory.
func Has(id sources.ID) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[id]
	return ok
}

// RegisteredIDs returns all source ids with a factory, sorted.
func RegisteredIDs() []sources.ID {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]sources.ID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
