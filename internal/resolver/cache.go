package resolver

import (
	"context"

	"github.com/openstatehouse/legisync/pkg/legislature"
	"github.com/openstatehouse/legisync/pkg/logging"
)

// cache memoizes remote lookups for one entity kind.
type cache[K comparable, T any] struct {
	kind    legislature.Kind
	entries map[K]*T
	lookup  func(context.Context, K) ([]T, error)
	label   func(K) string
}

func newCache[K comparable, T any](kind legislature.Kind, lookup func(context.Context, K) ([]T, error), label func(K) string) *cache[K, T] {
	return &cache[K, T]{
		kind:    kind,
		entries: make(map[K]*T),
		lookup:  lookup,
		label:   label,
	}
}

func (c *cache[K, T]) resolve(ctx context.Context, key K) (*T, error) {
	if v, ok := c.entries[key]; ok {
		return v, nil
	}

	found, err := c.lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	v, err := single(c.kind, c.label(key), found)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Str("kind", c.kind.String()).
		Str("external_id", c.label(key)).
		Msg("Resolved entity")

	c.entries[key] = v
	return v, nil
}

func (c *cache[K, T]) store(key K, v T) {
	c.entries[key] = &v
}

func (c *cache[K, T]) evict(key K) {
	delete(c.entries, key)
}

func (c *cache[K, T]) len() int {
	return len(c.entries)
}
