// Package reconcile compares what an external source reports against the
// remote store and issues the creates and updates needed to bring the store
// into agreement. Each reconciler handles one entity kind and runs strictly
// sequentially; identity lookups go through a shared run-scoped resolver.
package reconcile

import (
	"github.com/openstatehouse/legisync/internal/resolver"
	"github.com/openstatehouse/legisync/pkg/remote"
	"github.com/openstatehouse/legisync/pkg/sources"
)

// deps bundles the collaborators every reconciler needs.
type deps struct {
	source   sources.Source
	store    remote.Store
	resolver *resolver.Resolver
}

func newDeps(source sources.Source, store remote.Store, res *resolver.Resolver) deps {
	return deps{source: source, store: store, resolver: res}
}
