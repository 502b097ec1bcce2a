package discovery

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/kdeploy/internal/logging"
)

// verbDelete is the verb a kind must support to be pruned.
const verbDelete = "delete"

// Source supplies the discovery results a Builder works from. A Catalog
// issues one discovery call per request; callers that need a stable view
// across several reads pass a caching Source.
type Source interface {
	FetchResources(ctx context.Context, filter Filter) []ResourceKindInfo
	FetchAPIVersions(ctx context.Context) VersionTable
}

// Builder computes prune whitelists from a Catalog.
type Builder struct {
	catalog   *Catalog
	source    Source
	blacklist Blacklist
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithSource makes the builder read kind and version tables from s instead
// of querying the catalog directly.
func WithSource(s Source) BuilderOption {
	return func(b *Builder) {
		if s != nil {
			b.source = s
		}
	}
}

// NewBuilder creates a whitelist builder. Kinds matching blacklist are
// never emitted.
func NewBuilder(catalog *Catalog, blacklist Blacklist, opts ...BuilderOption) *Builder {
	b := &Builder{catalog: catalog, source: catalog, blacklist: blacklist}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PrunableResources returns the identifiers of every kind in the requested
// scope that may be pruned. The kind list and the version table are fetched
// concurrently. If either comes back empty the whitelist is empty.
//
// Output order follows the discovery output. Kinds served by several API
// groups are emitted once per group.
func (b *Builder) PrunableResources(ctx context.Context, namespaced bool) []PrunableResourceID {
	filter := FilterGlobal
	if namespaced {
		filter = FilterNamespaced
	}

	var (
		resources []ResourceKindInfo
		versions  VersionTable
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resources = b.source.FetchResources(gctx, filter)
		return nil
	})
	g.Go(func() error {
		versions = b.source.FetchAPIVersions(gctx)
		return nil
	})
	_ = g.Wait()

	if len(resources) == 0 || len(versions) == 0 {
		b.catalog.metrics.RecordPruneWhitelist(ctx, filter.String(), 0)
		return nil
	}

	ids := make([]PrunableResourceID, 0, len(resources))
	for _, r := range resources {
		if b.blacklist.Protects(r.Kind) {
			continue
		}
		if !r.Supports(verbDelete) {
			continue
		}
		v, ok := versions.Resolve(r.APIGroup, r.APIVersion)
		if !ok {
			b.catalog.logger.Debug("kind has no served group version, not pruning it",
				logging.Kind(r.Kind), "group", r.APIGroup)
			continue
		}
		ids = append(ids, NewPrunableResourceID(r.APIGroup, v, r.Kind))
	}

	b.catalog.metrics.RecordPruneWhitelist(ctx, filter.String(), len(ids))
	return ids
}
