package task

import (
	"context"
	"slices"

	"github.com/giantswarm/kdeploy/internal/discovery"
	"github.com/giantswarm/kdeploy/internal/kubectl"
	"github.com/giantswarm/kdeploy/internal/logging"
)

// Config is the per-run context of one deploy: the target cluster context,
// the target namespace and the logger. It owns the run's discovery catalog
// and remembers the discovery results so each discovery command is issued at
// most once per run, whichever step reads them first.
//
// A Config must not be shared between deploy runs.
type Config struct {
	context   string
	namespace string
	logger    logging.Logger
	runner    kubectl.Runner
	blacklist discovery.Blacklist

	catalogOpts []discovery.CatalogOption

	catalog             once[*discovery.Catalog]
	builder             once[*discovery.Builder]
	allResources        once[[]discovery.ResourceKindInfo]
	globalResources     once[[]discovery.ResourceKindInfo]
	namespacedResources once[[]discovery.ResourceKindInfo]
	versions            once[discovery.VersionTable]
	globalKinds         once[[]string]
	namespacedKinds     once[[]string]
}

// Option configures a Config.
type Option func(*Config)

// WithLogger sets the logger. The default is logging.NewFormatted bound to
// the namespace and context.
func WithLogger(l logging.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRunner sets the transport used for discovery. The default is a
// kubectl.Exec bound to the context and namespace.
func WithRunner(r kubectl.Runner) Option {
	return func(c *Config) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithBlacklist replaces the protected kinds used for prune whitelists.
func WithBlacklist(b discovery.Blacklist) Option {
	return func(c *Config) {
		c.blacklist = b
	}
}

// WithCatalogOptions passes options through to the discovery catalog.
func WithCatalogOptions(opts ...discovery.CatalogOption) Option {
	return func(c *Config) {
		c.catalogOpts = append(c.catalogOpts, opts...)
	}
}

// New creates a Config for a deploy to namespace in the cluster context
// kubeContext. No cluster I/O happens until a kind list or whitelist is read.
func New(kubeContext, namespace string, opts ...Option) *Config {
	c := &Config{
		context:   kubeContext,
		namespace: namespace,
		blacklist: discovery.DefaultBlacklist(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewFormatted(namespace, kubeContext, nil)
	}
	if c.runner == nil {
		c.runner = kubectl.NewExec(kubectl.Options{
			Context:   kubeContext,
			Namespace: namespace,
			Logger:    c.logger,
		})
	}
	return c
}

// Context returns the cluster context name.
func (c *Config) Context() string { return c.context }

// Namespace returns the target namespace.
func (c *Config) Namespace() string { return c.namespace }

// Logger returns the run's logger.
func (c *Config) Logger() logging.Logger { return c.logger }

// Runner returns the discovery transport.
func (c *Config) Runner() kubectl.Runner { return c.runner }

// Catalog returns the run's discovery catalog, creating it on first use.
func (c *Config) Catalog() *discovery.Catalog {
	return c.catalog.Get(func() *discovery.Catalog {
		return discovery.NewCatalog(c.runner, c.logger, c.catalogOpts...)
	})
}

// WhitelistBuilder returns the prune whitelist builder. It reads the same
// discovery snapshot as GlobalKinds and NamespacedKinds.
func (c *Config) WhitelistBuilder() *discovery.Builder {
	return c.builder.Get(func() *discovery.Builder {
		return discovery.NewBuilder(c.Catalog(), c.blacklist, discovery.WithSource(snapshot{c}))
	})
}

// GlobalKinds returns the cluster-scoped kinds. The first read issues
// discovery; later reads return the same snapshot, even when discovery
// failed and the snapshot is empty.
func (c *Config) GlobalKinds(ctx context.Context) []string {
	return slices.Clone(c.globalKinds.Get(func() []string {
		return discovery.KindNames(c.resources(ctx, discovery.FilterGlobal))
	}))
}

// NamespacedKinds returns the namespaced kinds, with the same snapshot
// semantics as GlobalKinds.
func (c *Config) NamespacedKinds(ctx context.Context) []string {
	return slices.Clone(c.namespacedKinds.Get(func() []string {
		return discovery.KindNames(c.resources(ctx, discovery.FilterNamespaced))
	}))
}

func (c *Config) resources(ctx context.Context, filter discovery.Filter) []discovery.ResourceKindInfo {
	var slot *once[[]discovery.ResourceKindInfo]
	switch filter {
	case discovery.FilterGlobal:
		slot = &c.globalResources
	case discovery.FilterNamespaced:
		slot = &c.namespacedResources
	default:
		slot = &c.allResources
	}
	return slot.Get(func() []discovery.ResourceKindInfo {
		return c.Catalog().FetchResources(ctx, filter)
	})
}

func (c *Config) apiVersions(ctx context.Context) discovery.VersionTable {
	return c.versions.Get(func() discovery.VersionTable {
		return c.Catalog().FetchAPIVersions(ctx)
	})
}

// snapshot serves the builder from the Config's memoized discovery results.
type snapshot struct{ c *Config }

func (s snapshot) FetchResources(ctx context.Context, filter discovery.Filter) []discovery.ResourceKindInfo {
	return s.c.resources(ctx, filter)
}

func (s snapshot) FetchAPIVersions(ctx context.Context) discovery.VersionTable {
	return s.c.apiVersions(ctx)
}
