package task

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/kdeploy/internal/discovery"
	"github.com/giantswarm/kdeploy/internal/kubectl"
	"github.com/giantswarm/kdeploy/internal/kubectl/kubectltest"
	"github.com/giantswarm/kdeploy/internal/logging"
)

const globalTable = `NAME                SHORTNAMES   APIGROUP            NAMESPACED   KIND                VERBS
namespaces          ns                               false        Namespace           [create delete get list]
priorityclasses     pc           scheduling.k8s.io   false        PriorityClass       [create delete get list]
`

const namespacedTable = `NAME         SHORTNAMES   APIGROUP   NAMESPACED   KIND        VERBS
configmaps   cm                      true         ConfigMap   [create delete get list]
pods         po                      true         Pod         [create delete get list]
`

func newFake() *kubectltest.Fake {
	return kubectltest.NewFake().
		On(kubectltest.Response{Stdout: globalTable, Success: true}, "api-resources", "--namespaced=false").
		On(kubectltest.Response{Stdout: namespacedTable, Success: true}, "api-resources", "--namespaced=true").
		On(kubectltest.Response{Stdout: "v1\nscheduling.k8s.io/v1\n", Success: true}, "api-versions")
}

func TestGlobalKindsMemoized(t *testing.T) {
	fake := newFake()
	cfg := New("kind-test", "web", WithRunner(fake), WithLogger(logging.NewSlogAdapter(nil)))

	first := cfg.GlobalKinds(context.Background())
	second := cfg.GlobalKinds(context.Background())

	assert.Equal(t, []string{"Namespace", "PriorityClass"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.CallCount())
}

func TestNamespacedKindsMemoized(t *testing.T) {
	fake := newFake()
	cfg := New("kind-test", "web", WithRunner(fake))

	for i := 0; i < 3; i++ {
		assert.Equal(t, []string{"ConfigMap", "Pod"}, cfg.NamespacedKinds(context.Background()))
	}
	assert.Equal(t, 1, fake.CallCount())
}

func TestKindsMemoizedPerScope(t *testing.T) {
	fake := newFake()
	cfg := New("kind-test", "web", WithRunner(fake))

	cfg.GlobalKinds(context.Background())
	cfg.NamespacedKinds(context.Background())
	cfg.GlobalKinds(context.Background())
	cfg.NamespacedKinds(context.Background())

	assert.Equal(t, 2, fake.CallsTo("api-resources"))
}

func TestFailedDiscoverySnapshotIsKept(t *testing.T) {
	fake := kubectltest.NewFake()
	cfg := New("kind-test", "web", WithRunner(fake), WithCatalogOptions(discovery.WithAttempts(1)))

	assert.Empty(t, cfg.GlobalKinds(context.Background()))

	fake.On(kubectltest.Response{Stdout: globalTable, Success: true}, "api-resources", "--namespaced=false")
	assert.Empty(t, cfg.GlobalKinds(context.Background()))
	assert.Equal(t, 1, fake.CallCount())
}

func TestGlobalKindsConcurrentReads(t *testing.T) {
	fake := newFake()
	cfg := New("kind-test", "web", WithRunner(fake))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg.GlobalKinds(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fake.CallCount())
}

func TestCatalogCreatedOnce(t *testing.T) {
	cfg := New("kind-test", "web", WithRunner(newFake()))

	assert.Same(t, cfg.Catalog(), cfg.Catalog())
	assert.Same(t, cfg.WhitelistBuilder(), cfg.WhitelistBuilder())
}

func TestNewDefaults(t *testing.T) {
	cfg := New("kind-test", "web")

	assert.Equal(t, "kind-test", cfg.Context())
	assert.Equal(t, "web", cfg.Namespace())
	require.NotNil(t, cfg.Logger())
	assert.IsType(t, &logging.SlogAdapter{}, cfg.Logger())
	assert.IsType(t, &kubectl.Exec{}, cfg.Runner())
	assert.False(t, cfg.catalog.IsSet())
}

func TestWhitelistBuilderUsesBlacklist(t *testing.T) {
	fake := newFake()
	cfg := New("kind-test", "web", WithRunner(fake), WithBlacklist(discovery.NewBlacklist("priority")))

	ids := cfg.WhitelistBuilder().PrunableResources(context.Background(), false)

	assert.Equal(t, []discovery.PrunableResourceID{"core/v1/Namespace"}, ids)
}

func TestWhitelistAndKindsShareOneSnapshot(t *testing.T) {
	fake := newFake()
	cfg := New("kind-test", "web", WithRunner(fake))
	ctx := context.Background()

	first := cfg.WhitelistBuilder().PrunableResources(ctx, true)
	kinds := cfg.NamespacedKinds(ctx)
	second := cfg.WhitelistBuilder().PrunableResources(ctx, true)

	assert.Equal(t, []discovery.PrunableResourceID{"core/v1/ConfigMap", "core/v1/Pod"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"ConfigMap", "Pod"}, kinds)
	assert.Equal(t, 1, fake.CallsTo("api-resources"))
	assert.Equal(t, 1, fake.CallsTo("api-versions"))
}

func TestKindListsAreCopies(t *testing.T) {
	cfg := New("kind-test", "web", WithRunner(newFake()))
	ctx := context.Background()

	kinds := cfg.NamespacedKinds(ctx)
	kinds[0] = "Mutated"
	_ = append(kinds[:1], "Appended")

	assert.Equal(t, []string{"ConfigMap", "Pod"}, cfg.NamespacedKinds(ctx))
}
