package deploy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/kdeploy/internal/discovery"
	"github.com/giantswarm/kdeploy/internal/kubectl"
	"github.com/giantswarm/kdeploy/internal/kubectl/kubectltest"
)

func TestKubectlApplierArgs(t *testing.T) {
	tests := []struct {
		name string
		req  ApplyRequest
		want []string
	}{
		{
			name: "plain apply",
			req:  ApplyRequest{Paths: []string{"a.yaml"}, Namespace: "web"},
			want: []string{"apply", "-f", "a.yaml", "--namespace=web"},
		},
		{
			name: "prune without selector",
			req: ApplyRequest{
				Paths:          []string{"a.yaml", "b/"},
				Namespace:      "web",
				Prune:          true,
				PruneWhitelist: []discovery.PrunableResourceID{"core/v1/ConfigMap", "apps/v1/Deployment"},
			},
			want: []string{
				"apply", "-f", "a.yaml", "-f", "b/", "--namespace=web",
				"--prune", "--all",
				"--prune-allowlist=core/v1/ConfigMap", "--prune-allowlist=apps/v1/Deployment",
			},
		},
		{
			name: "global prune with selector and dry run",
			req: ApplyRequest{
				Paths:          []string{"cluster/"},
				Selector:       "app=x",
				Prune:          true,
				PruneWhitelist: []discovery.PrunableResourceID{"rbac.authorization.k8s.io/v1/ClusterRole"},
				DryRun:         true,
			},
			want: []string{
				"apply", "-f", "cluster/", "--selector=app=x",
				"--prune", "--prune-allowlist=rbac.authorization.k8s.io/v1/ClusterRole",
				"--dry-run=server",
			},
		},
	}

	applier := NewKubectlApplier(kubectltest.NewFake())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applier.Args(tt.req))
		})
	}
}

func TestKubectlApplierApply(t *testing.T) {
	fake := kubectltest.NewFake().
		On(kubectltest.Response{Stdout: "configmap/app configured\n", Success: true}, "apply", "-f", "a.yaml", "--namespace=web")
	applier := NewKubectlApplier(fake)

	out, err := applier.Apply(context.Background(), ApplyRequest{Paths: []string{"a.yaml"}, Namespace: "web"})
	require.NoError(t, err)
	assert.Equal(t, "configmap/app configured\n", out)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, kubectl.RunOptions{Attempts: 1}, calls[0].Opts)
}

func TestKubectlApplierApplyFailure(t *testing.T) {
	applier := NewKubectlApplier(kubectltest.NewFake())

	_, err := applier.Apply(context.Background(), ApplyRequest{Paths: []string{"a.yaml"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kubectl apply failed")
}
