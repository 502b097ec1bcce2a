package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/printers"

	"github.com/giantswarm/kdeploy/internal/discovery"
)

// withRuntime runs fn with a signal-aware context and a started runtime,
// and tears the runtime down afterwards.
func withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *runtime) error) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	return fn(ctx, rt)
}

func newDiscoverCmd() *cobra.Command {
	var global, wide bool

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List the resource kinds served by the cluster",
		Long: `Lists the namespaced resource kinds the cluster serves, or the cluster-scoped
kinds with --global. An unreachable cluster yields an empty list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
				cfg, err := rt.taskConfig(rt.cfg.Namespace)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if wide {
					filter := discovery.FilterNamespaced
					if global {
						filter = discovery.FilterGlobal
					}
					return printResources(out, cfg.Catalog().FetchResources(ctx, filter))
				}

				kinds := cfg.NamespacedKinds(ctx)
				if global {
					kinds = cfg.GlobalKinds(ctx)
				}
				for _, k := range kinds {
					_, _ = fmt.Fprintln(out, k)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "list cluster-scoped kinds instead of namespaced ones")
	cmd.Flags().BoolVar(&wide, "wide", false, "print group, version, scope and verbs")
	return cmd
}

func printResources(out io.Writer, resources []discovery.ResourceKindInfo) error {
	w := printers.GetNewTabWriter(out)
	_, _ = fmt.Fprintln(w, "KIND\tGROUP\tVERSION\tSCOPE\tVERBS")
	for _, r := range resources {
		group := r.APIGroup
		if group == "" {
			group = "core"
		}
		verbs := "*"
		if r.Verbs != nil {
			verbs = fmt.Sprint(r.Verbs)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Kind, group, r.APIVersion, r.Scope, verbs)
	}
	return w.Flush()
}

func newPruneWhitelistCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "prune-whitelist",
		Short: "Print the kinds a deploy would be allowed to prune",
		Long: `Prints one <group>/<version>/<Kind> identifier per line for every kind a deploy
may prune. Protected kinds never appear. An empty list means nothing would be
pruned.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
				cfg, err := rt.taskConfig(rt.cfg.Namespace)
				if err != nil {
					return err
				}
				for _, id := range cfg.WhitelistBuilder().PrunableResources(ctx, !global) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "build the whitelist for cluster-scoped kinds")
	return cmd
}
