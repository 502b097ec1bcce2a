package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/kdeploy/internal/deploy"
)

type deployFlags struct {
	filenames               []string
	selector                string
	noPrune                 bool
	dryRun                  bool
	allowProtectedNamespace bool
	verifyNamespace         bool
}

func newDeployCmd() *cobra.Command {
	var f deployFlags

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy manifests into a namespace",
		Long: `Applies the given manifests into one namespace and prunes namespaced resources
that are no longer declared. Cluster-scoped resources are not allowed here;
use 'kdeploy global-deploy' for those.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
				cfg, err := rt.taskConfig(rt.cfg.Namespace)
				if err != nil {
					return err
				}

				dt, err := deploy.NewDeployTask(cfg, deploy.DeployOptions{
					Paths:                   f.filenames,
					Selector:                f.selector,
					Prune:                   !f.noPrune,
					DryRun:                  f.dryRun,
					AllowProtectedNamespace: f.allowProtectedNamespace,
					ProtectedNamespaces:     rt.cfg.Deploy.ProtectedNamespaces,
				}, rt.deployOptions(rt.cfg.Namespace, f.verifyNamespace)...)
				if err != nil {
					return err
				}

				result, err := dt.Run(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), result.Output)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	fs.StringSliceVarP(&f.filenames, "filename", "f", nil, "manifest files or directories to apply")
	fs.StringVarP(&f.selector, "selector", "l", "", "label selector limiting what is applied and pruned")
	fs.BoolVar(&f.noPrune, "no-prune", false, "do not prune resources missing from the manifests")
	fs.BoolVar(&f.dryRun, "dry-run", false, "submit the apply as a server-side dry run")
	fs.BoolVar(&f.allowProtectedNamespace, "allow-protected-namespace", false, "allow deploying into a protected namespace; pruning stays disabled there")
	fs.BoolVar(&f.verifyNamespace, "verify-namespace", true, "check that the namespace exists before applying")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

func newGlobalDeployCmd() *cobra.Command {
	var f deployFlags

	cmd := &cobra.Command{
		Use:   "global-deploy",
		Short: "Deploy cluster-scoped manifests",
		Long: `Applies cluster-scoped manifests and prunes cluster-scoped resources that are no
longer declared. A selector is required so pruning only touches resources
owned by this deploy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
				cfg, err := rt.taskConfig("")
				if err != nil {
					return err
				}

				gt, err := deploy.NewGlobalDeployTask(cfg, deploy.GlobalDeployOptions{
					Paths:    f.filenames,
					Selector: f.selector,
					Prune:    !f.noPrune,
					DryRun:   f.dryRun,
				}, rt.deployOptions("", false)...)
				if err != nil {
					return err
				}

				result, err := gt.Run(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), result.Output)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	fs.StringSliceVarP(&f.filenames, "filename", "f", nil, "manifest files or directories to apply")
	fs.StringVarP(&f.selector, "selector", "l", "", "label selector identifying resources owned by this deploy")
	fs.BoolVar(&f.noPrune, "no-prune", false, "do not prune resources missing from the manifests")
	fs.BoolVar(&f.dryRun, "dry-run", false, "submit the apply as a server-side dry run")
	_ = cmd.MarkFlagRequired("filename")
	_ = cmd.MarkFlagRequired("selector")
	return cmd
}
