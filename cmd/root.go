package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/giantswarm/kdeploy/internal/deploy"
)

// Exit codes.
const (
	exitFailure = 1
	// exitMisuse marks a deploy that was set up incorrectly and never
	// touched the cluster.
	exitMisuse = 2
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath      string
	kubeContext     string
	namespace       string
	kubeconfig      string
	transport       string
	logLevel        string
	logFormat       string
	metricsTextfile string
}

var flags globalFlags

// rootCmd represents the base command for the kdeploy application.
var rootCmd = &cobra.Command{
	Use:   "kdeploy",
	Short: "Deploy Kubernetes manifests with safe pruning",
	Long: `kdeploy applies Kubernetes manifests to a cluster and prunes resources that
are no longer declared. It discovers which kinds the cluster serves and builds
a prune whitelist that never includes protected kinds such as Namespace or
Node.

Namespaced deploys use 'kdeploy deploy'; cluster-scoped resources are deployed
with 'kdeploy global-deploy'.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	// Errors are printed by Execute so configuration errors can be shown
	// without their prefix.
	SilenceErrors: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kdeploy version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err for the person running kdeploy and returns the
// process exit code.
func reportError(w io.Writer, err error) int {
	if deploy.IsConfigurationError(err) {
		var cfgErr *deploy.ConfigurationError
		errors.As(err, &cfgErr)
		_, _ = fmt.Fprintf(w, "Error: %s\n", cfgErr.UserFacingError())
		return exitMisuse
	}
	_, _ = fmt.Fprintf(w, "Error: %s\n", err)
	return exitFailure
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is ./kdeploy.yaml or $HOME/.config/kdeploy/kdeploy.yaml)")
	pf.StringVar(&flags.kubeContext, "context", "", "kubeconfig context to deploy to")
	pf.StringVarP(&flags.namespace, "namespace", "n", "", "namespace to deploy to")
	pf.StringVar(&flags.kubeconfig, "kubeconfig", "", "path to the kubeconfig file")
	pf.StringVar(&flags.transport, "discovery-transport", "", "discovery transport: kubectl or api")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text or json")
	pf.StringVar(&flags.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newDiscoverCmd())
	rootCmd.AddCommand(newPruneWhitelistCmd())
	rootCmd.AddCommand(newDeployCmd())
	rootCmd.AddCommand(newGlobalDeployCmd())
}
