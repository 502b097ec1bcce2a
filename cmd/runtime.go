package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"k8s.io/client-go/kubernetes"

	"github.com/giantswarm/kdeploy/internal/config"
	"github.com/giantswarm/kdeploy/internal/deploy"
	"github.com/giantswarm/kdeploy/internal/discovery"
	"github.com/giantswarm/kdeploy/internal/instrumentation"
	"github.com/giantswarm/kdeploy/internal/k8s"
	"github.com/giantswarm/kdeploy/internal/kubectl"
	"github.com/giantswarm/kdeploy/internal/logging"
	"github.com/giantswarm/kdeploy/internal/task"
)

// runtime is the process-wide wiring of one command invocation.
type runtime struct {
	cfg      *config.Config
	logger   *logging.SlogAdapter
	provider *instrumentation.Provider
	textfile string
}

// newRuntime loads configuration, applies flag overrides and starts
// instrumentation.
func newRuntime(ctx context.Context, cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	if flags.metricsTextfile != "" {
		instrumentationConfig.Enabled = true
		instrumentationConfig.MetricsExporter = instrumentation.ExporterPrometheus
	}
	provider, err := instrumentation.NewProvider(ctx, instrumentationConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	if provider.Enabled() {
		logger.Debug("OpenTelemetry instrumentation enabled",
			"metrics", instrumentationConfig.MetricsExporter,
			"tracing", instrumentationConfig.TracingExporter)
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		textfile: flags.metricsTextfile,
	}, nil
}

// applyFlagOverrides copies explicitly set flags over file and env values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("context") {
		cfg.Context = flags.kubeContext
	}
	if fs.Changed("namespace") {
		cfg.Namespace = flags.namespace
	}
	if fs.Changed("kubeconfig") {
		cfg.Kubectl.Kubeconfig = flags.kubeconfig
	}
	if fs.Changed("discovery-transport") {
		cfg.Discovery.Transport = flags.transport
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
}

func newLogger(cfg *config.Config, w io.Writer) *logging.SlogAdapter {
	handler := logging.NewHandler(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level), w)
	logger := slog.New(handler).With(logging.Namespace(cfg.Namespace), logging.Cluster(cfg.Context))
	return logging.NewSlogAdapter(logger)
}

// runner builds the discovery transport selected by configuration.
func (r *runtime) runner() (kubectl.Runner, error) {
	if r.cfg.Discovery.Transport == config.TransportAPI {
		clientset, err := r.clientset()
		if err != nil {
			return nil, err
		}
		return k8s.NewDiscoveryRunner(clientset.Discovery(), r.logger), nil
	}
	return r.kubectl(r.cfg.Namespace), nil
}

func (r *runtime) kubectl(namespace string) *kubectl.Exec {
	return kubectl.NewExec(kubectl.Options{
		Path:           r.cfg.Kubectl.Path,
		Context:        r.cfg.Context,
		Namespace:      namespace,
		Kubeconfig:     r.cfg.Kubectl.Kubeconfig,
		RequestTimeout: r.cfg.Kubectl.RequestTimeout,
		Logger:         r.logger,
	})
}

func (r *runtime) clientset() (kubernetes.Interface, error) {
	return k8s.NewClientset(k8s.ClientConfig{
		KubeconfigPath: r.cfg.Kubectl.Kubeconfig,
		Context:        r.cfg.Context,
		Timeout:        r.cfg.Kubectl.RequestTimeout,
	})
}

// taskConfig creates the per-run context for namespace.
func (r *runtime) taskConfig(namespace string) (*task.Config, error) {
	runner, err := r.runner()
	if err != nil {
		return nil, err
	}
	return task.New(r.cfg.Context, namespace,
		task.WithLogger(r.logger),
		task.WithRunner(runner),
		task.WithBlacklist(discovery.NewBlacklist(r.cfg.Prune.ProtectedKinds...)),
		task.WithCatalogOptions(
			discovery.WithAttempts(r.cfg.Discovery.Attempts),
			discovery.WithMetrics(r.provider.Metrics()),
		),
	), nil
}

// deployOptions returns the options shared by both deploy entry points.
func (r *runtime) deployOptions(namespace string, verifyNamespace bool) []deploy.Option {
	opts := []deploy.Option{
		deploy.WithApplier(deploy.NewKubectlApplier(r.kubectl(""))),
		deploy.WithMetrics(r.provider.Metrics()),
	}
	if verifyNamespace {
		clientset, err := r.clientset()
		if err != nil {
			r.logger.Warn("cannot verify namespace, continuing without the check",
				logging.Namespace(namespace), logging.Err(err))
		} else {
			opts = append(opts, deploy.WithNamespaceChecker(k8s.NewNamespaceLookup(clientset)))
		}
	}
	return opts
}

// close writes the metrics textfile, if requested, and stops
// instrumentation.
func (r *runtime) close() {
	if r.textfile != "" {
		if err := r.provider.WriteTextfile(r.textfile); err != nil {
			r.logger.Warn("failed to write metrics textfile", "path", r.textfile, logging.Err(err))
		}
	}
	if err := r.provider.Shutdown(context.Background()); err != nil {
		r.logger.Warn("error during instrumentation shutdown", logging.Err(err))
	}
}
