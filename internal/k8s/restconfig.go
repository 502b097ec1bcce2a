package k8s

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ClientConfig selects a kubeconfig and context and tunes the REST client.
type ClientConfig struct {
	// KubeconfigPath overrides $KUBECONFIG and the default loading rules.
	KubeconfigPath string
	// Context is the kubeconfig context. Empty means the current context.
	Context string

	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration
}

// NewRESTConfig loads a rest.Config for the configured context.
func NewRESTConfig(config ClientConfig) (*rest.Config, error) {
	if config.QPSLimit == 0 {
		config.QPSLimit = DefaultQPSLimit
	}
	if config.BurstLimit == 0 {
		config.BurstLimit = DefaultBurstLimit
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path := kubeconfigPath(config.KubeconfigPath); path != "" {
		loadingRules.ExplicitPath = path
	}

	contextConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{CurrentContext: config.Context},
	)

	restConfig, err := contextConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create rest config for context %q: %w", config.Context, err)
	}

	restConfig.QPS = config.QPSLimit
	restConfig.Burst = config.BurstLimit
	restConfig.Timeout = config.Timeout
	return restConfig, nil
}

// NewClientset creates a clientset for the configured context.
func NewClientset(config ClientConfig) (kubernetes.Interface, error) {
	restConfig, err := NewRESTConfig(config)
	if err != nil {
		return nil, err
	}
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}
	return clientset, nil
}

// kubeconfigPath returns explicit, falling back to $KUBECONFIG with a
// leading "~/" expanded.
func kubeconfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	kconf := os.Getenv("KUBECONFIG")
	if strings.HasPrefix(kconf, "~/") {
		uhd, _ := os.UserHomeDir()
		kconf = filepath.Join(uhd, kconf[2:])
	}
	return kconf
}
