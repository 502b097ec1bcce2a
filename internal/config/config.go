package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. KDEPLOY_NAMESPACE or
// KDEPLOY_DISCOVERY_TRANSPORT.
const EnvPrefix = "KDEPLOY"

// Discovery transports.
const (
	TransportKubectl = "kubectl"
	TransportAPI     = "api"
)

type Kubectl struct {
	Path           string        `mapstructure:"path"`
	Kubeconfig     string        `mapstructure:"kubeconfig"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type Discovery struct {
	Transport string `mapstructure:"transport"`
	Attempts  int    `mapstructure:"attempts"`
}

type Prune struct {
	ProtectedKinds []string `mapstructure:"protected_kinds"`
}

type Deploy struct {
	ProtectedNamespaces []string `mapstructure:"protected_namespaces"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the kdeploy configuration file.
type Config struct {
	Context   string    `mapstructure:"context"`
	Namespace string    `mapstructure:"namespace"`
	Kubectl   Kubectl   `mapstructure:"kubectl"`
	Discovery Discovery `mapstructure:"discovery"`
	Prune     Prune     `mapstructure:"prune"`
	Deploy    Deploy    `mapstructure:"deploy"`
	Log       Log       `mapstructure:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Kubectl: Kubectl{
			Path:           "kubectl",
			RequestTimeout: 30 * time.Second,
		},
		Discovery: Discovery{
			Transport: TransportKubectl,
			Attempts:  5,
		},
		Prune: Prune{
			ProtectedKinds: []string{"Namespace", "Node"},
		},
		Deploy: Deploy{
			ProtectedNamespaces: []string{"default", "kube-system", "kube-public"},
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads the configuration from path. With an empty path, kdeploy.yaml
// is looked up in the working directory and $HOME/.config/kdeploy; a
// missing file there is not an error. Environment variables override file
// values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("kdeploy")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/kdeploy")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed by defaulting.
func (c *Config) Validate() error {
	switch c.Discovery.Transport {
	case TransportKubectl, TransportAPI:
	default:
		return fmt.Errorf("unknown discovery transport %q, expected %q or %q",
			c.Discovery.Transport, TransportKubectl, TransportAPI)
	}
	if c.Discovery.Attempts < 1 {
		return fmt.Errorf("discovery attempts must be at least 1, got %d", c.Discovery.Attempts)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("context", d.Context)
	v.SetDefault("namespace", d.Namespace)
	v.SetDefault("kubectl.path", d.Kubectl.Path)
	v.SetDefault("kubectl.kubeconfig", d.Kubectl.Kubeconfig)
	v.SetDefault("kubectl.request_timeout", d.Kubectl.RequestTimeout)
	v.SetDefault("discovery.transport", d.Discovery.Transport)
	v.SetDefault("discovery.attempts", d.Discovery.Attempts)
	v.SetDefault("prune.protected_kinds", d.Prune.ProtectedKinds)
	v.SetDefault("deploy.protected_namespaces", d.Deploy.ProtectedNamespaces)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
