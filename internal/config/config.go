package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "subclash.yaml"

// DefaultSubscriptionURL is used when neither the command line nor the config
// file names a subscription.
const DefaultSubscriptionURL = "https://example.com/api/v1/client/subscribe?token=changeme"

const (
	PluginPolicyDegrade = "degrade"
	PluginPolicyReject  = "reject"
)

type Config struct {
	Subscription SubscriptionConfig `yaml:"subscription"`
	Parse        ParseConfig        `yaml:"parse"`
	Render       RenderConfig       `yaml:"render"`
}

type SubscriptionConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	MaxBytes  int64         `yaml:"max_bytes"`
	Proxy     string        `yaml:"proxy"` // http://, https:// or socks5://
	Progress  bool          `yaml:"progress"`
}

type ParseConfig struct {
	Workers int `yaml:"workers"`
}

type RenderConfig struct {
	MalformedPlugin string `yaml:"malformed_plugin"` // degrade | reject
	All             bool   `yaml:"all"`
	Dedupe          bool   `yaml:"dedupe"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Subscription: SubscriptionConfig{
			URL:       DefaultSubscriptionURL,
			Timeout:   30 * time.Second,
			UserAgent: "subclash/1.0",
			MaxBytes:  5 * 1024 * 1024,
		},
		Parse: ParseConfig{
			Workers: 1,
		},
		Render: RenderConfig{
			MalformedPlugin: PluginPolicyDegrade,
		},
	}
}

// Load reads the YAML config at path on top of the defaults.
// An empty path means DefaultPath, which is allowed to be missing.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Subscription.Timeout <= 0 {
		return fmt.Errorf("subscription.timeout must be positive, got %s", c.Subscription.Timeout)
	}
	if c.Subscription.MaxBytes <= 0 {
		return fmt.Errorf("subscription.max_bytes must be positive, got %d", c.Subscription.MaxBytes)
	}
	if c.Parse.Workers < 1 {
		return fmt.Errorf("parse.workers must be at least 1, got %d", c.Parse.Workers)
	}
	switch c.Render.MalformedPlugin {
	case PluginPolicyDegrade, PluginPolicyReject:
	default:
		return fmt.Errorf("render.malformed_plugin must be %q or %q, got %q",
			PluginPolicyDegrade, PluginPolicyReject, c.Render.MalformedPlugin)
	}
	return nil
}

// SubscriptionURL picks the URI given on the command line, falling back to the
// configured default.
func (c *Config) SubscriptionURL(args []string) string {
	if len(args) == 1 && args[0] != "" {
		return args[0]
	}
	if c.Subscription.URL != "" {
		return c.Subscription.URL
	}
	return DefaultSubscriptionURL
}
