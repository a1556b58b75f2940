package config

import (
	"fmt"
	"time"
)

// Config represents a debfetch.yaml configuration file.
// All values are optional and act as defaults for debfetch flags.
// CLI flags always override config values.
type Config struct {
	Launchpad LaunchpadConfig `yaml:"launchpad"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Storage   StorageConfig   `yaml:"storage"`
	Adapter   AdapterConfig   `yaml:"adapter"`
}

// LaunchpadConfig holds archive directory defaults from the config file.
type LaunchpadConfig struct {
	Consumer     string `yaml:"consumer"`
	ServiceRoot  string `yaml:"service_root"`
	Version      string `yaml:"version"`
	Distribution string `yaml:"distribution"`
}

// DefaultsConfig holds request defaults from the config file.
type DefaultsConfig struct {
	Series           string `yaml:"series"`
	Arch             string `yaml:"arch"`
	WithDependencies *bool  `yaml:"with_dependencies,omitempty"`
	Depth            *int   `yaml:"depth,omitempty"`
}

// StorageConfig holds storage defaults from the config file.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig holds adapter defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Validate rejects values that cannot round-trip into a working run.
// Empty values are fine; they fall back to flag defaults downstream.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "", "fs", "s3":
	default:
		return fmt.Errorf("unknown storage backend %q (want fs or s3)", c.Storage.Backend)
	}
	switch c.Adapter.Type {
	case "", "webhook", "redis":
	default:
		return fmt.Errorf("unknown adapter type %q (want webhook or redis)", c.Adapter.Type)
	}
	if c.Defaults.Depth != nil && *c.Defaults.Depth < 0 {
		return fmt.Errorf("defaults.depth cannot be negative: %d", *c.Defaults.Depth)
	}
	return nil
}
