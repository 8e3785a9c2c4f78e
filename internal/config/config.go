// Package config provides configuration management for the catalyze CLI
// using Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// Configuration lives in .catalyze.yml with CATALYZE_ environment variable
// overrides. It covers the rename prefix, the excluded namespace package,
// the source and destination directories, and the hash manifest location.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Transform TransformConfig `yaml:"transform"`
	Kit       KitConfig       `yaml:"kit"`
	Install   InstallConfig   `yaml:"install"`
	Log       LogConfig       `yaml:"log"`
}

type TransformConfig struct {
	// Prefix is prepended to renamed component exports.
	Prefix string `yaml:"prefix"`
	// ExcludedModule is the package whose exports are never renamed.
	ExcludedModule string `yaml:"excluded_module"`
	// ExcludedQualifier is the namespace-import name for that package.
	ExcludedQualifier string `yaml:"excluded_qualifier"`
	// GenericPropTypes are prop-type names renamed even without a Props
	// suffix.
	GenericPropTypes []string `yaml:"generic_prop_types"`
}

type KitConfig struct {
	// SourceDir holds the fetched upstream component files.
	SourceDir string `yaml:"source_dir"`
	// ManifestPath points at the release hash manifest.
	ManifestPath string `yaml:"manifest_path"`
	// Version is the expected upstream release version.
	Version string `yaml:"version"`
	// UpstreamURL is shown in verification remediation output.
	UpstreamURL string `yaml:"upstream_url"`
	// Extensions are the file extensions treated as kit files.
	Extensions []string `yaml:"extensions"`
}

type InstallConfig struct {
	// DestDir receives the transformed components.
	DestDir string `yaml:"dest_dir"`
	// Workers caps rewrite-phase parallelism; zero means NumCPU.
	Workers int `yaml:"workers"`
	// Backup moves existing destination files aside before overwriting.
	Backup bool `yaml:"backup"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load unmarshals the already-initialized viper state into a validated
// Config.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// slice handling workaround: Unmarshal misses slices set only via env
	if viper.IsSet("transform.generic_prop_types") && len(config.Transform.GenericPropTypes) == 0 {
		config.Transform.GenericPropTypes = viper.GetStringSlice("transform.generic_prop_types")
	}
	if viper.IsSet("kit.extensions") && len(config.Kit.Extensions) == 0 {
		config.Kit.Extensions = viper.GetStringSlice("kit.extensions")
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Transform.Prefix == "" {
		c.Transform.Prefix = "Catalyst"
	}
	if c.Transform.ExcludedModule == "" {
		c.Transform.ExcludedModule = "@headlessui/react"
	}
	if c.Transform.ExcludedQualifier == "" {
		c.Transform.ExcludedQualifier = "Headless"
	}
	if c.Kit.SourceDir == "" {
		c.Kit.SourceDir = "./vendor-kit"
	}
	if c.Kit.ManifestPath == "" {
		c.Kit.ManifestPath = "./vendor-kit/manifest.json"
	}
	if len(c.Kit.Extensions) == 0 {
		c.Kit.Extensions = []string{".tsx", ".ts", ".css"}
	}
	if c.Install.DestDir == "" {
		c.Install.DestDir = "./src/components"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Transform.Prefix) == "" {
		return fmt.Errorf("transform.prefix must not be empty")
	}
	first := c.Transform.Prefix[0]
	if first < 'A' || first > 'Z' {
		return fmt.Errorf("transform.prefix must start with an uppercase letter, got %q", c.Transform.Prefix)
	}
	for _, ext := range c.Kit.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("kit.extensions entries must start with a dot, got %q", ext)
		}
	}
	if c.Install.Workers < 0 {
		return fmt.Errorf("install.workers must not be negative, got %d", c.Install.Workers)
	}
	return nil
}
