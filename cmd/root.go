// Package cmd provides the command-line interface for catalyze with
// configuration from multiple sources.
//
// Configuration precedence, highest first:
//  1. Command-line flags (--config, --prefix, etc.)
//  2. CATALYZE_CONFIG_FILE environment variable - custom config file path
//  3. Individual environment variables (CATALYZE_TRANSFORM_PREFIX, etc.)
//  4. Configuration file (.catalyze.yml)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uiforge/catalyze/internal/config"
	"github.com/uiforge/catalyze/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catalyze",
	Short: "Install a TSX component kit under your own prefix",
	Long: `Catalyze installs a third-party TSX component kit into a project by
verifying upstream file hashes and rewriting the sources so every component
lives under a project-owned prefix.

The transform renames exported components and their prop types, rewrites
JSX tags, type references, typeof expressions, and relative imports, and
never touches anything imported from the excluded namespace package.

Quick Start:
  catalyze verify                 Check kit files against the manifest
  catalyze install                Verify, transform, and write components
  catalyze install --dry-run      Show what would change without writing
  catalyze list                   List kit files and their rename targets
  catalyze watch                  Re-install whenever kit files change`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .catalyze.yml, can also use CATALYZE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig initializes viper from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("CATALYZE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".catalyze")
	}

	viper.SetEnvPrefix("CATALYZE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing config file is fine, defaults cover everything
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration, letting an optional
// positional directory argument override the kit source directory.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(args) > 0 {
		cfg.Kit.SourceDir = args[0]
	}
	return cfg, nil
}

// newLogger builds a logger from the loaded configuration.
func newLogger(cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	}), nil
}
