package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/snowbotix/snowlog"
	"github.com/snowbotix/snowlog/configs"
)

// defaultConfigName is looked up in the working directory when no
// --config flag is given.
const defaultConfigName = "robotd.yaml"

// Config holds the daemon configuration.
type Config struct {
	Listen                string    `yaml:"listen"`
	StatusIntervalSeconds int       `yaml:"status_interval_seconds"`
	Log                   LogConfig `yaml:"log"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxBytes   int64  `yaml:"max_bytes"`
	MaxFiles   int    `yaml:"max_files"`
	Level      string `yaml:"level"`
	FlushLevel string `yaml:"flush_level"`
	NoColor    bool   `yaml:"no_color"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:                "0.0.0.0:8080",
		StatusIntervalSeconds: 30,
		Log: LogConfig{
			File:       "",
			MaxBytes:   10 * 1024 * 1024,
			MaxFiles:   5,
			Level:      "info",
			FlushLevel: "warning",
		},
	}
}

// LoadConfig loads the configuration, layering a YAML file over the
// defaults. An empty path means "use robotd.yaml if present"; a
// missing explicit path is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		candidate := filepath.Join(".", defaultConfigName)
		if _, err := os.Stat(candidate); err != nil {
			return cfg, nil
		}
		path = candidate
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.mergeWith(&parsed)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// mergeWith overlays non-zero values from other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Listen != "" {
		c.Listen = other.Listen
	}
	if other.StatusIntervalSeconds != 0 {
		c.StatusIntervalSeconds = other.StatusIntervalSeconds
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}
	if other.Log.MaxBytes != 0 {
		c.Log.MaxBytes = other.Log.MaxBytes
	}
	if other.Log.MaxFiles != 0 {
		c.Log.MaxFiles = other.Log.MaxFiles
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.FlushLevel != "" {
		c.Log.FlushLevel = other.Log.FlushLevel
	}
	if other.Log.NoColor {
		c.Log.NoColor = true
	}
}

// Validate checks the configuration for values the daemon cannot run
// with.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.StatusIntervalSeconds < 0 {
		return fmt.Errorf("status_interval_seconds must not be negative")
	}
	if c.Log.MaxBytes < 0 {
		return fmt.Errorf("log.max_bytes must not be negative")
	}
	if c.Log.MaxFiles < 0 {
		return fmt.Errorf("log.max_files must not be negative")
	}
	if _, err := snowlog.ParseSeverity(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := snowlog.ParseSeverity(c.Log.FlushLevel); err != nil {
		return fmt.Errorf("log.flush_level: %w", err)
	}
	return nil
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage robotd configuration",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

// newConfigInitCmd writes the example configuration template.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example robotd.yaml to the current directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := filepath.Join(".", defaultConfigName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.WriteFile(path, []byte(configs.RobotdConfigTemplate), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

// newConfigShowCmd prints the effective configuration.
func newConfigShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	return cmd
}
