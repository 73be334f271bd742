// Package config provides configuration loading and management for filmthickness.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"filmthickness/internal/models"
)

// ErrInvalid is returned by Validate for unusable settings
var ErrInvalid = errors.New("invalid configuration")

// Config represents the application configuration loaded from YAML
type Config struct {
	// Detection parameters, applied uniformly to every dataset of a run
	Detection struct {
		// MinWavenumber and MaxWavenumber bound the analysis window in cm^-1
		MinWavenumber float64 `yaml:"minWavenumber"`
		MaxWavenumber float64 `yaml:"maxWavenumber"`

		// MinProminence and MaxProminence are the prominence floors for minima and maxima
		MinProminence float64 `yaml:"minProminence"`
		MaxProminence float64 `yaml:"maxProminence"`

		// MinDistance and MaxDistance are the minimum index separation between accepted extrema
		MinDistance int `yaml:"minDistance"`
		MaxDistance int `yaml:"maxDistance"`

		// MinHeightFactor and MaxHeightFactor offset the baseline reflectance to form height floors
		MinHeightFactor float64 `yaml:"minHeightFactor"`
		MaxHeightFactor float64 `yaml:"maxHeightFactor"`
	} `yaml:"detection"`

	// Processing parameters
	Processing struct {
		// Workers is the number of datasets analyzed concurrently
		Workers int `yaml:"workers"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Verbose enables debug diagnostics
		Verbose bool `yaml:"verbose"`

		// LogFormat is "console" or "json"
		LogFormat string `yaml:"logFormat"`

		// RunLog is the append-only run log; empty disables it
		RunLog string `yaml:"runLog"`

		// ExportFile receives all results as YAML; empty disables export
		ExportFile string `yaml:"exportFile"`

		// PlotDir receives one PNG per dataset; empty disables plotting
		PlotDir string `yaml:"plotDir"`

		PlotWidth  int `yaml:"plotWidth"`
		PlotHeight int `yaml:"plotHeight"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Detection.MinWavenumber = 1200
	cfg.Detection.MaxWavenumber = 4000
	cfg.Detection.MinProminence = 0.1
	cfg.Detection.MaxProminence = 0.1
	cfg.Detection.MinDistance = 200
	cfg.Detection.MaxDistance = 200
	cfg.Detection.MinHeightFactor = 0.9
	cfg.Detection.MaxHeightFactor = -1.5

	cfg.Processing.Workers = 1

	cfg.Output.Verbose = false
	cfg.Output.LogFormat = "console"
	cfg.Output.RunLog = "calc.log"
	cfg.Output.PlotWidth = 1400
	cfg.Output.PlotHeight = 800

	return cfg
}

// Window returns the configured analysis window
func (c *Config) Window() models.AnalysisWindow {
	return models.AnalysisWindow{Min: c.Detection.MinWavenumber, Max: c.Detection.MaxWavenumber}
}

// Validate checks the configuration for values the pipeline cannot work with
func (c *Config) Validate() error {
	if err := c.Window().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Detection.MinDistance < 1 || c.Detection.MaxDistance < 1 {
		return fmt.Errorf("%w: distances must be >= 1 (min %d, max %d)",
			ErrInvalid, c.Detection.MinDistance, c.Detection.MaxDistance)
	}
	if c.Detection.MinProminence < 0 || c.Detection.MaxProminence < 0 {
		return fmt.Errorf("%w: prominences must be non-negative", ErrInvalid)
	}
	if c.Processing.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalid, c.Processing.Workers)
	}
	switch c.Output.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Output.LogFormat)
	}
	if c.Output.PlotDir != "" && (c.Output.PlotWidth < 100 || c.Output.PlotHeight < 100) {
		return fmt.Errorf("%w: plot size %dx%d too small", ErrInvalid, c.Output.PlotWidth, c.Output.PlotHeight)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
