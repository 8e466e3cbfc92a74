package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-features/logging"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowSize    = 512
	DefaultWindowOverlap = 0
	DefaultStatistic     = "Mean"
	DefaultLagPolicy     = "strict"
	DefaultLogLevel      = "info"
)

// PipelineConfig is the configuration surface of a feature extraction run
type PipelineConfig struct {
	WindowSize       int             `yaml:"window_size" json:"window_size"`             // Samples per analysis window
	WindowOverlap    int             `yaml:"window_overlap" json:"window_overlap"`       // Percent overlap between windows, 0-99
	Features         []FeatureConfig `yaml:"features" json:"features"`                   // Selected feature kinds, in output order
	Statistics       []string        `yaml:"statistics" json:"statistics"`               // Cross-window statistics, e.g. "Mean", "Variance"
	FirstDerivative  bool            `yaml:"first_derivative" json:"first_derivative"`   // Also aggregate the first derivative of each kind
	SecondDerivative bool            `yaml:"second_derivative" json:"second_derivative"` // Also aggregate the second derivative of each kind
	LagPolicy        string          `yaml:"lag_policy" json:"lag_policy"`               // "strict" or "skip"
	Workers          int             `yaml:"workers" json:"workers"`                     // Rows processed concurrently
	LogLevel         string          `yaml:"log_level" json:"log_level"`
}

// FeatureConfig selects one feature kind by name and overrides its parameters
type FeatureConfig struct {
	Name       string             `yaml:"name" json:"name"`
	Parameters map[string]float64 `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Default returns the built-in configuration
func Default() *PipelineConfig {
	return &PipelineConfig{
		WindowSize:    DefaultWindowSize,
		WindowOverlap: DefaultWindowOverlap,
		Statistics:    []string{DefaultStatistic},
		LagPolicy:     DefaultLagPolicy,
		Workers:       1,
		LogLevel:      DefaultLogLevel,
	}
}

// LoadConfig reads a YAML file on top of the defaults. An empty path uses
// featurex.yaml in the working directory if it exists, otherwise the defaults.
// Environment overrides are applied afterwards and the result is validated.
func LoadConfig(path string) (*PipelineConfig, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("featurex.yaml"); err == nil {
			path = "featurex.yaml"
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values that do not need the feature catalog
func (c *PipelineConfig) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.WindowOverlap < 0 || c.WindowOverlap > 99 {
		return fmt.Errorf("window_overlap must lie in 0-99, got %d", c.WindowOverlap)
	}
	if len(c.Statistics) == 0 {
		return fmt.Errorf("at least one statistic must be selected")
	}
	switch strings.ToLower(c.LagPolicy) {
	case "", "strict", "skip":
	default:
		return fmt.Errorf("lag_policy must be strict or skip, got %q", c.LagPolicy)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	for i, f := range c.Features {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("features[%d] has no name", i)
		}
	}
	return nil
}

// applyEnvOverrides applies FEATUREX_* environment variables
func (c *PipelineConfig) applyEnvOverrides() {
	logger := logging.WithFields(logging.Fields{
		"component": "config",
		"function":  "applyEnvOverrides",
	})

	// FEATUREX_WINDOW_SIZE
	if val, ok := os.LookupEnv("FEATUREX_WINDOW_SIZE"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.WindowSize = n
			logger.Debug("Overriding window_size from env", logging.Fields{"value": n})
		}
	}
	// FEATUREX_WINDOW_OVERLAP
	if val, ok := os.LookupEnv("FEATUREX_WINDOW_OVERLAP"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.WindowOverlap = n
			logger.Debug("Overriding window_overlap from env", logging.Fields{"value": n})
		}
	}
	// FEATUREX_WORKERS
	if val, ok := os.LookupEnv("FEATUREX_WORKERS"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.Workers = n
			logger.Debug("Overriding workers from env", logging.Fields{"value": n})
		}
	}
	// FEATUREX_LAG_POLICY
	if val, ok := os.LookupEnv("FEATUREX_LAG_POLICY"); ok {
		c.LagPolicy = val
		logger.Debug("Overriding lag_policy from env", logging.Fields{"value": val})
	}
	// FEATUREX_LOG_LEVEL
	if val, ok := os.LookupEnv("FEATUREX_LOG_LEVEL"); ok {
		c.LogLevel = val
		logger.Debug("Overriding log_level from env", logging.Fields{"value": val})
	}
}
