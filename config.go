package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTotalDuration  = 3600.0 // seconds
	defaultSampleInterval = 5.0    // seconds
)

// Config is the run configuration, loadable from a YAML file and overridable
// by command-line flags.
type Config struct {
	DurationSeconds float64 `yaml:"duration_seconds"`
	IntervalSeconds float64 `yaml:"interval_seconds"`
	OutputDir       string  `yaml:"output_dir"`
	HardwareLabel   string  `yaml:"hardware_label"`
	Live            bool    `yaml:"live"`
}

func defaultRunConfig() *Config {
	return &Config{
		DurationSeconds: defaultTotalDuration,
		IntervalSeconds: defaultSampleInterval,
	}
}

// loadConfig reads a YAML config from path on top of the defaults. A missing
// file is not an error; running without one is the common case.
func loadConfig(path string) (*Config, error) {
	cfg := defaultRunConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.DurationSeconds <= 0 {
		cfg.DurationSeconds = defaultTotalDuration
	}
	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = defaultSampleInterval
	}

	return cfg, nil
}

// CollectorConfig converts the duration fields into the collector's bounds.
func (c *Config) CollectorConfig() CollectorConfig {
	return CollectorConfig{
		TotalDuration:  time.Duration(c.DurationSeconds * float64(time.Second)),
		SampleInterval: time.Duration(c.IntervalSeconds * float64(time.Second)),
	}
}
