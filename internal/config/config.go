// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and the environment on top of New().
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strconv"

	"github.com/okian/gesture/internal/domain/action"
	"github.com/okian/gesture/internal/domain/landmark"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, receives a rotated copy of the log stream.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`
	LogMaxAgeDays int    `koanf:"log_max_age_days"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// Artifact locations.
	ModelPath   string `koanf:"model_path"`
	ScalerPath  string `koanf:"scaler_path"`
	EncoderPath string `koanf:"encoder_path"`

	// LandmarkCount is the number of (x, y) points per request. Zero derives
	// it from the scaler at startup.
	LandmarkCount int `koanf:"landmark_count"`

	// PredictionCacheSize bounds the LRU of recent predictions; 0 disables it.
	PredictionCacheSize int `koanf:"prediction_cache_size"`

	// Actions maps class indices (as decimal strings) to control commands.
	// Empty keeps the built-in table.
	Actions map[string]string `koanf:"actions"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogMaxSizeMB:        100,
		LogMaxBackups:       3,
		LogMaxAgeDays:       28,
		Addr:                ":8000",
		ModelPath:           "models/best_svc_model.json",
		ScalerPath:          "models/MMscale.json",
		EncoderPath:         "models/label_encoder.json",
		LandmarkCount:       landmark.DefaultCount,
		PredictionCacheSize: 4096,
	}
}

// Validate reports the first invalid field as ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ModelPath == "":
		return fmt.Errorf("%w: model_path must not be empty", ErrInvalidConfig)
	case c.ScalerPath == "":
		return fmt.Errorf("%w: scaler_path must not be empty", ErrInvalidConfig)
	case c.LandmarkCount < 0:
		return fmt.Errorf("%w: landmark_count must not be negative", ErrInvalidConfig)
	case c.PredictionCacheSize < 0:
		return fmt.Errorf("%w: prediction_cache_size must not be negative", ErrInvalidConfig)
	}
	_, err := c.ActionTable()
	return err
}

// ActionTable converts Actions to class indices, falling back to the
// built-in table when none is configured.
func (c *Config) ActionTable() (map[int]string, error) {
	if len(c.Actions) == 0 {
		return action.DefaultTable(), nil
	}
	table := make(map[int]string, len(c.Actions))
	for k, v := range c.Actions {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: action key %q is not a class index", ErrInvalidConfig, k)
		}
		if v == "" {
			return nil, fmt.Errorf("%w: action for class %d is empty", ErrInvalidConfig, idx)
		}
		table[idx] = v
	}
	return table, nil
}
