// Package config provides configuration loading and management for volseg.
// It handles loading configuration from YAML files and provides default
// values matching the engine's built-in tool defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the engine configuration loaded from YAML.
type Config struct {
	// Raster dimensions for a fresh editing session.
	Raster struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		Depth  int `yaml:"depth"`
	} `yaml:"raster"`

	// Brush holds the brush/eraser defaults.
	Brush struct {
		// Size is the brush diameter in cells, 1-50.
		Size int `yaml:"size"`

		// Shape is "circle" or "square".
		Shape string `yaml:"shape"`
	} `yaml:"brush"`

	// Fill holds the flood fill defaults.
	Fill struct {
		// Connectivity is 4 or 8.
		Connectivity int `yaml:"connectivity"`

		// Tolerance is reserved for non-discrete sources.
		Tolerance float64 `yaml:"tolerance"`
	} `yaml:"fill"`

	// Freehand holds the freehand tool defaults.
	Freehand struct {
		SmoothingEnabled        bool    `yaml:"smoothingEnabled"`
		SmoothingWindow         int     `yaml:"smoothingWindow"`
		SimplificationEnabled   bool    `yaml:"simplificationEnabled"`
		SimplificationTolerance float64 `yaml:"simplificationTolerance"`
		FillInterior            bool    `yaml:"fillInterior"`
		CloseThreshold          float64 `yaml:"closeThreshold"`
		StrokeWidth             int     `yaml:"strokeWidth"`
	} `yaml:"freehand"`

	// Polygon holds the polygon tool defaults.
	Polygon struct {
		FillInterior    bool `yaml:"fillInterior"`
		DrawOutline     bool `yaml:"drawOutline"`
		MinimumVertices int  `yaml:"minimumVertices"`
	} `yaml:"polygon"`

	// Scissors holds the smart scissors defaults.
	Scissors struct {
		GradientWeight   float64 `yaml:"gradientWeight"`
		DirectionWeight  float64 `yaml:"directionWeight"`
		LaplacianWeight  float64 `yaml:"laplacianWeight"`
		GaussianSigma    float64 `yaml:"gaussianSigma"`
		SmoothingEnabled bool    `yaml:"smoothingEnabled"`
		FillInterior     bool    `yaml:"fillInterior"`
		CloseThreshold   float64 `yaml:"closeThreshold"`
	} `yaml:"scissors"`

	// History holds the undo/redo configuration.
	History struct {
		// MaxEntries bounds the undo depth.
		MaxEntries int `yaml:"maxEntries"`
	} `yaml:"history"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Raster.Width = 256
	cfg.Raster.Height = 256
	cfg.Raster.Depth = 1

	cfg.Brush.Size = 3
	cfg.Brush.Shape = "circle"

	cfg.Fill.Connectivity = 4
	cfg.Fill.Tolerance = 0

	cfg.Freehand.SmoothingEnabled = true
	cfg.Freehand.SmoothingWindow = 5
	cfg.Freehand.SimplificationEnabled = true
	cfg.Freehand.SimplificationTolerance = 1.0
	cfg.Freehand.FillInterior = false
	cfg.Freehand.CloseThreshold = 5.0
	cfg.Freehand.StrokeWidth = 1

	cfg.Polygon.FillInterior = false
	cfg.Polygon.DrawOutline = true
	cfg.Polygon.MinimumVertices = 3

	cfg.Scissors.GradientWeight = 0.6
	cfg.Scissors.DirectionWeight = 0.2
	cfg.Scissors.LaplacianWeight = 0.2
	cfg.Scissors.GaussianSigma = 1.5
	cfg.Scissors.SmoothingEnabled = true
	cfg.Scissors.FillInterior = false
	cfg.Scissors.CloseThreshold = 5.0

	cfg.History.MaxEntries = 64

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

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

// SaveConfig saves the configuration to a YAML file.
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

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
