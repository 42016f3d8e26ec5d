// Package config loads and validates the dashboard configuration.
package config

import "time"

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".sour.yaml"
	// GlobalConfigDir is the directory for global config, under $HOME.
	GlobalConfigDir = ".config/sour"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Bounds for validated settings.
const (
	MinInterval = 50 * time.Millisecond
	MaxTop      = 50
)

// Config holds the dashboard settings.
type Config struct {
	// Interval is the refresh cadence of the dashboard.
	Interval time.Duration `mapstructure:"interval"`

	// Top is how many processes the process table shows.
	Top int `mapstructure:"top"`

	// DiskPath is the filesystem path whose usage the disk gauge tracks.
	DiskPath string `mapstructure:"disk_path"`

	// SpeedtestCommand is the argv of the external speed-test tool.
	SpeedtestCommand []string `mapstructure:"speedtest_command"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Interval:         200 * time.Millisecond,
		Top:              10,
		DiskPath:         "/",
		SpeedtestCommand: []string{"speedtest-cli", "--simple"},
	}
}
