// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-secelem.
//
// go-secelem is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads and validates the provisioning tool
// configuration from a YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-secelem/pkg/secelem"
)

// Config represents the complete provisioning tool configuration
type Config struct {
	Device  DeviceConfig   `yaml:"device"`
	Profile secelem.Profile `yaml:"profile"`
	Logging LoggingConfig  `yaml:"logging"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// DeviceConfig selects and identifies the target device
type DeviceConfig struct {
	// Transport is the device transport. "emulator" is the only
	// transport shipped with this module; hardware transports register
	// out of tree.
	Transport string `yaml:"transport"`

	// Serial identifies the device in logs and metrics. Empty lets the
	// transport pick one (the emulator generates a UUID).
	Serial string `yaml:"serial"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// MetricsConfig controls Prometheus metrics collection
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns a configuration with the reference device
// profile and the emulator transport.
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Transport: "emulator",
		},
		Profile: secelem.DefaultProfile(),
		Logging: LoggingConfig{
			Debug: false,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads the configuration file at path, applies environment
// variable overrides, validates the result and returns it. A missing
// path ("") yields the defaults with overrides applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies SECELEM_* environment variables on top of
// the file-provided values.
func applyEnvOverrides(cfg *Config) {
	if transport := os.Getenv("SECELEM_TRANSPORT"); transport != "" {
		cfg.Device.Transport = transport
	}
	if serial := os.Getenv("SECELEM_DEVICE_SERIAL"); serial != "" {
		cfg.Device.Serial = serial
	}
	if debug := os.Getenv("SECELEM_DEBUG"); debug != "" {
		cfg.Logging.Debug = debug == "1" || debug == "true"
	}
	if metrics := os.Getenv("SECELEM_METRICS"); metrics != "" {
		cfg.Metrics.Enabled = metrics == "1" || metrics == "true"
	}
	if mode := os.Getenv("SECELEM_SHARE_CHECK"); mode != "" {
		cfg.Profile.ShareCheck = secelem.ShareCheckMode(mode)
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Device.Transport == "" {
		return fmt.Errorf("config: device transport is required")
	}
	return c.Profile.Validate()
}
