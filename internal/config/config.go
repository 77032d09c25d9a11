// Package config loads and validates the host configuration consumed
// by cmd/scriptrunner: the device pool, the device-farm collaborator
// endpoint, script search paths, and the log level.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DeviceProfile describes one device in the configured pool.
type DeviceProfile struct {
	Name           string `toml:"name" json:"name"`
	Serial         string `toml:"serial" json:"serial"`
	Model          string `toml:"model" json:"model"`
	ScreenWidth    int    `toml:"screen_width" json:"screen_width"`
	ScreenHeight   int    `toml:"screen_height" json:"screen_height"`
	AndroidVersion string `toml:"android_version" json:"android_version"`
}

// CollaboratorConfig addresses the external device-farm service.
type CollaboratorConfig struct {
	Address string `toml:"address" json:"address"`
	UseTLS  bool   `toml:"use_tls" json:"use_tls"`
}

// Config is the decoded, validated host configuration.
type Config struct {
	DevicePool   []DeviceProfile    `toml:"device_pool" json:"device_pool"`
	Collaborator CollaboratorConfig `toml:"collaborator" json:"collaborator"`
	ScriptPaths  []string           `toml:"script_paths" json:"script_paths"`
	LogLevel     string             `toml:"log_level" json:"log_level"`
}

// Default returns the zero-config fallback: no device pool, a loopback
// collaborator address, and info-level logging.
func Default() *Config {
	return &Config{
		Collaborator: CollaboratorConfig{Address: "127.0.0.1:7700"},
		LogLevel:     "info",
	}
}

// Load reads path as TOML, decodes it into a Config, and validates the
// result against the package's CUE schema. It never returns a non-nil
// Config that failed validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
