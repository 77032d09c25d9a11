package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scriptrunner.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
script_paths = ["scripts"]

[collaborator]
address = "10.0.0.5:7700"
use_tls = false

[[device_pool]]
name = "pixel"
serial = "emulator-5554"
model = "Pixel 7"
screen_width = 1080
screen_height = 2400
android_version = "14"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.DevicePool) != 1 || cfg.DevicePool[0].Name != "pixel" {
		t.Errorf("device pool = %+v", cfg.DevicePool)
	}
	if cfg.Collaborator.Address != "10.0.0.5:7700" {
		t.Errorf("collaborator address = %q", cfg.Collaborator.Address)
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, `log_level = "verbose"`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected a validation error for an unrecognized log level")
	}
}

func TestLoadRejectsEmptyDeviceName(t *testing.T) {
	path := writeConfig(t, `
[[device_pool]]
name = ""
serial = "emulator-5554"
screen_width = 1080
screen_height = 2400
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected a validation error for an empty device name")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/scriptrunner.toml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestDefaultIsAlwaysValid(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Fatalf("Default() config failed its own schema: %v", err)
	}
}
