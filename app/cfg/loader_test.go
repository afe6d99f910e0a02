package cfg

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.ConfigPath != "./config.yml" {
		t.Errorf("Expected default config path './config.yml', got: %s", cfg.ConfigPath)
	}
	if cfg.DataDir != "./.data" {
		t.Errorf("Expected default data dir './.data', got: %s", cfg.DataDir)
	}
	if cfg.Port != "" {
		t.Errorf("Expected status server to be disabled by default, got port: %s", cfg.Port)
	}
	if cfg.DryRun {
		t.Error("Expected dry run to be disabled by default")
	}
	if cfg.UserAgent != "feedhook/1.0" {
		t.Errorf("Expected default user agent 'feedhook/1.0', got: %s", cfg.UserAgent)
	}
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{"--config", "/etc/feedhook.yml", "--dry-run", "--port", "8080"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.ConfigPath != "/etc/feedhook.yml" {
		t.Errorf("Expected config path '/etc/feedhook.yml', got: %s", cfg.ConfigPath)
	}
	if !cfg.DryRun {
		t.Error("Expected dry run to be enabled")
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got: %s", cfg.Port)
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("Expected version to be non-empty")
	}
}
