package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DetectionModelSize != "tiny" {
		t.Errorf("expected default DetectionModelSize to be 'tiny', got '%s'", cfg.DetectionModelSize)
	}
	if cfg.AccurateModelSize != "medium" {
		t.Errorf("expected default AccurateModelSize to be 'medium', got '%s'", cfg.AccurateModelSize)
	}
	if cfg.LastLanguages != nil {
		t.Errorf("expected default LastLanguages to be nil, got %v", cfg.LastLanguages)
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		expectedDir := filepath.Join(homeDir, ".ramble", "models")
		if cfg.DiagnosticsDir != expectedDir {
			t.Errorf("expected default DiagnosticsDir to be '%s', got '%s'", expectedDir, cfg.DiagnosticsDir)
		}
	}
}

func TestCurrentConfig(t *testing.T) {
	if Current == nil {
		t.Fatal("Current config should not be nil")
	}
	if Current.AccurateModelSize != "medium" {
		t.Errorf("expected Current.AccurateModelSize to be 'medium', got '%s'", Current.AccurateModelSize)
	}
}
