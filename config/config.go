// Package config manages persisted command-line preferences for the ramble
// transcription CLI: the last model sizes used, the allowed-language set,
// and where diagnostics get written.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the CLI's persisted preferences.
type Config struct {
	// DetectionModelSize is the fast-pass model used for chunk-level
	// language detection and sampling.
	DetectionModelSize string `json:"detection_model_size"`
	// AccurateModelSize is the slow-pass model used for final transcription.
	AccurateModelSize string `json:"accurate_model_size"`
	// LastLanguages is the allowed-language set from the previous run, used
	// to prefill -languages when the flag is omitted.
	LastLanguages []string `json:"last_languages"`
	// DiagnosticsDir is a persisted diagnostics directory preference. The
	// CLI does not read it: -diagnostics without -diagnostics-dir writes
	// next to the input file.
	DiagnosticsDir string `json:"diagnostics_dir"`
}

// DefaultConfig returns the baseline CLI preferences.
func DefaultConfig() *Config {
	modelDir := "./models/"
	if dir, err := GetModelDir(); err == nil {
		modelDir = dir
	}

	return &Config{
		DetectionModelSize: "tiny",
		AccurateModelSize:  "medium",
		LastLanguages:      nil,
		DiagnosticsDir:     modelDir,
	}
}

// Current holds the active configuration.
var Current = DefaultConfig()

// GetAppDir returns the path to the .ramble directory, creating it if needed.
func GetAppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, ".ramble")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create .ramble directory: %w", err)
	}

	return appDir, nil
}

// GetConfigFilePath returns the path to the config file.
func GetConfigFilePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, "config.json"), nil
}

// GetModelDir returns the path to the model directory.
func GetModelDir() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}

	modelDir := filepath.Join(appDir, "models")
	if err := os.MkdirAll(modelDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	return modelDir, nil
}

// LoadConfig loads the configuration from the config file, falling back to
// defaults (and persisting them) when no config file exists yet.
func LoadConfig() error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		Current = DefaultConfig()
		return SaveConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	Current = &cfg
	return nil
}

// SaveConfig saves the configuration to the config file.
func SaveConfig() error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(Current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
