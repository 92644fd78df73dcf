// Package transcription provides speech-to-text functionality
package transcription

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/jeff-barlow-spady/ramble/pkg/logger"
)

// ResolveExistingModelPath resolves a directory that may hold an already
// on-disk model file. It returns configPath if that exists, otherwise the
// default OS model directory (the first standard location that exists).
// The model file is not guaranteed to be there: when it is missing, the
// default directory is created and returned anyway, or "." if it cannot
// be created. Callers use it when a download attempt fails and check for
// the file themselves.
func ResolveExistingModelPath(configPath string, modelSize ModelSize) string {
	// If a path is provided and exists, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	// Get default path and check if model exists
	defaultPath := getDefaultModelPath()

	// Get model filename
	modelFilename, ok := WhisperModelFilenames[modelSize]
	if !ok {
		logger.Warning(logger.CategoryTranscription, "Unknown model size: %s, using tiny", modelSize)
		modelFilename = WhisperModelFilenames[ModelTiny]
	}

	// Check if model exists in default path
	modelPath := filepath.Join(defaultPath, modelFilename)
	if _, err := os.Stat(modelPath); err == nil {
		return defaultPath
	}

	// Create default path if it doesn't exist
	if err := os.MkdirAll(defaultPath, 0755); err == nil {
		return defaultPath
	}

	// Fallback to current directory
	return "."
}

// getDefaultModelPath returns the default path for model files
func getDefaultModelPath() string {
	// Try to use a standard location based on the OS
	var baseDirs []string

	homeDir, err := os.UserHomeDir()
	if err == nil {
		switch runtime.GOOS {
		case "windows":
			baseDirs = append(baseDirs, filepath.Join(homeDir, "AppData", "Local", "Ramble", "models"))
		case "darwin":
			baseDirs = append(baseDirs, filepath.Join(homeDir, "Library", "Application Support", "Ramble", "models"))
		default: // Linux, BSD, etc.
			baseDirs = append(baseDirs, filepath.Join(homeDir, ".local", "share", "ramble", "models"))
			baseDirs = append(baseDirs, filepath.Join(homeDir, ".ramble", "models"))
		}
	}

	// Add common system-wide locations
	switch runtime.GOOS {
	case "windows":
		baseDirs = append(baseDirs, filepath.Join("C:", "Program Files", "Ramble", "models"))
	case "darwin":
		baseDirs = append(baseDirs, "/Applications/Ramble.app/Contents/Resources/models")
	default: // Linux, BSD, etc.
		baseDirs = append(baseDirs, "/usr/local/share/ramble/models")
		baseDirs = append(baseDirs, "/usr/share/ramble/models")
	}

	// Return the first of these directories that exists
	for _, dir := range baseDirs {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}

	// None of the standard locations exist, use the first one as default
	if len(baseDirs) > 0 {
		return baseDirs[0]
	}

	// Last resort: use the current directory
	return "models"
}

