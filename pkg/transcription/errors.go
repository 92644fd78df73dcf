// Package transcription provides speech-to-text functionality
package transcription

import (
	"errors"
)

// Common error types for the transcription package
var (
	// ErrModelDownloadFailed indicates that downloading the model failed
	ErrModelDownloadFailed = errors.New("failed to download whisper model")

	// ErrModelNotFound indicates that the model was not found in any of the standard locations
	ErrModelNotFound = errors.New("whisper model not found")

	// ErrTranscriptionFailed indicates that the transcription process failed
	ErrTranscriptionFailed = errors.New("transcription process failed")
)
