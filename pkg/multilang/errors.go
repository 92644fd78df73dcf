package multilang

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the failure classes callers should be able
// to distinguish with errors.Is.
var (
	// ErrDecode indicates the audio source could not be decoded into a
	// usable PCM buffer.
	ErrDecode = errors.New("multilang: audio decode failed")

	// ErrModelLoad indicates a model failed to initialize in the model
	// cache.
	ErrModelLoad = errors.New("multilang: model load failed")

	// ErrModelInference indicates a loaded model returned an error while
	// transcribing a chunk.
	ErrModelInference = errors.New("multilang: model inference failed")

	// ErrExtractionTimeout indicates chunk materialization did not
	// complete within its deadline.
	ErrExtractionTimeout = errors.New("multilang: chunk extraction timed out")

	// ErrCanceled indicates the pipeline was canceled via its context
	// before completion.
	ErrCanceled = errors.New("multilang: pipeline canceled")

	// ErrPipeline is a catch-all for scheduler-level failures not
	// otherwise classified above.
	ErrPipeline = errors.New("multilang: pipeline failed")

	// ErrChunkTooShort indicates a requested chunk fell below the
	// minimum duration a model can usefully process.
	ErrChunkTooShort = errors.New("multilang: chunk below minimum duration")
)

// DecodeError wraps ErrDecode with the offending source description.
func DecodeError(source string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrDecode, source, cause)
}

// ModelLoadError wraps ErrModelLoad with the model identity that failed.
func ModelLoadError(modelID string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrModelLoad, modelID, cause)
}

// ModelInferenceError wraps ErrModelInference with chunk bounds for
// diagnosability.
func ModelInferenceError(startS, endS float64, cause error) error {
	return fmt.Errorf("%w: chunk [%.2f,%.2f]: %v", ErrModelInference, startS, endS, cause)
}
