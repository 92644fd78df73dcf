//go:build !(cgo && whisper_go)

package multilang

import (
	"context"
	"fmt"

	"github.com/jeff-barlow-spady/ramble/pkg/logger"
)

// stubModel is the deterministic TranscribeModel used when whisper.cpp's
// Go bindings are not compiled in (build without -tags=cgo,whisper_go).
// It lets the rest of the engine, and its tests, run without a native
// dependency, at the cost of never producing real transcription output.
type stubModel struct {
	size ModelSize
}

func loadWhisperModel(size ModelSize, modelPath string) (TranscribeModel, error) {
	logger.Warning(logger.CategoryEngine,
		"whisper.cpp Go bindings not available (build with -tags=whisper_go); using stub model for %s", size)
	return &stubModel{size: size}, nil
}

// Transcribe returns a single zero-confidence segment spanning the full
// WAV file, auto-detecting nothing: language is echoed back when pinned,
// otherwise "unknown". Real callers must build with whisper_go.
func (s *stubModel) Transcribe(ctx context.Context, path string, language string, wordTimestamps bool) (TranscribeResult, error) {
	samples, err := readWAVSamples(path)
	if err != nil {
		return TranscribeResult{}, fmt.Errorf("read chunk wav: %w", err)
	}

	durationS := float64(len(samples)) / 16000.0
	lang := language
	if lang == "" {
		lang = "unknown"
	}

	return TranscribeResult{
		Text:     "",
		Language: lang,
		Segments: []ModelSegment{
			{StartS: 0, EndS: durationS, Text: "", NoSpeechProb: 1.0},
		},
	}, nil
}

func (s *stubModel) Close() error { return nil }
