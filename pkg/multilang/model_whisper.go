//go:build cgo && whisper_go

package multilang

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/jeff-barlow-spady/ramble/pkg/logger"
	"github.com/jeff-barlow-spady/ramble/pkg/transcription"
)

// whisperModel wraps a whisper.cpp model and context, implementing
// TranscribeModel for one acoustic model size. Concurrent Transcribe calls
// are serialized by mu, so the instance ModelCache hands out may be shared
// by both passes when they use the same size.
type whisperModel struct {
	mu      sync.Mutex
	model   whisper.Model
	context whisper.Context
	size    ModelSize
}

func loadWhisperModel(size ModelSize, modelPath string) (TranscribeModel, error) {
	logger.Info(logger.CategoryEngine, "loading whisper model %s from %s", size, modelPath)

	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model %s: %w", size, err)
	}

	ctx, err := model.NewContext()
	if err != nil {
		model.Close()
		return nil, fmt.Errorf("create whisper context for %s: %w", size, err)
	}

	ctx.SetSplitOnWord(true)
	ctx.SetMaxContext(16384)

	return &whisperModel{model: model, context: ctx, size: size}, nil
}

// Transcribe implements TranscribeModel. language, when non-empty, is
// pinned via SetLanguage before processing; otherwise whisper.cpp
// auto-detects. On a kv_cache-shaped error with wordTimestamps set, the
// call is retried once with word timestamps disabled, per the acoustic
// model's documented quirk on some builds.
func (w *whisperModel) Transcribe(ctx context.Context, path string, language string, wordTimestamps bool) (TranscribeResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	samples, err := decodeWAVFile(path)
	if err != nil {
		return TranscribeResult{}, fmt.Errorf("read chunk wav: %w", err)
	}

	if language != "" {
		if err := w.context.SetLanguage(language); err != nil {
			return TranscribeResult{}, fmt.Errorf("set language %s: %w", language, err)
		}
	} else {
		_ = w.context.SetLanguage("auto")
	}
	w.context.SetTokenTimestamps(wordTimestamps)

	var collected []whisper.Segment
	segmentCB := func(seg whisper.Segment) {
		collected = append(collected, seg)
	}

	if err := w.context.Process(samples, nil, segmentCB, nil); err != nil {
		if wordTimestamps && isKVCacheError(err) {
			logger.Warning(logger.CategoryEngine, "retrying %s chunk without word timestamps after kv_cache error", path)
			collected = nil
			w.context.SetTokenTimestamps(false)
			if err2 := w.context.Process(samples, nil, segmentCB, nil); err2 != nil {
				return TranscribeResult{}, fmt.Errorf("whisper process (retry): %w", err2)
			}
		} else {
			return TranscribeResult{}, fmt.Errorf("whisper process: %w", err)
		}
	}

	return buildResult(collected, language), nil
}

func buildResult(segs []whisper.Segment, pinnedLanguage string) TranscribeResult {
	result := TranscribeResult{
		Language: pinnedLanguage,
		Segments: make([]ModelSegment, 0, len(segs)),
	}

	var texts []string
	for _, seg := range segs {
		text := transcription.NormalizeTranscriptionText(strings.TrimSpace(seg.Text))
		result.Segments = append(result.Segments, ModelSegment{
			StartS: seg.Start.Seconds(),
			EndS:   seg.End.Seconds(),
			Text:   text,
		})
		if text != "" {
			texts = append(texts, text)
		}
	}
	result.Text = strings.Join(texts, " ")
	if result.Language == "" && len(segs) > 0 {
		result.Language = "unknown"
	}
	return result
}

func isKVCacheError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "kv_cache")
}

func (w *whisperModel) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.context != nil {
		w.context = nil
	}
	if w.model != nil {
		err := w.model.Close()
		w.model = nil
		return err
	}
	return nil
}

// decodeWAVFile reads a mono 16kHz PCM WAV file into f32 samples, reusing
// the same go-audio/wav decoder ChunkExtractor used to write it.
func decodeWAVFile(path string) ([]float32, error) {
	return readWAVSamples(path)
}
