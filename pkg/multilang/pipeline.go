package multilang

import (
	"context"
	"fmt"
	"sort"

	"github.com/jeff-barlow-spady/ramble/pkg/logger"
)

// Engine holds a ModelCache (which carries the path resolver) and exposes
// the single entry point, MultilangTranscribe. Callers typically construct
// one Engine per process and reuse it across calls so ModelCache's
// load-once guarantee actually pays off.
type Engine struct {
	cache *ModelCache
}

// NewEngine builds an Engine backed by cache.
func NewEngine(cache *ModelCache) *Engine {
	return &Engine{cache: cache}
}

// MultilangTranscribe is the engine's sole entry point (§6.3). It opens
// source into memory, classifies it (unless skipped), routes to the fast
// path or the full two-pass pipeline, and returns a TranscriptionResult.
func (e *Engine) MultilangTranscribe(ctx context.Context, source AudioSource, opts Options, cancel *CancelFlag) (TranscriptionResult, error) {
	if opts.AccurateModelSize == "" {
		return TranscriptionResult{}, fmt.Errorf("multilang: AccurateModelSize is required")
	}

	store, err := Open(ctx, source)
	if err != nil {
		return TranscriptionResult{}, err
	}
	durationS := store.DurationS()

	if err := e.cache.Preload(opts.detectionModel(), opts.AccurateModelSize); err != nil {
		return TranscriptionResult{}, err
	}
	detectionModel, err := e.cache.Get(opts.detectionModel())
	if err != nil {
		return TranscriptionResult{}, err
	}
	accurateModel, err := e.cache.Get(opts.AccurateModelSize)
	if err != nil {
		return TranscriptionResult{}, err
	}

	extractor := NewChunkExtractor(store, "")

	var classification Classification
	allowedCount := len(opts.AllowedLanguages)

	if !opts.SkipSampling {
		opts.emit(ProgressEvent{Stage: "sampling", TotalS: durationS})
		classification, err = Classify(ctx, extractor, detectionModel, durationS, opts.AllowedLanguages)
		if err != nil {
			return TranscriptionResult{}, err
		}
	} else if allowedCount >= 2 {
		classification = Classification{Mode: ModeMixed}
	} else {
		classification = Classification{Mode: ModeSingle}
	}

	useFastPath := (opts.SkipSampling && allowedCount <= 1) ||
		(!opts.SkipSampling && classification.Mode == ModeSingle && !opts.SkipFastSingle)

	var (
		finals  []FinalSegment
		partial bool
		raw     []RawChunkResult
		merged  []DetectedSegment
	)

	if useFastPath {
		finals, err = runFastPath(ctx, extractor, accurateModel, durationS, opts.AllowedLanguages)
		if err != nil {
			return TranscriptionResult{}, err
		}
		if classification.PrimaryLanguage == "" && len(finals) > 0 {
			classification.PrimaryLanguage = finals[0].LanguageCode
			classification.Mode = ModeSingle
		}
	} else {
		finals, raw, merged, partial, err = runTwoPass(ctx, cancel, extractor, detectionModel, accurateModel, durationS, opts)
		if err != nil {
			return TranscriptionResult{}, err
		}

		if len(finals) == 0 {
			logger.Warning(logger.CategoryPipeline, "two-pass produced zero segments, falling back to fast path")
			finals, err = runFastPath(ctx, extractor, accurateModel, durationS, opts.AllowedLanguages)
			if err != nil {
				return TranscriptionResult{}, err
			}
		}
	}

	sort.Slice(finals, func(i, j int) bool { return finals[i].StartS < finals[j].StartS })
	finals = mergeFinalSegments(finals)

	result := BuildReport(finals, classification, opts)
	result.Partial = partial

	if opts.WriteDiagnostics {
		diag := BuildDiagnostics(opts.AudioFileStem, raw, merged, finals, classification)
		result.Diagnostics = diag
		if opts.DiagnosticsDir != "" {
			if err := WriteDiagnosticsFile(opts.DiagnosticsDir, opts.AudioFileStem, diag); err != nil {
				logger.Warning(logger.CategoryPipeline, "failed to write diagnostics: %v", err)
			}
		}
	}

	if partial {
		return result, ErrCanceled
	}
	return result, nil
}

// runFastPath transcribes the whole buffer once with the accurate model,
// auto-detecting language, and wraps the result as a single FinalSegment.
func runFastPath(ctx context.Context, extractor *ChunkExtractor, model TranscribeModel, durationS float64, allowed map[string]bool) ([]FinalSegment, error) {
	handle, err := extractor.Extract(0, durationS)
	if err != nil {
		return nil, err
	}
	defer handle.Release()

	result, err := model.Transcribe(ctx, handle.Path, "", false)
	if err != nil {
		return nil, ModelInferenceError(0, durationS, err)
	}

	lang := result.Language
	if lang == "" {
		lang = "unknown"
	}
	lang = Correct(result.Text, lang, allowed)

	return []FinalSegment{{StartS: 0, EndS: durationS, LanguageCode: lang, Text: result.Text}}, nil
}

// runTwoPass drives the pipelined scheduler: Pass 1 (detection) runs on
// the calling goroutine and feeds a bounded channel; Pass 2
// (transcription) runs on a background goroutine and drains it. The
// channel's capacity (detectionQueueDepth) is the FIFO queue of §4.8;
// closing it is the sentinel.
func runTwoPass(
	ctx context.Context,
	cancel *CancelFlag,
	extractor *ChunkExtractor,
	detectionModel, accurateModel TranscribeModel,
	durationS float64,
	opts Options,
) (finals []FinalSegment, raw []RawChunkResult, merged []DetectedSegment, partial bool, err error) {
	queue := make(chan DetectedSegment, detectionQueueDepth)
	pass2Done := make(chan struct{})

	var (
		pass2Finals []FinalSegment
		pass2Err    error
	)

	go func() {
		defer close(pass2Done)
		pass2Finals, pass2Err = runTranscriptionPass(ctx, cancel, extractor, accurateModel, opts.AllowedLanguages, queue, opts.ProgressFn, durationS)
	}()

	raw, pass1Partial := runDetectionPass(ctx, cancel, extractor, detectionModel, durationS, opts.chunkSizeS(), opts.AllowedLanguages, queue, opts.ProgressFn)
	close(queue)

	<-pass2Done

	merged = mergeSegmentsFromRaw(raw)

	if pass2Err != nil {
		return nil, raw, merged, pass1Partial, fmt.Errorf("%w: %v", ErrPipeline, pass2Err)
	}

	return pass2Finals, raw, merged, pass1Partial || canceled(ctx, cancel), nil
}

// mergeSegmentsFromRaw rebuilds the DetectedSegment sequence from raw
// chunk results, used only for the diagnostics report (Pass 1 itself
// streams segments directly into the queue).
func mergeSegmentsFromRaw(raw []RawChunkResult) []DetectedSegment {
	segments := make([]DetectedSegment, 0, len(raw))
	for _, r := range raw {
		segments = append(segments, DetectedSegment{StartS: r.StartS, EndS: r.EndS, LanguageCode: r.LanguageCode, Text: r.Text})
	}
	return mergeDetectedSegments(segments)
}
