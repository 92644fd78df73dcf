package multilang

import (
	"context"
	"strings"

	"github.com/jeff-barlow-spady/ramble/pkg/logger"
)

// runDetectionPass partitions [0, durationS] into fixed chunkSizeS windows,
// transcribes each sequentially with the fast model, corrects the label
// via heuristics, and merges consecutive same-language chunks into
// DetectedSegments, sent one at a time to out. out is closed by the
// caller's sentinel handling, not here; runDetectionPass only ever sends.
//
// Returns the raw per-chunk results (for diagnostics) and whether the
// pass stopped early because of cancellation. Polls cancellation at the top of every
// iteration per P8: once observed, no further chunk is processed or
// enqueued.
func runDetectionPass(
	ctx context.Context,
	cancel *CancelFlag,
	extractor *ChunkExtractor,
	model TranscribeModel,
	durationS float64,
	chunkSizeS float64,
	allowed map[string]bool,
	out chan<- DetectedSegment,
	progress ProgressFunc,
) ([]RawChunkResult, bool) {
	var raw []RawChunkResult
	var running *DetectedSegment
	partial := false

	flush := func() {
		if running != nil {
			out <- *running
			running = nil
		}
	}

	for start := 0.0; start < durationS; start += chunkSizeS {
		if canceled(ctx, cancel) {
			partial = true
			break
		}

		end := start + chunkSizeS
		if end > durationS {
			end = durationS
		}
		if end-start < minChunkDurationS {
			continue
		}

		handle, err := extractor.Extract(start, end)
		if err != nil {
			logger.Warning(logger.CategoryPipeline, "skipping chunk [%.2f,%.2f]: %v", start, end, err)
			continue
		}

		result, err := model.Transcribe(ctx, handle.Path, "", false)
		handle.Release()
		if err != nil {
			logger.Warning(logger.CategoryPipeline, "detection inference failed [%.2f,%.2f]: %v", start, end, err)
			continue
		}

		text := strings.TrimSpace(result.Text)
		lang := result.Language
		if lang == "" {
			lang = "unknown"
		}
		lang = Correct(text, lang, allowed)

		if allowed != nil && !allowed[lang] && text == "" {
			continue
		}

		raw = append(raw, RawChunkResult{StartS: start, EndS: end, LanguageCode: lang, Text: text})

		if running != nil && running.LanguageCode == lang {
			running.EndS = end
			if text != "" {
				running.Text = joinText(running.Text, text)
			}
		} else {
			flush()
			running = &DetectedSegment{StartS: start, EndS: end, LanguageCode: lang, Text: text}
		}

		if progress != nil {
			progress(ProgressEvent{Stage: "detection", CurrentS: end, TotalS: durationS})
		}
	}

	flush()
	return raw, partial
}

func joinText(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}

// mergeDetectedSegments merges consecutive same-language DetectedSegments
// into a new slice, leaving the input unchanged. Exposed standalone so it can be tested for idempotence (P6)
// independent of the live pipeline.
func mergeDetectedSegments(segments []DetectedSegment) []DetectedSegment {
	if len(segments) == 0 {
		return segments
	}
	merged := make([]DetectedSegment, 0, len(segments))
	for _, seg := range segments {
		if n := len(merged); n > 0 && merged[n-1].LanguageCode == seg.LanguageCode {
			merged[n-1].EndS = seg.EndS
			merged[n-1].Text = joinText(merged[n-1].Text, seg.Text)
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}
