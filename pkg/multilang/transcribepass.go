package multilang

import (
	"context"
	"strings"

	"github.com/jeff-barlow-spady/ramble/pkg/logger"
)

// runTranscriptionPass is Pass 2: it drains DetectedSegments from in,
// transcribes each with the accurate model, language pinned to the
// segment's detected language, re-corrects the label against the
// accurate-model text, and appends the result to its own owned slice
// (never shared with Pass 1). It exits when in closes. Polls cancel
// between segments; once cancel is observed it stops transcribing and
// drains the remaining queued segments until in closes, so Pass 1 never
// blocks on a full queue.
func runTranscriptionPass(
	ctx context.Context,
	cancel *CancelFlag,
	extractor *ChunkExtractor,
	model TranscribeModel,
	allowed map[string]bool,
	in <-chan DetectedSegment,
	progress ProgressFunc,
	totalS float64,
) ([]FinalSegment, error) {
	var finals []FinalSegment

	for seg := range in {
		if canceled(ctx, cancel) {
			continue
		}

		final, ok, err := transcribeSegment(ctx, extractor, model, seg, allowed)
		if err != nil {
			logger.Warning(logger.CategoryPipeline, "transcription inference failed [%.2f,%.2f]: %v", seg.StartS, seg.EndS, err)
			continue
		}
		if !ok {
			continue
		}
		finals = append(finals, final)

		if progress != nil {
			progress(ProgressEvent{Stage: "transcription", CurrentS: seg.EndS, TotalS: totalS})
		}
	}

	return finals, nil
}

// transcribeSegment materializes seg, transcribes with the language
// pinned, re-corrects against the accurate text, and reports whether a
// usable FinalSegment resulted (empty text or out-of-allowed label are
// dropped per §4.7).
func transcribeSegment(ctx context.Context, extractor *ChunkExtractor, model TranscribeModel, seg DetectedSegment, allowed map[string]bool) (FinalSegment, bool, error) {
	handle, err := extractor.Extract(seg.StartS, seg.EndS)
	if err != nil {
		return FinalSegment{}, false, err
	}
	defer handle.Release()

	result, err := model.Transcribe(ctx, handle.Path, seg.LanguageCode, true)
	if err != nil {
		return FinalSegment{}, false, err
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return FinalSegment{}, false, nil
	}

	lang := Correct(text, seg.LanguageCode, allowed)
	if allowed != nil && !allowed[lang] {
		return FinalSegment{}, false, nil
	}

	return FinalSegment{StartS: seg.StartS, EndS: seg.EndS, LanguageCode: lang, Text: text}, true, nil
}

// mergeFinalSegments coalesces adjacent FinalSegments that share a
// language code after Pass 2's re-correction. transcribeSegment corrects
// each DetectedSegment's label independently against the accurate
// model's text, which can flip two segments that Pass 1 kept distinct
// into the same language; without this pass the result could contain
// adjacent same-language runs, violating maximal-run grouping (P4).
func mergeFinalSegments(finals []FinalSegment) []FinalSegment {
	if len(finals) == 0 {
		return finals
	}
	merged := make([]FinalSegment, 0, len(finals))
	for _, seg := range finals {
		if n := len(merged); n > 0 && merged[n-1].LanguageCode == seg.LanguageCode {
			merged[n-1].EndS = seg.EndS
			merged[n-1].Text = joinText(merged[n-1].Text, seg.Text)
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}
