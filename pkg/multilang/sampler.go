package multilang

import (
	"context"
	"math"
)

// SampleWindows computes the strategic windows used by classification:
// exactly 3 windows of defaultSampleWindowS seconds each, centered at
// max(2s, 0.05*D), D/2, and min(D-6s, 0.95*D), or a single sample at 0
// when D < minSampleDurationS.
func SampleWindows(durationS float64) []ChunkRef {
	if durationS < minSampleDurationS {
		return []ChunkRef{{StartS: 0, EndS: math.Min(durationS, defaultSampleWindowS)}}
	}

	centers := []float64{
		math.Max(2.0, 0.05*durationS),
		durationS / 2,
		math.Min(durationS-6.0, 0.95*durationS),
	}

	half := defaultSampleWindowS / 2
	windows := make([]ChunkRef, 0, len(centers))
	for _, c := range centers {
		start := c - half
		end := c + half
		if start < 0 {
			start = 0
		}
		if end > durationS {
			end = durationS
		}
		windows = append(windows, ChunkRef{StartS: start, EndS: end})
	}
	return windows
}

// Classify runs the detection model over each of SampleWindows' intervals
// and derives a Classification per §4.5: single if only one language
// appears, hybrid if the first secondary-language sample arrives at or
// after lateRatio*durationS, mixed otherwise.
func Classify(ctx context.Context, extractor *ChunkExtractor, model TranscribeModel, durationS float64, allowed map[string]bool) (Classification, error) {
	windows := SampleWindows(durationS)

	var samples []sampleRecord
	for _, w := range windows {
		handle, err := extractor.Extract(w.StartS, w.EndS)
		if err != nil {
			continue
		}
		result, err := model.Transcribe(ctx, handle.Path, "", false)
		handle.Release()
		if err != nil {
			continue
		}

		lang := result.Language
		if lang == "" {
			lang = "unknown"
		}
		lang = Correct(result.Text, lang, allowed)
		samples = append(samples, sampleRecord{TimeS: w.StartS, Language: lang})
	}

	return classifyFromSamples(samples, durationS), nil
}

func classifyFromSamples(samples []sampleRecord, durationS float64) Classification {
	if len(samples) == 0 {
		return Classification{Mode: ModeSingle, PrimaryLanguage: "unknown"}
	}

	tallies := make(map[string]int)
	for _, s := range samples {
		tallies[s.Language]++
	}

	primary := modeLanguage(tallies)

	var secondary []string
	seen := make(map[string]bool)
	var earliestSecondaryS float64
	haveSecondary := false
	for _, s := range samples {
		if s.Language == primary {
			continue
		}
		if !seen[s.Language] {
			seen[s.Language] = true
			secondary = append(secondary, s.Language)
		}
		if !haveSecondary || s.TimeS < earliestSecondaryS {
			earliestSecondaryS = s.TimeS
			haveSecondary = true
		}
	}

	if len(secondary) == 0 {
		return Classification{Mode: ModeSingle, PrimaryLanguage: primary}
	}

	if haveSecondary && earliestSecondaryS >= defaultLateRatio*durationS {
		t := earliestSecondaryS
		return Classification{
			Mode:               ModeHybrid,
			PrimaryLanguage:    primary,
			SecondaryLanguages: secondary,
			TransitionS:        &t,
		}
	}

	return Classification{
		Mode:               ModeMixed,
		PrimaryLanguage:    primary,
		SecondaryLanguages: secondary,
	}
}

// modeLanguage returns the most frequent language, breaking ties
// lexicographically for determinism.
func modeLanguage(tallies map[string]int) string {
	var best string
	bestCount := -1
	for lang, count := range tallies {
		if count > bestCount || (count == bestCount && lang < best) {
			best = lang
			bestCount = count
		}
	}
	return best
}
