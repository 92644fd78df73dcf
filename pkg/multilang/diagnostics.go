package multilang

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

func timestampNow() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// LanguageBreakdown is the per-language statistics block keyed by
// language code in Diagnostics.Statistics.
type LanguageBreakdown struct {
	LanguageName         string  `json:"language_name"`
	SegmentCount         int     `json:"segment_count"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	PercentageByCount    float64 `json:"percentage_by_count"`
	PercentageByDuration float64 `json:"percentage_by_duration"`
}

// SegmentStats is the total_count/languages_detected/language_breakdown
// block reported separately for raw and merged segments.
type SegmentStats struct {
	TotalCount        int                          `json:"total_count"`
	LanguagesDetected []string                     `json:"languages_detected"`
	LanguageBreakdown map[string]LanguageBreakdown `json:"language_breakdown"`
	SegmentsMerged    *int                         `json:"segments_merged,omitempty"`
}

// DiagnosticsStatistics groups the raw and merged SegmentStats blocks.
type DiagnosticsStatistics struct {
	RawSegments    SegmentStats `json:"raw_segments"`
	MergedSegments SegmentStats `json:"merged_segments"`
}

// Diagnostics is the structured record of a single MultilangTranscribe
// call, persisted as JSON when Options.WriteDiagnostics is set.
type Diagnostics struct {
	AudioFile      string                `json:"audio_file"`
	Timestamp      string                `json:"timestamp"`
	Classification Classification        `json:"classification"`
	Statistics     DiagnosticsStatistics `json:"statistics"`
	RawSegments    []RawChunkResult      `json:"raw_segments"`
	MergedSegments []DetectedSegment     `json:"merged_segments"`
}

// BuildDiagnostics assembles a Diagnostics value from one call's raw
// chunks, merged segments, and final classification. It does not touch
// the filesystem; see WriteDiagnosticsFile for persistence.
func BuildDiagnostics(audioFile string, raw []RawChunkResult, merged []DetectedSegment, finals []FinalSegment, classification Classification) *Diagnostics {
	segmentsMerged := len(raw) - len(merged)

	return &Diagnostics{
		AudioFile:      audioFile,
		Timestamp:      timestampNow(),
		Classification: classification,
		Statistics: DiagnosticsStatistics{
			RawSegments: SegmentStats{
				TotalCount:        len(raw),
				LanguagesDetected: rawLanguages(raw),
				LanguageBreakdown: rawBreakdown(raw),
			},
			MergedSegments: SegmentStats{
				TotalCount:        len(merged),
				LanguagesDetected: mergedLanguages(merged),
				LanguageBreakdown: mergedBreakdown(merged),
				SegmentsMerged:    &segmentsMerged,
			},
		},
		RawSegments:    raw,
		MergedSegments: merged,
	}
}

// WriteDiagnosticsFile writes diag as indented JSON to
// <dir>/<stem>_diagnostics.json, creating dir if needed.
func WriteDiagnosticsFile(dir, stem string, diag *Diagnostics) error {
	if stem == "" {
		stem = "output"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create diagnostics dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_diagnostics.json", stem))

	data, err := json.MarshalIndent(diag, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write diagnostics file %s: %w", path, err)
	}
	return nil
}

func rawLanguages(raw []RawChunkResult) []string {
	seen := map[string]bool{}
	var codes []string
	for _, r := range raw {
		if !seen[r.LanguageCode] {
			seen[r.LanguageCode] = true
			codes = append(codes, r.LanguageCode)
		}
	}
	sort.Strings(codes)
	return codes
}

func mergedLanguages(segments []DetectedSegment) []string {
	seen := map[string]bool{}
	var codes []string
	for _, s := range segments {
		if !seen[s.LanguageCode] {
			seen[s.LanguageCode] = true
			codes = append(codes, s.LanguageCode)
		}
	}
	sort.Strings(codes)
	return codes
}

type langAccumulator struct {
	count int
	dur   float64
}

func rawBreakdown(raw []RawChunkResult) map[string]LanguageBreakdown {
	totals := map[string]*langAccumulator{}
	var totalDur float64
	for _, r := range raw {
		a, ok := totals[r.LanguageCode]
		if !ok {
			a = &langAccumulator{}
			totals[r.LanguageCode] = a
		}
		a.count++
		d := r.EndS - r.StartS
		a.dur += d
		totalDur += d
	}
	return finalizeBreakdown(totals, len(raw), totalDur)
}

func mergedBreakdown(segments []DetectedSegment) map[string]LanguageBreakdown {
	totals := map[string]*langAccumulator{}
	var totalDur float64
	for _, s := range segments {
		a, ok := totals[s.LanguageCode]
		if !ok {
			a = &langAccumulator{}
			totals[s.LanguageCode] = a
		}
		a.count++
		d := s.EndS - s.StartS
		a.dur += d
		totalDur += d
	}
	return finalizeBreakdown(totals, len(segments), totalDur)
}

func finalizeBreakdown(totals map[string]*langAccumulator, totalCount int, totalDur float64) map[string]LanguageBreakdown {
	breakdown := make(map[string]LanguageBreakdown, len(totals))
	for lang, a := range totals {
		name, ok := LanguageNames[lang]
		if !ok {
			name = lang
		}
		b := LanguageBreakdown{
			LanguageName:         name,
			SegmentCount:         a.count,
			TotalDurationSeconds: a.dur,
		}
		if totalCount > 0 {
			b.PercentageByCount = float64(a.count) / float64(totalCount) * 100
		}
		if totalDur > 0 {
			b.PercentageByDuration = a.dur / totalDur * 100
		}
		breakdown[lang] = b
	}
	return breakdown
}
