package multilang

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildDiagnosticsCountsAndBreakdown(t *testing.T) {
	raw := []RawChunkResult{
		{StartS: 0, EndS: 3, LanguageCode: "en", Text: "a"},
		{StartS: 3, EndS: 6, LanguageCode: "en", Text: "b"},
		{StartS: 6, EndS: 9, LanguageCode: "fr", Text: "c"},
	}
	merged := mergeSegmentsFromRaw(raw)
	finals := []FinalSegment{
		{StartS: 0, EndS: 6, LanguageCode: "en", Text: "a b"},
		{StartS: 6, EndS: 9, LanguageCode: "fr", Text: "c"},
	}
	diag := BuildDiagnostics("sample", raw, merged, finals, Classification{Mode: ModeMixed, PrimaryLanguage: "en"})

	if diag.Statistics.RawSegments.TotalCount != 3 {
		t.Fatalf("expected 3 raw segments, got %d", diag.Statistics.RawSegments.TotalCount)
	}
	if diag.Statistics.MergedSegments.TotalCount != 2 {
		t.Fatalf("expected 2 merged segments, got %d", diag.Statistics.MergedSegments.TotalCount)
	}
	if *diag.Statistics.MergedSegments.SegmentsMerged != 1 {
		t.Fatalf("expected 1 segment merged away, got %d", *diag.Statistics.MergedSegments.SegmentsMerged)
	}

	enBreakdown, ok := diag.Statistics.RawSegments.LanguageBreakdown["en"]
	if !ok {
		t.Fatalf("expected en breakdown entry")
	}
	if enBreakdown.SegmentCount != 2 {
		t.Fatalf("expected 2 en raw chunks, got %d", enBreakdown.SegmentCount)
	}
	if enBreakdown.LanguageName != "English" {
		t.Fatalf("expected English language name, got %s", enBreakdown.LanguageName)
	}
}

func TestWriteDiagnosticsFileUsesStemNaming(t *testing.T) {
	dir := t.TempDir()
	diag := BuildDiagnostics("episode01", nil, nil, nil, Classification{Mode: ModeSingle})

	if err := WriteDiagnosticsFile(dir, "episode01", diag); err != nil {
		t.Fatalf("WriteDiagnosticsFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "episode01_diagnostics.json")); err != nil {
		t.Fatalf("expected episode01_diagnostics.json in %s: %v", dir, err)
	}
}
