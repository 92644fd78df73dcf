package multilang

import "testing"

func TestFormatTimelineRendersExpectedShape(t *testing.T) {
	finals := []FinalSegment{
		{StartS: 0, EndS: 65, LanguageCode: "en", Text: "hello"},
		{StartS: 65, EndS: 125, LanguageCode: "cs", Text: "ahoj"},
	}
	timeline := FormatTimeline(finals)
	want := "[00:00 - 01:05] Language: English (en)\n[01:05 - 02:05] Language: Czech (cs)"
	if timeline != want {
		t.Fatalf("unexpected timeline:\n got: %q\nwant: %q", timeline, want)
	}
}

func TestQualityScoreAllNonEmpty(t *testing.T) {
	finals := []FinalSegment{
		{Text: "a"},
		{Text: "b"},
	}
	if got := QualityScore(finals); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
}

func TestQualityScoreNoSegments(t *testing.T) {
	if got := QualityScore(nil); got != 0 {
		t.Fatalf("expected 0 for no segments, got %v", got)
	}
}

func TestFormatVTTIncludesAllSegments(t *testing.T) {
	finals := []FinalSegment{
		{StartS: 0, EndS: 1.5, Text: "hi"},
	}
	vtt := FormatVTT(finals)
	if vtt == "" {
		t.Fatalf("expected non-empty VTT output")
	}
	wantHeader := "WEBVTT\n\n"
	if vtt[:len(wantHeader)] != wantHeader {
		t.Fatalf("expected VTT header, got %q", vtt[:len(wantHeader)])
	}
}
