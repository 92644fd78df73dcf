package multilang

import (
	"context"
	"testing"
)

func TestRunDetectionPassMergesConsecutiveSameLanguage(t *testing.T) {
	store, err := Open(context.Background(), silentSource(9.0))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	extractor := NewChunkExtractor(store, t.TempDir())

	model := newMockModel(
		TranscribeResult{Text: "hello there", Language: "en"},
		TranscribeResult{Text: "still english", Language: "en"},
		TranscribeResult{Text: "bonjour le monde", Language: "fr"},
	)

	out := make(chan DetectedSegment, 10)
	raw, partial := runDetectionPass(context.Background(), nil, extractor, model, 9.0, 3.0, nil, out, nil)
	close(out)

	if partial {
		t.Fatalf("did not expect partial result")
	}
	if len(raw) != 3 {
		t.Fatalf("expected 3 raw chunks, got %d", len(raw))
	}

	var segments []DetectedSegment
	for seg := range out {
		segments = append(segments, seg)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 merged segments (en run, fr run), got %d", len(segments))
	}
	if segments[0].LanguageCode != "en" || segments[1].LanguageCode != "fr" {
		t.Fatalf("unexpected language sequence: %+v", segments)
	}
	if segments[0].StartS != 0 || segments[0].EndS != 6 {
		t.Fatalf("expected merged en segment [0,6], got [%.2f,%.2f]", segments[0].StartS, segments[0].EndS)
	}
}

func TestRunDetectionPassCancellationStopsEarly(t *testing.T) {
	store, err := Open(context.Background(), silentSource(30.0))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	extractor := NewChunkExtractor(store, t.TempDir())
	model := newMockModel(TranscribeResult{Text: "one", Language: "en"})

	cancel := NewCancelFlag()
	cancel.Cancel()

	out := make(chan DetectedSegment, 10)
	_, partial := runDetectionPass(context.Background(), cancel, extractor, model, 30.0, 3.0, nil, out, nil)
	close(out)

	if !partial {
		t.Fatalf("expected partial result after immediate cancellation")
	}
	count := 0
	for range out {
		count++
	}
	if count != 0 {
		t.Fatalf("expected no segments emitted once canceled before first iteration, got %d", count)
	}
}

func TestMergeDetectedSegmentsIdempotent(t *testing.T) {
	segments := []DetectedSegment{
		{StartS: 0, EndS: 3, LanguageCode: "en", Text: "a"},
		{StartS: 3, EndS: 6, LanguageCode: "en", Text: "b"},
		{StartS: 6, EndS: 9, LanguageCode: "fr", Text: "c"},
	}
	once := mergeDetectedSegments(segments)
	twice := mergeDetectedSegments(once)

	if len(once) != len(twice) {
		t.Fatalf("merge not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("merge not idempotent at %d: %+v vs %+v", i, once[i], twice[i])
		}
	}
}
