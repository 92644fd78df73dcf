package multilang

import (
	"context"
	"testing"
)

func newTestEngine(loader ModelLoader) *Engine {
	cache := NewModelCache(loader, func(size ModelSize) (string, error) {
		return string(size) + ".bin", nil
	})
	return NewEngine(cache)
}

func TestMultilangTranscribeFastPathSingleLanguage(t *testing.T) {
	calls := 0
	loader := func(size ModelSize, path string) (TranscribeModel, error) {
		calls++
		return newMockModel(
			TranscribeResult{Text: "hello world", Language: "en"},
			TranscribeResult{Text: "hello world", Language: "en"},
			TranscribeResult{Text: "hello world", Language: "en"},
			TranscribeResult{Text: "hello world this is a whole clip", Language: "en"},
		), nil
	}
	engine := newTestEngine(loader)

	opts := DefaultOptions()
	opts.AccurateModelSize = ModelMedium
	opts.AllowedLanguages = map[string]bool{"en": true}

	result, err := engine.MultilangTranscribe(context.Background(), silentSource(10.0), opts, nil)
	if err != nil {
		t.Fatalf("MultilangTranscribe: %v", err)
	}
	if result.Classification.Mode != ModeSingle {
		t.Fatalf("expected single classification, got %s", result.Classification.Mode)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("expected exactly 1 FinalSegment on fast path, got %d", len(result.Segments))
	}
	if result.Segments[0].LanguageCode != "en" {
		t.Fatalf("expected en, got %s", result.Segments[0].LanguageCode)
	}
	if result.Text == "" {
		t.Fatalf("expected non-empty text")
	}
}

func TestMultilangTranscribeRequiresAccurateModel(t *testing.T) {
	engine := newTestEngine(func(size ModelSize, path string) (TranscribeModel, error) {
		return newMockModel(), nil
	})
	_, err := engine.MultilangTranscribe(context.Background(), silentSource(5.0), Options{}, nil)
	if err == nil {
		t.Fatalf("expected error when AccurateModelSize is unset")
	}
}

func TestMultilangTranscribeSkipSamplingSingleAllowedIsFastPath(t *testing.T) {
	loader := func(size ModelSize, path string) (TranscribeModel, error) {
		return newMockModel(TranscribeResult{Text: "only one language here", Language: "en"}), nil
	}
	engine := newTestEngine(loader)

	opts := DefaultOptions()
	opts.AccurateModelSize = ModelMedium
	opts.SkipSampling = true
	opts.AllowedLanguages = map[string]bool{"en": true}

	result, err := engine.MultilangTranscribe(context.Background(), silentSource(8.0), opts, nil)
	if err != nil {
		t.Fatalf("MultilangTranscribe: %v", err)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("expected 1 segment on skip-sampling single-allowed fast path, got %d", len(result.Segments))
	}
}

func TestFinalSegmentsAreOrderedAndNonOverlapping(t *testing.T) {
	finals := []FinalSegment{
		{StartS: 0, EndS: 3, LanguageCode: "en", Text: "a"},
		{StartS: 3, EndS: 6, LanguageCode: "fr", Text: "b"},
		{StartS: 6, EndS: 9, LanguageCode: "en", Text: "c"},
	}
	for i := 0; i < len(finals)-1; i++ {
		if finals[i].EndS > finals[i+1].StartS {
			t.Fatalf("segments %d and %d overlap", i, i+1)
		}
	}
}

func TestReportTextEqualsSpaceJoinedSegments(t *testing.T) {
	finals := []FinalSegment{
		{StartS: 0, EndS: 3, LanguageCode: "en", Text: "hello"},
		{StartS: 3, EndS: 6, LanguageCode: "fr", Text: "monde"},
	}
	result := BuildReport(finals, Classification{Mode: ModeMixed}, Options{})
	if result.Text != "hello monde" {
		t.Fatalf("expected space-joined text, got %q", result.Text)
	}
}
