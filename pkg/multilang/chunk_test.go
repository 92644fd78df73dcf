package multilang

import (
	"context"
	"os"
	"testing"
)

func TestChunkExtractorRoundTripsSamples(t *testing.T) {
	store, err := Open(context.Background(), silentSource(2.0))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	extractor := NewChunkExtractor(store, t.TempDir())

	handle, err := extractor.Extract(0, 1.0)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer handle.Release()

	if _, err := os.Stat(handle.Path); err != nil {
		t.Fatalf("expected chunk file to exist: %v", err)
	}

	samples, err := readWAVSamples(handle.Path)
	if err != nil {
		t.Fatalf("readWAVSamples: %v", err)
	}
	if len(samples) != engineSampleRate {
		t.Fatalf("expected %d samples for 1s chunk, got %d", engineSampleRate, len(samples))
	}
}

func TestChunkExtractorRejectsTooShort(t *testing.T) {
	store, err := Open(context.Background(), silentSource(2.0))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	extractor := NewChunkExtractor(store, t.TempDir())

	_, err = extractor.Extract(0, 0.05)
	if err == nil {
		t.Fatalf("expected error for sub-minimum-duration chunk")
	}
}

func TestChunkHandleReleaseRemovesFile(t *testing.T) {
	store, err := Open(context.Background(), silentSource(2.0))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	extractor := NewChunkExtractor(store, t.TempDir())

	handle, err := extractor.Extract(0, 1.0)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	path := handle.Path
	handle.Release()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected chunk file to be removed after Release")
	}

	// Second release must be a no-op, not a panic or error.
	handle.Release()
}
