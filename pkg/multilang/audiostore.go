package multilang

import (
	"context"
	"fmt"

	"github.com/jeff-barlow-spady/ramble/pkg/logger"
)

const engineSampleRate = 16000

// AudioStore loads a caller's AudioSource into memory exactly once,
// producing an AudioBuffer that every downstream chunk operation reads
// from directly. Subsequent chunk extractions never re-decode.
type AudioStore struct {
	buf AudioBuffer
}

// Open reads source fully into memory. Fails with DecodeError if the
// source yields zero samples or an unsupported rate.
func Open(ctx context.Context, source AudioSource) (*AudioStore, error) {
	samples, sampleRate, err := source.Decode(ctx)
	if err != nil {
		return nil, DecodeError("audio source", err)
	}
	if len(samples) == 0 {
		return nil, DecodeError("audio source", fmt.Errorf("zero samples decoded"))
	}
	if sampleRate != engineSampleRate {
		return nil, DecodeError("audio source", fmt.Errorf("unsupported sample rate %d, want %d", sampleRate, engineSampleRate))
	}

	logger.Info(logger.CategoryEngine, "loaded %.2fs of audio (%d samples)",
		float64(len(samples))/float64(sampleRate), len(samples))

	return &AudioStore{buf: AudioBuffer{Samples: samples, SampleRate: sampleRate}}, nil
}

// DurationS returns the total duration of the loaded buffer.
func (a *AudioStore) DurationS() float64 {
	return a.buf.DurationS()
}

// Buffer returns the underlying AudioBuffer. Callers must not mutate the
// returned slice.
func (a *AudioStore) Buffer() AudioBuffer {
	return a.buf
}

// Slice returns the sample range covering [startS, endS), clamped to the
// buffer's bounds.
func (a *AudioStore) Slice(startS, endS float64) []float32 {
	sr := float64(a.buf.SampleRate)
	start := int(startS * sr)
	end := int(endS * sr)
	if start < 0 {
		start = 0
	}
	if end > len(a.buf.Samples) {
		end = len(a.buf.Samples)
	}
	if start >= end {
		return nil
	}
	return a.buf.Samples[start:end]
}
