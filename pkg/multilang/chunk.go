package multilang

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jeff-barlow-spady/ramble/pkg/logger"
)

// ChunkHandle is a materialized, model-consumable view of an audio
// interval: a temporary mono 16kHz PCM WAV file. Release deletes the
// backing file; it is safe to call more than once.
type ChunkHandle struct {
	Path   string
	StartS float64
	EndS   float64
}

// Duration returns the chunk's length in seconds.
func (h *ChunkHandle) Duration() float64 {
	return h.EndS - h.StartS
}

// Release deletes the chunk's temporary file. Callers should defer this
// immediately after a successful Extract.
func (h *ChunkHandle) Release() {
	if h == nil || h.Path == "" {
		return
	}
	if err := os.Remove(h.Path); err != nil && !os.IsNotExist(err) {
		logger.Warning(logger.CategoryEngine, "failed to remove chunk temp file %s: %v", h.Path, err)
	}
	h.Path = ""
}

// ChunkExtractor materializes [start_s, end_s) windows of an AudioStore's
// buffer as temporary WAV files for model input.
type ChunkExtractor struct {
	store  *AudioStore
	tmpDir string
}

// NewChunkExtractor builds an extractor over store. tmpDir, when empty,
// uses the OS default temp directory.
func NewChunkExtractor(store *AudioStore, tmpDir string) *ChunkExtractor {
	return &ChunkExtractor{store: store, tmpDir: tmpDir}
}

// Extract slices [startS, endS) from the backing buffer and writes it to a
// temporary WAV file. Rejects chunks shorter than minChunkDurationS — too
// short for reliable language identification.
func (e *ChunkExtractor) Extract(startS, endS float64) (*ChunkHandle, error) {
	if endS-startS < minChunkDurationS {
		return nil, fmt.Errorf("%w: %.3fs < %.3fs", ErrChunkTooShort, endS-startS, minChunkDurationS)
	}

	samples := e.store.Slice(startS, endS)
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty slice [%.2f,%.2f]", ErrChunkTooShort, startS, endS)
	}

	f, err := os.CreateTemp(e.tmpDir, "multilang-chunk-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp chunk file: %w", err)
	}
	path := f.Name()

	if err := writeWAVSamples(f, samples); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write chunk wav: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close chunk wav: %w", err)
	}

	return &ChunkHandle{Path: path, StartS: startS, EndS: endS}, nil
}

// writeWAVSamples encodes mono 16kHz f32 samples as 16-bit PCM WAV using
// go-audio/wav, the same package the CLI driver decodes its input with.
func writeWAVSamples(f *os.File, samples []float32) error {
	enc := wav.NewEncoder(f, engineSampleRate, 16, 1, 1)

	intData := make([]int, len(samples))
	for i, s := range samples {
		intData[i] = floatToPCM16(s)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: engineSampleRate},
		Data:   intData,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// readWAVSamples decodes a mono 16-bit PCM WAV file into f32 samples
// normalized to [-1, 1].
func readWAVSamples(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / 32768.0
	}
	return samples, nil
}

func floatToPCM16(sample float32) int {
	if sample > 1.0 {
		sample = 1.0
	} else if sample < -1.0 {
		sample = -1.0
	}
	return int(math.Round(float64(sample) * 32767.0))
}
