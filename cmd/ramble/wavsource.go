package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"github.com/jeff-barlow-spady/ramble/pkg/multilang"
)

// fileAudioSource decodes a 16kHz mono PCM WAV file on disk into the
// engine's AudioSource contract. It does no resampling or channel mixing;
// files recorded any other way must be converted before use.
type fileAudioSource struct {
	path string
}

func newFileAudioSource(path string) multilang.AudioSource {
	return fileAudioSource{path: path}
}

func (f fileAudioSource) Decode(ctx context.Context) ([]float32, int, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if buf.Format == nil {
		return nil, 0, fmt.Errorf("decode %s: missing format chunk", f.path)
	}
	if buf.Format.NumChannels != 1 {
		return nil, 0, fmt.Errorf("%s: expected mono audio, got %d channels", f.path, buf.Format.NumChannels)
	}

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / 32768.0
	}

	return samples, buf.Format.SampleRate, nil
}
