// Package audio loads audio files into normalized mono sample buffers and
// converts them between sample rates.
package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"

	"github.com/vowelab/vowelspace/logging"
)

// Sound is decoded audio: mono float64 samples normalized to [-1, 1].
type Sound struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the sound length in seconds.
func (s *Sound) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// LoadWAV decodes a WAV file into a mono Sound. Multi-channel audio is
// mixed down by averaging channels.
func LoadWAV(path string) (*Sound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", filepath.Base(path))
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%s: missing format information", filepath.Base(path))
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}

	logging.Debug("wav decoded", logging.Fields{
		"path":        filepath.Base(path),
		"sample_rate": buf.Format.SampleRate,
		"channels":    channels,
		"frames":      frames,
	})

	return &Sound{
		Samples:    samples,
		SampleRate: buf.Format.SampleRate,
	}, nil
}
