package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts the sound to the target sample rate using a high-quality
// polyphase resampler. A sound already at the target rate is returned
// unchanged. The receiver is never mutated.
func (s *Sound) Resample(targetRate int) (*Sound, error) {
	if targetRate <= 0 {
		return nil, fmt.Errorf("invalid target sample rate %d", targetRate)
	}
	if s.SampleRate == targetRate {
		return s, nil
	}

	config := &resampling.Config{
		InputRate:  float64(s.SampleRate),
		OutputRate: float64(targetRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	}

	rs, err := resampling.New(config)
	if err != nil {
		return nil, fmt.Errorf("create resampler (%d -> %d Hz): %w", s.SampleRate, targetRate, err)
	}

	out, err := rs.Process(s.Samples)
	if err != nil {
		return nil, fmt.Errorf("resample %d -> %d Hz: %w", s.SampleRate, targetRate, err)
	}

	return &Sound{
		Samples:    out,
		SampleRate: targetRate,
	}, nil
}
