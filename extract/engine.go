package extract

import (
	"github.com/vowelab/vowelspace/audio"
	"github.com/vowelab/vowelspace/formant"
	"github.com/vowelab/vowelspace/textgrid"
)

// FormantTrack answers formant frequency queries at arbitrary time points.
// Implementations return NaN where no estimate exists.
type FormantTrack interface {
	ValueAt(formant int, time float64) float64
}

// Engine is the acoustic-analysis capability the extractor depends on:
// loading audio, resampling, formant tracking and annotation reading.
// A nil Engine means the capability is unavailable and extraction fails
// fast.
type Engine interface {
	LoadSound(path string) (*audio.Sound, error)
	Resample(s *audio.Sound, targetRate int) (*audio.Sound, error)
	BuildTrack(s *audio.Sound, config formant.Config) (FormantTrack, error)
	LoadAnnotation(path string) (*textgrid.TextGrid, error)
}

// LPCEngine is the default engine: WAV decoding, polyphase resampling and
// LPC formant tracking, with Praat TextGrid annotations.
type LPCEngine struct{}

// NewLPCEngine creates the default acoustic-analysis engine.
func NewLPCEngine() *LPCEngine {
	return &LPCEngine{}
}

func (e *LPCEngine) LoadSound(path string) (*audio.Sound, error) {
	return audio.LoadWAV(path)
}

func (e *LPCEngine) Resample(s *audio.Sound, targetRate int) (*audio.Sound, error) {
	return s.Resample(targetRate)
}

func (e *LPCEngine) BuildTrack(s *audio.Sound, config formant.Config) (FormantTrack, error) {
	return formant.NewTracker(config).TrackSound(s)
}

func (e *LPCEngine) LoadAnnotation(path string) (*textgrid.TextGrid, error) {
	return textgrid.Load(path)
}
