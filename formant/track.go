package formant

import (
	"fmt"
	"math"
	"sort"

	"github.com/vowelab/vowelspace/audio"
	"github.com/vowelab/vowelspace/logging"
)

// Config holds formant tracking parameters.
type Config struct {
	// TimeStep is the hop between analysis frames in seconds.
	TimeStep float64

	// MaxFormants is how many formants each frame reports at most.
	MaxFormants int

	// MaxFormantHz is the frequency ceiling; envelope peaks above it are
	// discarded.
	MaxFormantHz float64

	// WindowLength is the analysis window length in seconds.
	WindowLength float64

	// PreEmphasisFrom is the frequency in Hz above which the signal is
	// emphasized before analysis (first-order pre-emphasis).
	PreEmphasisFrom float64
}

// DefaultConfig returns the standard tracking parameters for vowel
// measurement: 10 ms steps, five formants up to 5500 Hz, 25 ms windows,
// pre-emphasis from 50 Hz.
func DefaultConfig() Config {
	return Config{
		TimeStep:        0.01,
		MaxFormants:     5,
		MaxFormantHz:    5500.0,
		WindowLength:    0.025,
		PreEmphasisFrom: 50.0,
	}
}

// Track holds per-frame formant frequency estimates for one recording.
// Frames are equally spaced; frequencies are NaN where a formant was not
// found.
type Track struct {
	times       []float64
	frames      [][]float64 // frames[i][k-1] = Fk at times[i], NaN if absent
	maxFormants int
}

// Tracker builds formant tracks from sounds.
type Tracker struct {
	config Config
	log    logging.Logger
}

// NewTracker creates a tracker with the given configuration.
func NewTracker(config Config) *Tracker {
	return &Tracker{
		config: config,
		log:    logging.WithFields(logging.Fields{"component": "formant.tracker"}),
	}
}

// TrackSound analyzes the whole sound and returns its formant track.
func (tr *Tracker) TrackSound(s *audio.Sound) (*Track, error) {
	if s == nil || len(s.Samples) == 0 {
		return nil, fmt.Errorf("empty sound")
	}
	if s.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", s.SampleRate)
	}

	windowSize := int(tr.config.WindowLength * float64(s.SampleRate))
	hopSize := int(tr.config.TimeStep * float64(s.SampleRate))
	if windowSize < 2 || hopSize < 1 {
		return nil, fmt.Errorf("window too small: %g s at %d Hz", tr.config.WindowLength, s.SampleRate)
	}
	if len(s.Samples) < windowSize {
		return nil, fmt.Errorf("sound too short for analysis (need at least %d samples, have %d)",
			windowSize, len(s.Samples))
	}

	// Praat's convention: the pre-emphasis frequency maps to a first-order
	// coefficient via alpha = exp(-2*pi*F*dt).
	alpha := math.Exp(-2 * math.Pi * tr.config.PreEmphasisFrom / float64(s.SampleRate))
	window := hammingWindow(windowSize)

	// Two poles per expected resonance plus a margin for spectral tilt.
	lpc := newLPCAnalyzer(2*tr.config.MaxFormants + 2)

	track := &Track{maxFormants: tr.config.MaxFormants}

	frame := make([]float64, windowSize)
	for start := 0; start+windowSize <= len(s.Samples); start += hopSize {
		center := (float64(start) + float64(windowSize)/2) / float64(s.SampleRate)

		// Pre-emphasis then windowing, into a scratch frame so the sound
		// itself is never modified.
		seg := s.Samples[start : start+windowSize]
		frame[0] = seg[0] * window[0]
		for i := 1; i < windowSize; i++ {
			frame[i] = (seg[i] - alpha*seg[i-1]) * window[i]
		}

		freqs := tr.analyzeFrame(lpc, frame, s.SampleRate)
		track.times = append(track.times, center)
		track.frames = append(track.frames, freqs)
	}

	tr.log.Debug("formant track built", logging.Fields{
		"frames":      len(track.times),
		"sample_rate": s.SampleRate,
	})
	return track, nil
}

// analyzeFrame returns the frame's formant frequencies, NaN-padded to
// MaxFormants entries.
func (tr *Tracker) analyzeFrame(lpc *lpcAnalyzer, frame []float64, sampleRate int) []float64 {
	freqs := make([]float64, tr.config.MaxFormants)
	for i := range freqs {
		freqs[i] = math.NaN()
	}

	coeffs, err := lpc.coefficients(frame)
	if err != nil {
		// Silent or degenerate frame; report no formants.
		return freqs
	}

	const nfft = 1024
	envelope := spectralEnvelope(coeffs, nfft)
	freqResolution := float64(sampleRate) / float64(nfft)

	var found []float64
	for _, peakIdx := range envelopePeaks(envelope) {
		frequency := float64(peakIdx) * freqResolution
		if frequency < 50 || frequency > tr.config.MaxFormantHz {
			continue
		}
		found = append(found, frequency)
	}

	sort.Float64s(found)
	for i := 0; i < len(found) && i < tr.config.MaxFormants; i++ {
		freqs[i] = found[i]
	}
	return freqs
}

// ValueAt returns the frequency of the k-th formant (1-based) at time t in
// Hz, linearly interpolated between the two nearest frames. It returns NaN
// when t lies outside the track or the formant is absent around t.
func (t *Track) ValueAt(formant int, time float64) float64 {
	if formant < 1 || formant > t.maxFormants || len(t.times) == 0 {
		return math.NaN()
	}
	if time < t.times[0] || time > t.times[len(t.times)-1] {
		return math.NaN()
	}

	// Index of the first frame at or after the query time.
	idx := sort.SearchFloat64s(t.times, time)
	if idx < len(t.times) && t.times[idx] == time {
		return t.frames[idx][formant-1]
	}

	lo, hi := idx-1, idx
	left := t.frames[lo][formant-1]
	right := t.frames[hi][formant-1]

	switch {
	case math.IsNaN(left) && math.IsNaN(right):
		return math.NaN()
	case math.IsNaN(left):
		return right
	case math.IsNaN(right):
		return left
	}

	frac := (time - t.times[lo]) / (t.times[hi] - t.times[lo])
	return left + frac*(right-left)
}

// Times returns the frame center times of the track.
func (t *Track) Times() []float64 {
	out := make([]float64, len(t.times))
	copy(out, t.times)
	return out
}

// hammingWindow generates symmetric Hamming window coefficients.
func hammingWindow(size int) []float64 {
	window := make([]float64, size)
	for i := range size {
		window[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(size-1))
	}
	return window
}
