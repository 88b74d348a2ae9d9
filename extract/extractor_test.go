package extract

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/vowelab/vowelspace/audio"
	"github.com/vowelab/vowelspace/dataset"
	"github.com/vowelab/vowelspace/formant"
	"github.com/vowelab/vowelspace/textgrid"
)

// fakeTrack returns fixed formant values and records every query time.
type fakeTrack struct {
	f1, f2  float64
	queried []float64
}

func (ft *fakeTrack) ValueAt(k int, time float64) float64 {
	ft.queried = append(ft.queried, time)
	switch k {
	case 1:
		return ft.f1
	case 2:
		return ft.f2
	}
	return math.NaN()
}

// fakeEngine serves canned sounds, tracks and annotations by path.
type fakeEngine struct {
	sounds      map[string]*audio.Sound
	annotations map[string]*textgrid.TextGrid
	failLoad    map[string]bool
	track       *fakeTrack
	resampled   []string
}

func (e *fakeEngine) LoadSound(path string) (*audio.Sound, error) {
	if e.failLoad[path] {
		return nil, fmt.Errorf("corrupt header")
	}
	s, ok := e.sounds[path]
	if !ok {
		return nil, fmt.Errorf("no such sound %s", path)
	}
	return s, nil
}

func (e *fakeEngine) Resample(s *audio.Sound, targetRate int) (*audio.Sound, error) {
	e.resampled = append(e.resampled, fmt.Sprintf("%d->%d", s.SampleRate, targetRate))
	n := int(s.Duration() * float64(targetRate))
	return &audio.Sound{Samples: make([]float64, n), SampleRate: targetRate}, nil
}

func (e *fakeEngine) BuildTrack(s *audio.Sound, config formant.Config) (FormantTrack, error) {
	return e.track, nil
}

func (e *fakeEngine) LoadAnnotation(path string) (*textgrid.TextGrid, error) {
	tg, ok := e.annotations[path]
	if !ok {
		return nil, fmt.Errorf("no such annotation %s", path)
	}
	return tg, nil
}

// monoSound makes a silent sound of the given duration.
func monoSound(duration float64, rate int) *audio.Sound {
	return &audio.Sound{Samples: make([]float64, int(duration*float64(rate))), SampleRate: rate}
}

// vowelGrid makes a one-tier TextGrid with the given labeled intervals.
func vowelGrid(xmax float64, intervals ...textgrid.Interval) *textgrid.TextGrid {
	return &textgrid.TextGrid{
		XMax: xmax,
		Tiers: []textgrid.Tier{
			{Name: "phones", Class: "IntervalTier", XMax: xmax, Intervals: intervals},
		},
	}
}

func TestExtractNilEngine(t *testing.T) {
	ex := NewExtractor(nil, DefaultConfig())
	ds, meta, err := ex.Extract([]string{"a.wav"}, nil)
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("err = %v, want ErrEngineUnavailable", err)
	}
	if ds == nil || !ds.Empty() {
		t.Error("want an empty dataset when the engine is unavailable")
	}
	if meta == nil || len(meta.ProcessingLog) == 0 {
		t.Error("metadata should record the unavailability")
	}
}

func TestExtractLabeledIntervals(t *testing.T) {
	engine := &fakeEngine{
		sounds: map[string]*audio.Sound{
			"s1_en_take1.wav": monoSound(1.0, 16000),
		},
		annotations: map[string]*textgrid.TextGrid{
			"s1_en_take1.TextGrid": vowelGrid(1.0,
				textgrid.Interval{XMin: 0.2, XMax: 0.4, Text: "a"},
				textgrid.Interval{XMin: 0.4, XMax: 0.6, Text: "t"},
				textgrid.Interval{XMin: 0.6, XMax: 0.8, Text: "i"},
			),
		},
		track: &fakeTrack{f1: 512.34, f2: 1500.51},
	}

	ex := NewExtractor(engine, DefaultConfig())
	ds, meta, err := ex.Extract(
		[]string{"s1_en_take1.wav"},
		[]string{"s1_en_take1.TextGrid"},
	)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// The consonant interval is filtered out.
	if ds.Len() != 2 {
		t.Fatalf("got %d rows, want 2 vowels", ds.Len())
	}

	first := ds.Rows[0]
	if first.Vowel != "a" {
		t.Errorf("first vowel = %q, want a", first.Vowel)
	}
	if first.F1 != 512.3 || first.F2 != 1500.5 {
		t.Errorf("formants = %v/%v, want rounded to one decimal", first.F1, first.F2)
	}
	if first.Speaker != "s1" || first.NativeLanguage != "en" {
		t.Errorf("filename metadata not applied: %+v", first)
	}
	if first.Time == nil || math.Abs(*first.Time-0.3) > 1e-9 {
		t.Errorf("time = %v, want the window midpoint 0.3", first.Time)
	}
	if first.Duration == nil || math.Abs(*first.Duration-200) > 1e-6 {
		t.Errorf("duration = %v, want 200 ms", first.Duration)
	}
	if first.File != "s1_en_take1" {
		t.Errorf("file = %q, want the basename", first.File)
	}

	if len(meta.ProcessingLog) != 1 || !strings.Contains(meta.ProcessingLog[0], "✓") {
		t.Errorf("processing log = %v, want one success entry", meta.ProcessingLog)
	}
	if meta.TotalVowelsExtracted != 2 {
		t.Errorf("total vowels = %d, want 2", meta.TotalVowelsExtracted)
	}
	if len(meta.Files) != 1 || meta.Files[0].VowelsExtracted != 2 {
		t.Errorf("file report = %+v, want 2 vowels", meta.Files)
	}
}

func TestExtractShortIntervalSampledOnce(t *testing.T) {
	track := &fakeTrack{f1: 500, f2: 1500}
	engine := &fakeEngine{
		sounds: map[string]*audio.Sound{"x.wav": monoSound(1.0, 16000)},
		annotations: map[string]*textgrid.TextGrid{
			"x.TextGrid": vowelGrid(1.0,
				textgrid.Interval{XMin: 0.1, XMax: 0.115, Text: "a"},
			),
		},
		track: track,
	}

	ex := NewExtractor(engine, DefaultConfig())
	ds, _, err := ex.Extract([]string{"x.wav"}, []string{"x.TextGrid"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("got %d rows, want 1", ds.Len())
	}

	distinct := make(map[float64]struct{})
	for _, q := range track.queried {
		distinct[q] = struct{}{}
	}
	if len(distinct) != 1 {
		t.Fatalf("15 ms interval queried at %d distinct times, want only the midpoint", len(distinct))
	}
	mid := (0.1 + 0.115) / 2
	if _, ok := distinct[mid]; !ok {
		t.Errorf("queried times %v, want midpoint %v", track.queried, mid)
	}
}

func TestExtractLongIntervalWindowSampling(t *testing.T) {
	track := &fakeTrack{f1: 500, f2: 1500}
	engine := &fakeEngine{
		sounds: map[string]*audio.Sound{"x.wav": monoSound(1.0, 16000)},
		annotations: map[string]*textgrid.TextGrid{
			"x.TextGrid": vowelGrid(1.0,
				textgrid.Interval{XMin: 0.2, XMax: 0.4, Text: "a"},
			),
		},
		track: track,
	}

	ex := NewExtractor(engine, DefaultConfig())
	if _, _, err := ex.Extract([]string{"x.wav"}, []string{"x.TextGrid"}); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	distinct := make(map[float64]struct{})
	for _, q := range track.queried {
		distinct[q] = struct{}{}
	}
	if len(distinct) != 5 {
		t.Fatalf("200 ms interval queried at %d distinct times, want 5 window points", len(distinct))
	}
	for q := range distinct {
		if q < 0.275-1e-9 || q > 0.325+1e-9 {
			t.Errorf("query time %v outside the middle window [0.275, 0.325]", q)
		}
	}
}

func TestExtractUnlabeledFallbackSampling(t *testing.T) {
	track := &fakeTrack{f1: 500, f2: 1500}
	ex := NewExtractor(&fakeEngine{track: track}, DefaultConfig())

	rows := ex.extractRegular(track, 1.0, FileMetadata{Speaker: "s1"}, "clip")
	if len(rows) == 0 {
		t.Fatal("regular sampling produced no rows")
	}
	for _, r := range rows {
		if r.Vowel != UnlabeledVowel {
			t.Fatalf("row vowel = %q, want %q", r.Vowel, UnlabeledVowel)
		}
		if r.Time == nil || *r.Time < 0.1 || *r.Time > 0.9 {
			t.Errorf("sample time %v within 100 ms of an edge", r.Time)
		}
	}
	if want := 16; len(rows) != want {
		t.Errorf("got %d samples, want %d at a 50 ms step over 0.8 s", len(rows), want)
	}
	step := *rows[1].Time - *rows[0].Time
	if math.Abs(step-0.05) > 1e-9 {
		t.Errorf("sampling step = %v, want 0.05", step)
	}
}

func TestExtractNoAnnotationYieldsNoLabeledRows(t *testing.T) {
	engine := &fakeEngine{
		sounds: map[string]*audio.Sound{"clip.wav": monoSound(1.0, 16000)},
		track:  &fakeTrack{f1: 500, f2: 1500},
	}

	ex := NewExtractor(engine, DefaultConfig())
	ds, meta, err := ex.Extract([]string{"clip.wav"}, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// Unlabeled rows never survive the final vowel filter.
	if !ds.Empty() {
		t.Errorf("got %d rows, want none after unlabeled filtering", ds.Len())
	}
	if len(meta.ProcessingLog) != 1 {
		t.Errorf("processing log = %v, want one entry", meta.ProcessingLog)
	}
}

func TestExtractPartialBatchFailure(t *testing.T) {
	grid := func(name string) *textgrid.TextGrid {
		return vowelGrid(1.0, textgrid.Interval{XMin: 0.2, XMax: 0.4, Text: "a"})
	}
	engine := &fakeEngine{
		sounds: map[string]*audio.Sound{
			"a.wav": monoSound(1.0, 16000),
			"c.wav": monoSound(1.0, 16000),
		},
		annotations: map[string]*textgrid.TextGrid{
			"a.TextGrid": grid("a"),
			"c.TextGrid": grid("c"),
		},
		failLoad: map[string]bool{"b.wav": true},
		track:    &fakeTrack{f1: 500, f2: 1500},
	}

	ex := NewExtractor(engine, DefaultConfig())
	ds, meta, err := ex.Extract(
		[]string{"a.wav", "b.wav", "c.wav"},
		[]string{"a.TextGrid", "c.TextGrid"},
	)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if ds.Len() != 2 {
		t.Errorf("got %d rows, want one per surviving file", ds.Len())
	}
	if len(meta.ProcessingLog) != 3 {
		t.Fatalf("processing log has %d entries, want exactly 3: %v",
			len(meta.ProcessingLog), meta.ProcessingLog)
	}
	if !strings.Contains(meta.ProcessingLog[0], "✓") ||
		!strings.Contains(meta.ProcessingLog[2], "✓") {
		t.Errorf("entries 1 and 3 should be successes: %v", meta.ProcessingLog)
	}
	if !strings.Contains(meta.ProcessingLog[1], "✗") ||
		!strings.Contains(meta.ProcessingLog[1], "b.wav") {
		t.Errorf("entry 2 should mark b.wav as failed: %v", meta.ProcessingLog[1])
	}
	if len(meta.Files) != 2 {
		t.Errorf("file reports = %d, want 2 surviving files", len(meta.Files))
	}
}

func TestExtractResamplesToTargetRate(t *testing.T) {
	engine := &fakeEngine{
		sounds: map[string]*audio.Sound{"hi.wav": monoSound(1.0, 44100)},
		annotations: map[string]*textgrid.TextGrid{
			"hi.TextGrid": vowelGrid(1.0, textgrid.Interval{XMin: 0.2, XMax: 0.4, Text: "a"}),
		},
		track: &fakeTrack{f1: 500, f2: 1500},
	}

	ex := NewExtractor(engine, DefaultConfig())
	_, meta, err := ex.Extract([]string{"hi.wav"}, []string{"hi.TextGrid"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(engine.resampled) != 1 || engine.resampled[0] != "44100->16000" {
		t.Errorf("resample calls = %v, want one 44100->16000", engine.resampled)
	}
	report := meta.Files[0]
	if !report.WasResampled || report.OriginalSampleRate != 44100 || report.FinalSampleRate != 16000 {
		t.Errorf("report = %+v, want resampling recorded", report)
	}
}

func TestExtractBackfillsSpeakerAndLanguage(t *testing.T) {
	// A one-token filename gives a speaker but no language.
	engine := &fakeEngine{
		sounds: map[string]*audio.Sound{"solo.wav": monoSound(1.0, 16000)},
		annotations: map[string]*textgrid.TextGrid{
			"solo.TextGrid": vowelGrid(1.0, textgrid.Interval{XMin: 0.2, XMax: 0.4, Text: "a"}),
		},
		track: &fakeTrack{f1: 500, f2: 1500},
	}

	ex := NewExtractor(engine, DefaultConfig())
	ds, _, err := ex.Extract([]string{"solo.wav"}, []string{"solo.TextGrid"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	row := ds.Rows[0]
	if row.Speaker != "solo" {
		t.Errorf("speaker = %q, want solo", row.Speaker)
	}
	if row.NativeLanguage != dataset.Unknown {
		t.Errorf("native_language = %q, want %q", row.NativeLanguage, dataset.Unknown)
	}
}

func TestSelectTier(t *testing.T) {
	grid := &textgrid.TextGrid{Tiers: []textgrid.Tier{
		{Name: "words"},
		{Name: "Phones"},
	}}
	if got := selectTier(grid); got.Name != "Phones" {
		t.Errorf("selected tier %q, want Phones", got.Name)
	}

	noMatch := &textgrid.TextGrid{Tiers: []textgrid.Tier{{Name: "misc"}}}
	if got := selectTier(noMatch); got.Name != "misc" {
		t.Errorf("selected tier %q, want the first tier as fallback", got.Name)
	}
}

func TestParseFilenameMetadata(t *testing.T) {
	tests := []struct {
		base     string
		speaker  string
		language string
	}{
		{"s1_en_take1", "s1", "en"},
		{"s1-en", "s1", "en"},
		{"s1.en.rec", "s1", "en"},
		{"solo", "solo", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		md := parseFilenameMetadata(tt.base)
		if md.Speaker != tt.speaker || md.NativeLanguage != tt.language {
			t.Errorf("parseFilenameMetadata(%q) = %+v, want %s/%s",
				tt.base, md, tt.speaker, tt.language)
		}
	}
}
