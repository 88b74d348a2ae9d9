package textgrid

import (
	"strings"
	"testing"
)

const sampleLong = `File type = "ooTextFile"
Object class = "TextGrid"

xmin = 0
xmax = 2.5
tiers? <exists>
size = 2
item []:
    item [1]:
        class = "IntervalTier"
        name = "vowels"
        xmin = 0
        xmax = 2.5
        intervals: size = 3
        intervals [1]:
            xmin = 0
            xmax = 0.5
            text = ""
        intervals [2]:
            xmin = 0.5
            xmax = 0.8
            text = "a"
        intervals [3]:
            xmin = 0.8
            xmax = 2.5
            text = "said ""so"""
    item [2]:
        class = "TextTier"
        name = "events"
        xmin = 0
        xmax = 2.5
        points: size = 1
        points [1]:
            number = 1.25
            mark = "click"
`

func TestParseLongFormat(t *testing.T) {
	tg, err := Parse(strings.NewReader(sampleLong))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if tg.XMin != 0 || tg.XMax != 2.5 {
		t.Errorf("file bounds = [%v, %v], want [0, 2.5]", tg.XMin, tg.XMax)
	}
	if tg.TierCount() != 2 {
		t.Fatalf("TierCount = %d, want 2", tg.TierCount())
	}

	vowels := tg.Tiers[0]
	if vowels.Name != "vowels" || vowels.Class != "IntervalTier" {
		t.Errorf("tier 0 = %q/%q, want vowels/IntervalTier", vowels.Name, vowels.Class)
	}
	if len(vowels.Intervals) != 3 {
		t.Fatalf("tier 0 has %d intervals, want 3", len(vowels.Intervals))
	}

	second := vowels.Intervals[1]
	if second.XMin != 0.5 || second.XMax != 0.8 || second.Text != "a" {
		t.Errorf("interval 1 = %+v, want [0.5, 0.8] a", second)
	}
	if got := second.Duration(); got < 0.2999 || got > 0.3001 {
		t.Errorf("Duration = %v, want 0.3", got)
	}
	if got := second.Midpoint(); got < 0.6499 || got > 0.6501 {
		t.Errorf("Midpoint = %v, want 0.65", got)
	}

	if got := vowels.Intervals[2].Text; got != `said "so"` {
		t.Errorf("doubled quotes not unescaped: %q", got)
	}
}

func TestParsePointTier(t *testing.T) {
	tg, err := Parse(strings.NewReader(sampleLong))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	events := tg.Tiers[1]
	if len(events.Intervals) != 1 {
		t.Fatalf("point tier has %d entries, want 1", len(events.Intervals))
	}
	p := events.Intervals[0]
	if p.XMin != 1.25 || p.XMax != 1.25 {
		t.Errorf("point bounds = [%v, %v], want zero-width at 1.25", p.XMin, p.XMax)
	}
	if p.Text != "click" {
		t.Errorf("point mark = %q, want click", p.Text)
	}
}

func TestParseNoTiers(t *testing.T) {
	if _, err := Parse(strings.NewReader("xmin = 0\nxmax = 1\n")); err == nil {
		t.Fatal("a TextGrid without tiers should fail to parse")
	}
}
