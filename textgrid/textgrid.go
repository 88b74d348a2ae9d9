// Package textgrid reads Praat TextGrid annotation files: tiers of labeled,
// time-aligned intervals over a recording.
package textgrid

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Interval is one labeled stretch of time on a tier.
type Interval struct {
	XMin float64
	XMax float64
	Text string
}

// Duration returns the interval length in seconds.
func (iv Interval) Duration() float64 {
	return iv.XMax - iv.XMin
}

// Midpoint returns the temporal midpoint of the interval.
func (iv Interval) Midpoint() float64 {
	return (iv.XMin + iv.XMax) / 2
}

// Tier is one annotation tier. Point tiers are represented as intervals of
// zero width so callers can treat all tiers uniformly.
type Tier struct {
	Name      string
	Class     string
	XMin      float64
	XMax      float64
	Intervals []Interval
}

// TextGrid is a parsed annotation file.
type TextGrid struct {
	XMin  float64
	XMax  float64
	Tiers []Tier
}

// TierCount returns the number of tiers.
func (tg *TextGrid) TierCount() int {
	return len(tg.Tiers)
}

// Load reads and parses a TextGrid file.
func Load(path string) (*TextGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	tg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return tg, nil
}

// Parse reads a TextGrid in Praat's long text format. The parser is
// line-oriented and tolerant: it keys off "name = value" lines and bracketed
// section headers, so minor formatting differences between Praat versions
// do not matter.
func Parse(r io.Reader) (*TextGrid, error) {
	tg := &TextGrid{}

	var (
		tier     *Tier
		interval *Interval
	)

	flushInterval := func() {
		if tier != nil && interval != nil {
			tier.Intervals = append(tier.Intervals, *interval)
		}
		interval = nil
	}
	flushTier := func() {
		flushInterval()
		if tier != nil {
			tg.Tiers = append(tg.Tiers, *tier)
		}
		tier = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "item ["):
			// "item []:" is the container header; "item [k]:" starts a tier.
			if strings.HasPrefix(line, "item []") {
				continue
			}
			flushTier()
			tier = &Tier{}

		case strings.HasPrefix(line, "intervals [") || strings.HasPrefix(line, "points ["):
			flushInterval()
			interval = &Interval{}

		case strings.Contains(line, "="):
			key, value, _ := strings.Cut(line, "=")
			applyField(tg, tier, interval, strings.TrimSpace(key), strings.TrimSpace(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	flushTier()

	if len(tg.Tiers) == 0 {
		return nil, fmt.Errorf("no tiers found (short TextGrid format is not supported)")
	}
	return tg, nil
}

// applyField assigns one "key = value" line to the innermost open scope:
// interval, then tier, then the file itself.
func applyField(tg *TextGrid, tier *Tier, interval *Interval, key, value string) {
	switch key {
	case "xmin":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return
		}
		switch {
		case interval != nil:
			interval.XMin = v
		case tier != nil:
			tier.XMin = v
		default:
			tg.XMin = v
		}
	case "xmax":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return
		}
		switch {
		case interval != nil:
			interval.XMax = v
		case tier != nil:
			tier.XMax = v
		default:
			tg.XMax = v
		}
	case "number":
		// Point-tier time: a zero-width interval.
		if interval != nil {
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				interval.XMin = v
				interval.XMax = v
			}
		}
	case "text", "mark":
		if interval != nil {
			interval.Text = unquote(value)
		}
	case "name":
		if tier != nil {
			tier.Name = unquote(value)
		}
	case "class":
		if tier != nil {
			tier.Class = unquote(value)
		}
	}
}

// unquote strips surrounding double quotes and unescapes Praat's doubled
// inner quotes.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `""`, `"`)
}
