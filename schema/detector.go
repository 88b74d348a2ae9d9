package schema

import (
	"strings"

	"github.com/vowelab/vowelspace/dataset"
	"github.com/vowelab/vowelspace/logging"
)

// Mapping maps canonical field names to the original column names they were
// detected from.
type Mapping map[string]string

// Expected formant frequency ranges in Hz, used by the value-range heuristic.
var formantRanges = map[string][2]float64{
	dataset.FieldF1: {200, 1000},
	dataset.FieldF2: {800, 3000},
	dataset.FieldF3: {1500, 4000},
}

// englishVowelCodes is the closed set of common romanized/ARPABET-style vowel
// abbreviations the vowel-column heuristic recognizes.
var englishVowelCodes = map[string]struct{}{
	"i": {}, "e": {}, "a": {}, "o": {}, "u": {},
	"ih": {}, "eh": {}, "ae": {}, "ah": {}, "ao": {}, "uh": {},
	"uw": {}, "iy": {}, "ey": {}, "ay": {}, "oy": {}, "aw": {}, "ow": {},
}

// ipaVowelChars holds IPA vowel symbols the vowel-column heuristic looks for
// inside sampled values.
const ipaVowelChars = "iɪeɛæaɑɒʌɔoʊuɯʏyøœɜəɘɵɤɐ"

// Detector infers which columns of a raw table carry the canonical semantic
// fields, from column names first and column contents second. Detection is a
// pure function of the input table.
type Detector struct {
	log logging.Logger
}

// NewDetector creates a schema detector.
func NewDetector() *Detector {
	return &Detector{
		log: logging.WithFields(logging.Fields{"component": "schema.detector"}),
	}
}

// Detect returns the canonical-field to original-column mapping for the
// table. It fails with a DetectionError if neither phase can locate F1 or F2.
func (d *Detector) Detect(t *dataset.Table) (Mapping, error) {
	detected := make(Mapping)
	claimed := make(map[string]bool)
	columns := t.Columns()

	// Phase 1: name-pattern matching. Fields are tried in declared order;
	// within a field, columns are scanned in their original order and the
	// first column matching any pattern is claimed. A claimed column is
	// never reconsidered for another field.
	for _, fp := range namePatterns {
		for _, col := range columns {
			if claimed[col] {
				continue
			}
			if fp.matches(strings.ToLower(strings.TrimSpace(col))) {
				detected[fp.field] = col
				claimed[col] = true
				break
			}
		}
	}

	// Phase 2: content heuristics for fields the patterns missed, applied
	// in fixed rule order.
	for _, rule := range heuristicRules {
		if _, ok := detected[rule.field]; ok {
			continue
		}
		for _, col := range columns {
			if claimed[col] {
				continue
			}
			if rule.match(t, col) {
				detected[rule.field] = col
				claimed[col] = true
				d.log.Debug("column detected by heuristic", logging.Fields{
					"rule":   rule.name,
					"field":  rule.field,
					"column": col,
				})
				break
			}
		}
	}

	var missing []string
	for _, field := range []string{dataset.FieldF1, dataset.FieldF2} {
		if _, ok := detected[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &DetectionError{Missing: missing}
	}

	return detected, nil
}

// heuristicRule pairs a canonical field with a content predicate. Rules are
// applied in table order; the first unclaimed column satisfying the
// predicate is claimed for the field.
type heuristicRule struct {
	field string
	name  string
	match func(t *dataset.Table, col string) bool
}

var heuristicRules = []heuristicRule{
	{dataset.FieldF1, "formant-range-f1", formantRangeRule(dataset.FieldF1)},
	{dataset.FieldF2, "formant-range-f2", formantRangeRule(dataset.FieldF2)},
	{dataset.FieldF3, "formant-range-f3", formantRangeRule(dataset.FieldF3)},
	{dataset.FieldTime, "time-monotonicity", timeRule},
	{dataset.FieldVowel, "vowel-short-categorical", vowelRule},
	{dataset.FieldSpeaker, "generic-categorical", categoricalRule(50)},
}

// formantRangeRule accepts a numeric column whose mean falls inside the
// expected range for the formant and whose extremes stay within 0.5x-1.5x
// of that range.
func formantRangeRule(field string) func(*dataset.Table, string) bool {
	bounds := formantRanges[field]
	lo, hi := bounds[0], bounds[1]

	return func(t *dataset.Table, col string) bool {
		values, numeric := t.Floats(col)
		if !numeric {
			return false
		}
		s := dataset.Summarize(values)
		if s.Mean < lo || s.Mean > hi {
			return false
		}
		return s.Min >= lo*0.5 && s.Max <= hi*1.5
	}
}

// timeRule accepts a numeric, non-negative column bounded below 10000 where
// at least 80% of successive differences are non-negative.
func timeRule(t *dataset.Table, col string) bool {
	values, numeric := t.Floats(col)
	if !numeric {
		return false
	}
	s := dataset.Summarize(values)
	if s.Min < 0 || s.Max >= 10000 {
		return false
	}
	if len(values) < 2 {
		return false
	}

	nonNegative := 0
	for i := 1; i < len(values); i++ {
		if values[i]-values[i-1] >= 0 {
			nonNegative++
		}
	}
	return float64(nonNegative)/float64(len(values)-1) > 0.8
}

// vowelRule accepts a short categorical string column whose sampled values
// look like phonetic vowel labels, either by containing an IPA vowel symbol
// or by matching a romanized vowel abbreviation.
func vowelRule(t *dataset.Table, col string) bool {
	if _, numeric := t.Floats(col); numeric {
		return false
	}
	uniques := t.UniqueStrings(col)
	if len(uniques) < 2 || len(uniques) > 30 {
		return false
	}

	values := t.Strings(col)
	if len(values) == 0 {
		return false
	}
	totalLen := 0
	for _, v := range values {
		totalLen += len([]rune(v))
	}
	if float64(totalLen)/float64(len(values)) > 8 {
		return false
	}

	samples := uniques
	if len(samples) > 10 {
		samples = samples[:10]
	}
	for _, v := range samples {
		lower := strings.ToLower(v)
		if strings.ContainsAny(lower, ipaVowelChars) {
			return true
		}
		if _, ok := englishVowelCodes[lower]; ok {
			return true
		}
	}
	return false
}

// categoricalRule accepts the first string column with between 2 and
// maxUnique distinct values, the shape speaker identifiers usually take.
func categoricalRule(maxUnique int) func(*dataset.Table, string) bool {
	return func(t *dataset.Table, col string) bool {
		if _, numeric := t.Floats(col); numeric {
			return false
		}
		n := len(t.UniqueStrings(col))
		return n >= 2 && n <= maxUnique
	}
}
