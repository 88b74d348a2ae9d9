package schema

import (
	"regexp"
	"strings"

	"github.com/vowelab/vowelspace/dataset"
)

// fieldPatterns associates one canonical field with an ordered list of
// column-name patterns. Patterns are matched against the lower-cased,
// trimmed column name, anchored at the start.
type fieldPatterns struct {
	field    string
	patterns []*regexp.Regexp
}

// compilePatterns anchors each pattern at the start of the name and compiles
// it case-insensitively, so "f1 (hz)" and "F1_Hz" both hit the same rule.
func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		trimmed := strings.TrimPrefix(expr, "^")
		out = append(out, regexp.MustCompile(`(?i)^(?:`+trimmed+`)`))
	}
	return out
}

// namePatterns lists the known naming conventions per canonical field, in
// detection order. Within a field, earlier patterns are the more specific
// conventions seen in real spreadsheet exports.
var namePatterns = []fieldPatterns{
	{dataset.FieldF1, compilePatterns(
		`^f1$`, `first[\s_-]?formant`, `formant[\s_-]?1`,
		`f1[\s_-]?hz`, `f1[\s_-]?\(hz\)`, `f1[\s_-]?frequency`,
		`formant1`, `f1_hz`,
	)},
	{dataset.FieldF2, compilePatterns(
		`^f2$`, `second[\s_-]?formant`, `formant[\s_-]?2`,
		`f2[\s_-]?hz`, `f2[\s_-]?\(hz\)`, `f2[\s_-]?frequency`,
		`formant2`, `f2_hz`,
	)},
	{dataset.FieldF3, compilePatterns(
		`^f3$`, `third[\s_-]?formant`, `formant[\s_-]?3`,
		`f3[\s_-]?hz`, `f3[\s_-]?\(hz\)`, `f3[\s_-]?frequency`,
		`formant3`, `f3_hz`,
	)},
	{dataset.FieldVowel, compilePatterns(
		`^vowel$`, `^phone$`, `^phoneme$`, `^label$`, `^segment$`,
		`vowel[\s_-]?label`, `phone[\s_-]?label`, `^ipa$`,
		`^sound$`, `^v$`, `^vow$`, `^symbol$`,
	)},
	{dataset.FieldSpeaker, compilePatterns(
		`^speaker$`, `^participant$`, `^subject$`, `^informant$`,
		`^talker$`, `speaker[\s_-]?id`, `subject[\s_-]?id`,
		`^spk$`, `^id$`, `^spkr$`, `participant[\s_-]?id`,
	)},
	{dataset.FieldNativeLanguage, compilePatterns(
		`^native[\s_-]?language$`, `^l1$`, `^first[\s_-]?language$`,
		`^mother[\s_-]?tongue$`, `^language$`, `^lang$`,
		`native[\s_-]?lang`, `l1[\s_-]?language`, `^l1lang$`,
	)},
	{dataset.FieldTime, compilePatterns(
		`^time$`, `^t$`, `timestamp`, `time[\s_-]?point`,
		`time[\s_-]?\(s\)`, `time[\s_-]?\(ms\)`, `midpoint`,
		`duration[\s_-]?time`, `^sec$`, `^seconds$`, `time_s`,
	)},
	{dataset.FieldDuration, compilePatterns(
		`^duration$`, `^dur$`, `length`, `duration[\s_-]?\(s\)`,
		`duration[\s_-]?\(ms\)`, `vowel[\s_-]?duration`,
		`segment[\s_-]?duration`, `dur_s`, `dur_ms`,
	)},
	{dataset.FieldGender, compilePatterns(
		`^gender$`, `^sex$`, `^m/f$`, `speaker[\s_-]?gender`,
		`participant[\s_-]?gender`, `^g$`,
	)},
	{dataset.FieldAge, compilePatterns(
		`^age$`, `speaker[\s_-]?age`, `participant[\s_-]?age`,
		`age[\s_-]?\(years\)`, `^yrs$`,
	)},
}

// matchesField reports whether a normalized column name matches any pattern
// of the given field.
func (fp fieldPatterns) matches(normalizedName string) bool {
	for _, re := range fp.patterns {
		if re.MatchString(normalizedName) {
			return true
		}
	}
	return false
}
