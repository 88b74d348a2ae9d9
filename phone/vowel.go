// Package phone classifies phonetic segment labels. The vowel filter decides
// which annotation labels count as vowel phones, accepting ARPABET vowel
// codes and pure-IPA vowel strings.
package phone

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultARPABETVowels is the ARPABET vowel inventory recognized out of the
// box. Stress digits are stripped before matching, so AH0 and AH1 both hit AH.
var DefaultARPABETVowels = []string{
	"AA", "AE", "AH", "AO", "AW", "AY", "EH", "ER",
	"EY", "IH", "IY", "OW", "OY", "UH", "UW", "UX",
}

// DefaultIPAVowelChars is the IPA vowel symbol inventory recognized out of
// the box, including the plain roman vowel letters.
const DefaultIPAVowelChars = "aeiouyɪʊəɚɝɜɞʌɔɑæɒɛøœɶɨɯʏɐɤɵ"

// VowelFilter reports whether a segment label looks like a vowel phone.
// The rule sets are configurable: corpora with unusual inventories can
// extend them without changing the matching semantics.
type VowelFilter struct {
	arpabet  map[string]struct{}
	ipaChars map[rune]struct{}
}

// NewVowelFilter creates a filter with the default ARPABET and IPA rule sets.
func NewVowelFilter() *VowelFilter {
	return NewVowelFilterWithSets(DefaultARPABETVowels, DefaultIPAVowelChars)
}

// NewVowelFilterWithSets creates a filter with custom rule sets. ARPABET
// codes are matched case-insensitively; ipaChars lists every rune a pure-IPA
// vowel label may consist of.
func NewVowelFilterWithSets(arpabetVowels []string, ipaChars string) *VowelFilter {
	f := &VowelFilter{
		arpabet:  make(map[string]struct{}, len(arpabetVowels)),
		ipaChars: make(map[rune]struct{}, len(ipaChars)),
	}
	for _, code := range arpabetVowels {
		f.arpabet[strings.ToUpper(code)] = struct{}{}
	}
	for _, r := range ipaChars {
		f.ipaChars[r] = struct{}{}
	}
	return f
}

// IsVowel reports whether the label is recognized as a vowel phone.
//
// The label is trimmed, prosodic stress and length marks are removed, and
// combining diacritics are stripped. It then matches if either the
// digit-stripped uppercase form is an ARPABET vowel code, or every remaining
// letter/IPA symbol belongs to the IPA vowel set.
func (f *VowelFilter) IsVowel(label string) bool {
	s := strings.TrimSpace(label)
	if s == "" {
		return false
	}

	// Stress marks and length marks carry no segmental identity.
	replacer := strings.NewReplacer("ˈ", "", "ˌ", "", "ː", "", ":", "")
	s = replacer.Replace(s)
	s = StripDiacritics(s)

	arp := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, strings.ToUpper(s))
	if _, ok := f.arpabet[arp]; ok {
		return true
	}

	// Keep only letters and IPA symbols, then require every one of them to
	// be a vowel symbol.
	cleaned := make([]rune, 0, len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || f.isIPASymbol(r) {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) == 0 {
		return false
	}
	for _, r := range cleaned {
		if _, ok := f.ipaChars[r]; !ok {
			return false
		}
	}
	return true
}

// isIPASymbol reports whether the rune belongs to the filter's non-roman IPA
// inventory.
func (f *VowelFilter) isIPASymbol(r rune) bool {
	if r >= 'a' && r <= 'z' {
		return false
	}
	_, ok := f.ipaChars[r]
	return ok
}

// StripDiacritics removes Unicode combining marks from a label, so accented
// and plain forms of the same symbol compare equal.
func StripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	out := make([]rune, 0, len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
