package phone

import "testing"

func TestIsVowel(t *testing.T) {
	f := NewVowelFilter()

	tests := []struct {
		label string
		want  bool
	}{
		{"AA", true},
		{"aa", true},
		{"AH0", true},
		{"IY1", true},
		{"UW2", true},
		{"i", true},
		{"e", true},
		{"a", true},
		{"u", true},
		{"ɪ", true},
		{"ʊ", true},
		{"æ", true},
		{"ə", true},
		{"iː", true},
		{"ˈa", true},
		{"ˌoʊ", true},
		{"ae", true},

		{"", false},
		{"   ", false},
		{"t", false},
		{"s", false},
		{"th", false},
		{"SH", false},
		{"K", false},
		{"sil", false},
		{"sp", false},
		{"unlabeled", false},
		{"b1", false},
	}

	for _, tt := range tests {
		if got := f.IsVowel(tt.label); got != tt.want {
			t.Errorf("IsVowel(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestIsVowelCustomSets(t *testing.T) {
	f := NewVowelFilterWithSets([]string{"XX"}, "q")

	if !f.IsVowel("XX1") {
		t.Error("custom ARPABET code XX1 should be accepted")
	}
	if !f.IsVowel("q") {
		t.Error("custom IPA char q should be accepted")
	}
	if f.IsVowel("AA") {
		t.Error("default ARPABET code AA should not be accepted by a custom filter")
	}
}

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"é", "e"}, // combining acute
		{"ã", "a"}, // combining tilde
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := StripDiacritics(tt.in); got != tt.want {
			t.Errorf("StripDiacritics(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
