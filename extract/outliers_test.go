package extract

import (
	"testing"

	"github.com/vowelab/vowelspace/dataset"
)

func rowsOf(vowel string, f1Values []float64, f2 float64) []dataset.Row {
	rows := make([]dataset.Row, len(f1Values))
	for i, f1 := range f1Values {
		rows[i] = dataset.Row{
			Vowel: vowel, F1: f1, F2: f2,
			Speaker: "s1", NativeLanguage: "en",
		}
	}
	return rows
}

func TestOutlierFilterSmallGroupsPassThrough(t *testing.T) {
	d := dataset.New()
	d.Append(rowsOf("i", []float64{300, 5000}, 2300)...)

	got := NewOutlierFilter(0).Apply(d)
	if got.Len() != 2 {
		t.Fatalf("got %d rows, want both rows of a 2-member group kept", got.Len())
	}
}

func TestOutlierFilterRemovesExtremeValue(t *testing.T) {
	d := dataset.New()
	d.Append(rowsOf("a", []float64{100, 102, 101, 5000}, 1200)...)

	got := NewOutlierFilter(3.0).Apply(d)
	if got.Len() != 3 {
		t.Fatalf("got %d rows, want the 5000 Hz row removed", got.Len())
	}
	for _, r := range got.Rows {
		if r.F1 == 5000 {
			t.Fatal("the 5000 Hz outlier survived filtering")
		}
	}
}

func TestOutlierFilterPerGroupIndependence(t *testing.T) {
	d := dataset.New()
	// 700 Hz is normal for "a" but would be extreme among "i" rows.
	d.Append(rowsOf("a", []float64{695, 700, 710, 705}, 1200)...)
	d.Append(rowsOf("i", []float64{300, 305, 310, 295}, 2300)...)

	got := NewOutlierFilter(3.0).Apply(d)
	if got.Len() != 8 {
		t.Fatalf("got %d rows, want all 8 kept across independent groups", got.Len())
	}
}

func TestOutlierFilterUniformGroupKept(t *testing.T) {
	d := dataset.New()
	d.Append(rowsOf("u", []float64{350, 350, 350, 350}, 800)...)

	got := NewOutlierFilter(3.0).Apply(d)
	if got.Len() != 4 {
		t.Fatalf("got %d rows, want a zero-spread group kept whole", got.Len())
	}
}

func TestOutlierFilterChecksBothFormants(t *testing.T) {
	d := dataset.New()
	d.Append(
		dataset.Row{Vowel: "e", F1: 450, F2: 2100, Speaker: "s1", NativeLanguage: "en"},
		dataset.Row{Vowel: "e", F1: 452, F2: 2110, Speaker: "s1", NativeLanguage: "en"},
		dataset.Row{Vowel: "e", F1: 451, F2: 2090, Speaker: "s1", NativeLanguage: "en"},
		dataset.Row{Vowel: "e", F1: 449, F2: 9000, Speaker: "s1", NativeLanguage: "en"},
	)

	got := NewOutlierFilter(3.0).Apply(d)
	if got.Len() != 3 {
		t.Fatalf("got %d rows, want the F2 outlier removed", got.Len())
	}
	for _, r := range got.Rows {
		if r.F2 == 9000 {
			t.Fatal("the F2 outlier survived filtering")
		}
	}
}

func TestOutlierFilterDefaultThreshold(t *testing.T) {
	f := NewOutlierFilter(-1)
	if f.threshold != DefaultOutlierThreshold {
		t.Errorf("threshold = %v, want default %v", f.threshold, DefaultOutlierThreshold)
	}
}
