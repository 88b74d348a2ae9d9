package dataset

import "math/rand"

// exampleCentroids are canonical F1/F2 centers for the five cardinal vowels,
// with per-vowel spreads matching typical adult speech.
var exampleCentroids = []struct {
	vowel          string
	f1, f2         float64
	f1Std, f2Std   float64
}{
	{"i", 300, 2300, 20, 100},
	{"e", 450, 2100, 30, 100},
	{"a", 700, 1200, 40, 100},
	{"o", 500, 900, 30, 80},
	{"u", 350, 800, 25, 80},
}

// Example generates a deterministic sample dataset of five cardinal vowels
// with ten observations each, useful for demos and tests.
func Example() *Dataset {
	rng := rand.New(rand.NewSource(1))

	d := New()
	for _, c := range exampleCentroids {
		for range 10 {
			d.Append(Row{
				Vowel:          c.vowel,
				F1:             c.f1 + rng.NormFloat64()*c.f1Std,
				F2:             c.f2 + rng.NormFloat64()*c.f2Std,
				Speaker:        Unknown,
				NativeLanguage: Unknown,
			})
		}
	}
	return d
}
