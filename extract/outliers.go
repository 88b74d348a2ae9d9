package extract

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/vowelab/vowelspace/dataset"
	"github.com/vowelab/vowelspace/logging"
)

// DefaultOutlierThreshold is the number of standard deviations from the
// per-vowel mean beyond which a measurement is discarded.
const DefaultOutlierThreshold = 3.0

// OutlierFilter removes statistically extreme formant measurements within
// each vowel group. Groups too small for a meaningful spread estimate pass
// through unchanged.
type OutlierFilter struct {
	threshold float64
	log       logging.Logger
}

// NewOutlierFilter creates a filter with the given threshold. Non-positive
// thresholds fall back to the default.
func NewOutlierFilter(threshold float64) *OutlierFilter {
	if threshold <= 0 {
		threshold = DefaultOutlierThreshold
	}
	return &OutlierFilter{
		threshold: threshold,
		log:       logging.WithFields(logging.Fields{"component": "outlier_filter"}),
	}
}

// Apply returns a new dataset with outlier rows removed. A row survives only
// if both its F1 and F2 lie within threshold standard deviations of its
// vowel group's mean, where the group statistics for each row exclude the
// row itself. The exclusion matters: with the candidate included, a single
// extreme value in a small group inflates the spread enough to shield
// itself, since no point of an n-sample group can sit more than about
// sqrt(n) deviations from a mean it contributes to. Groups with fewer than
// three rows are kept whole.
func (f *OutlierFilter) Apply(d *dataset.Dataset) *dataset.Dataset {
	out := dataset.New()
	keep := make([]bool, d.Len())

	for vowel, indices := range d.GroupByVowel() {
		if len(indices) < 3 {
			for _, i := range indices {
				keep[i] = true
			}
			continue
		}

		f1 := make([]float64, len(indices))
		f2 := make([]float64, len(indices))
		for k, i := range indices {
			f1[k] = d.Rows[i].F1
			f2[k] = d.Rows[i].F2
		}

		dropped := 0
		for k, i := range indices {
			f1Mean, f1Std := stat.MeanStdDev(excluding(f1, k), nil)
			f2Mean, f2Std := stat.MeanStdDev(excluding(f2, k), nil)
			if withinSpread(f1[k], f1Mean, f1Std, f.threshold) &&
				withinSpread(f2[k], f2Mean, f2Std, f.threshold) {
				keep[i] = true
			} else {
				dropped++
			}
		}
		if dropped > 0 {
			f.log.Debug("outliers removed", logging.Fields{
				"vowel":   vowel,
				"dropped": dropped,
				"kept":    len(indices) - dropped,
			})
		}
	}

	for i, row := range d.Rows {
		if keep[i] {
			out.Append(row)
		}
	}
	return out
}

// excluding returns values with the element at index k removed.
func excluding(values []float64, k int) []float64 {
	out := make([]float64, 0, len(values)-1)
	out = append(out, values[:k]...)
	return append(out, values[k+1:]...)
}

// withinSpread reports whether v lies within threshold standard deviations
// of the mean. A degenerate spread keeps only values exactly at the mean.
func withinSpread(v, mean, std, threshold float64) bool {
	if std == 0 || math.IsNaN(std) {
		return v == mean
	}
	return math.Abs(v-mean) <= threshold*std
}
