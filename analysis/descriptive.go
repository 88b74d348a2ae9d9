// Package analysis computes descriptive statistics and vowel-space metrics
// over canonical datasets.
package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vowelab/vowelspace/dataset"
)

// FormantStats summarizes one formant's distribution.
type FormantStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// GroupStats holds the F1/F2 summaries for one group of rows.
type GroupStats struct {
	F1 FormantStats `json:"f1"`
	F2 FormantStats `json:"f2"`
}

// DescriptiveStats is the full statistical summary of a dataset: overall
// F1/F2 distributions plus per-group breakdowns.
type DescriptiveStats struct {
	Overall DescriptiveOverall    `json:"overall"`
	Groups  map[string]GroupStats `json:"groups,omitempty"`
	GroupBy string                `json:"group_by,omitempty"`
}

// DescriptiveOverall summarizes the whole dataset.
type DescriptiveOverall struct {
	Rows int          `json:"rows"`
	F1   FormantStats `json:"f1"`
	F2   FormantStats `json:"f2"`
}

// Describe computes overall F1/F2 statistics, and per-group statistics when
// groupBy names a canonical grouping field (vowel, speaker or
// native_language). An empty groupBy skips the grouped breakdown.
func Describe(d *dataset.Dataset, groupBy string) (*DescriptiveStats, error) {
	if d.Empty() {
		return nil, fmt.Errorf("cannot describe an empty dataset")
	}

	out := &DescriptiveStats{
		Overall: DescriptiveOverall{
			Rows: d.Len(),
			F1:   summarize(d.F1Values()),
			F2:   summarize(d.F2Values()),
		},
	}

	if groupBy == "" {
		return out, nil
	}

	groups, err := d.GroupBy(groupBy)
	if err != nil {
		return nil, err
	}

	out.GroupBy = groupBy
	out.Groups = make(map[string]GroupStats, len(groups))
	for key, indices := range groups {
		f1 := make([]float64, len(indices))
		f2 := make([]float64, len(indices))
		for k, i := range indices {
			f1[k] = d.Rows[i].F1
			f2[k] = d.Rows[i].F2
		}
		out.Groups[key] = GroupStats{
			F1: summarize(f1),
			F2: summarize(f2),
		}
	}
	return out, nil
}

// summarize computes the distribution summary of one value slice. The input
// is not modified.
func summarize(values []float64) FormantStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := FormantStats{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}
