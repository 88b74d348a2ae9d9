package dataset

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NumericSummary holds summary statistics of one numeric column.
type NumericSummary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Summarize computes summary statistics over a set of values using gonum.
// The standard deviation is the sample deviation, zero for fewer than two
// values.
func Summarize(values []float64) NumericSummary {
	if len(values) == 0 {
		return NumericSummary{}
	}

	s := NumericSummary{
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Mean: stat.Mean(values, nil),
	}
	if len(values) > 1 {
		s.Std = math.Sqrt(stat.Variance(values, nil))
	}
	return s
}
