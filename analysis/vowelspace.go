package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vowelab/vowelspace/dataset"
)

// Centroid is the mean position of one vowel in the F1/F2 plane.
type Centroid struct {
	F1 float64 `json:"f1"`
	F2 float64 `json:"f2"`
}

// VowelSpaceMetrics describes the geometry of a speaker's vowel space:
// per-vowel centroids, the overall formant ranges, and the area of the
// polygon spanned by the centroids.
type VowelSpaceMetrics struct {
	Centroids map[string]Centroid `json:"centroids"`
	F1Range   [2]float64          `json:"f1_range"`
	F2Range   [2]float64          `json:"f2_range"`

	// Area is the convex-hull area of the centroids in Hz². Zero when fewer
	// than three distinct vowels are present.
	Area float64 `json:"area"`
}

// VowelSpace computes vowel-space geometry from a canonical dataset.
func VowelSpace(d *dataset.Dataset) (*VowelSpaceMetrics, error) {
	if d.Empty() {
		return nil, fmt.Errorf("cannot compute vowel space of an empty dataset")
	}

	m := &VowelSpaceMetrics{
		Centroids: make(map[string]Centroid),
	}

	var points [][2]float64
	for vowel, indices := range d.GroupByVowel() {
		f1 := make([]float64, len(indices))
		f2 := make([]float64, len(indices))
		for k, i := range indices {
			f1[k] = d.Rows[i].F1
			f2[k] = d.Rows[i].F2
		}
		c := Centroid{F1: stat.Mean(f1, nil), F2: stat.Mean(f2, nil)}
		m.Centroids[vowel] = c
		points = append(points, [2]float64{c.F1, c.F2})
	}

	f1s := d.F1Values()
	f2s := d.F2Values()
	m.F1Range = [2]float64{floats.Min(f1s), floats.Max(f1s)}
	m.F2Range = [2]float64{floats.Min(f2s), floats.Max(f2s)}
	m.Area = convexHullArea(points)

	return m, nil
}

// convexHullArea returns the area of the convex hull of the points, via the
// monotone chain construction and the shoelace formula. Fewer than three
// points span no area.
func convexHullArea(points [][2]float64) float64 {
	if len(points) < 3 {
		return 0
	}

	hull := convexHull(points)
	if len(hull) < 3 {
		return 0
	}

	area := 0.0
	for i := range hull {
		j := (i + 1) % len(hull)
		area += hull[i][0]*hull[j][1] - hull[j][0]*hull[i][1]
	}
	return math.Abs(area) / 2
}

// convexHull computes the hull in counterclockwise order (monotone chain).
func convexHull(points [][2]float64) [][2]float64 {
	pts := make([][2]float64, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	var lower [][2]float64
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper [][2]float64
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
