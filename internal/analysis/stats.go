// Package analysis computes descriptive statistics, correlations and score
// classification over a cleaned dataset.Table. Every function is read-only.
package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats summarizes one numeric column. Values that cannot be computed
// (no data, or a single value for StdDev) are NaN.
type ColumnStats struct {
	Column  dataset.Column
	Mean    float64
	Median  float64
	StdDev  float64
	Min     float64
	Max     float64
	Missing int
}

// Summary is an ordered set of column statistics in schema order.
type Summary []ColumnStats

// Get returns the statistics for c.
func (s Summary) Get(c dataset.Column) (ColumnStats, bool) {
	for _, cs := range s {
		if cs.Column == c {
			return cs, true
		}
	}
	return ColumnStats{}, false
}

// SummaryStatistics describes every numeric column the table carries.
func SummaryStatistics(t *dataset.Table) Summary {
	var out Summary
	for _, c := range dataset.NumericColumns() {
		vals, err := t.Float(c)
		if err != nil {
			continue
		}
		d := describe(vals)
		out = append(out, ColumnStats{
			Column:  c,
			Mean:    d.mean,
			Median:  d.median,
			StdDev:  d.std,
			Min:     d.min,
			Max:     d.max,
			Missing: d.missing,
		})
	}
	return out
}

// CategoryStats summarizes one category score column.
type CategoryStats struct {
	Category dataset.Column
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
}

// CategoryStatistics describes each category present, highest mean first.
// Equal means keep the declared category order.
func CategoryStatistics(t *dataset.Table) []CategoryStats {
	var out []CategoryStats
	for _, c := range dataset.Categories {
		vals, err := t.Float(c)
		if err != nil {
			continue
		}
		d := describe(vals)
		out = append(out, CategoryStats{Category: c, Mean: d.mean, StdDev: d.std, Min: d.min, Max: d.max})
	}
	sort.SliceStable(out, func(i, j int) bool { return greater(out[i].Mean, out[j].Mean) })
	return out
}

// RegionStats aggregates the countries of one region.
type RegionStats struct {
	Region          string
	Count           int
	ScoreMean       float64
	ScoreMin        float64
	ScoreMax        float64
	ScoreStdDev     float64
	GDPTotal        float64
	PopulationTotal float64
}

// RegionalStatistics groups rows by region, ordered by region name. Totals
// for columns the table does not carry are NaN.
func RegionalStatistics(t *dataset.Table) []RegionStats {
	groups := map[string][]int{}
	var keys []string
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i).Region
		if _, ok := groups[r]; !ok {
			keys = append(keys, r)
		}
		groups[r] = append(groups[r], i)
	}
	sort.Strings(keys)

	out := make([]RegionStats, 0, len(keys))
	for _, k := range keys {
		sub := t.Subset(groups[k])
		rs := RegionStats{Region: k, Count: sub.Len()}
		rs.ScoreMean, rs.ScoreMin, rs.ScoreMax, rs.ScoreStdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		if scores, err := sub.Float(dataset.Score); err == nil {
			d := describe(scores)
			rs.ScoreMean, rs.ScoreMin, rs.ScoreMax, rs.ScoreStdDev = d.mean, d.min, d.max, d.std
		}
		rs.GDPTotal = columnSum(sub, dataset.GDP)
		rs.PopulationTotal = columnSum(sub, dataset.Population)
		out = append(out, rs)
	}
	return out
}

// Bin is one equal-width histogram bucket; Hi is exclusive except for the last bin.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// DefaultHistogramBins matches the score distribution chart.
const DefaultHistogramBins = 20

// ScoreHistogram buckets the overall scores into equal-width bins spanning
// the observed range. It returns nil when no score is available.
func ScoreHistogram(t *dataset.Table, bins int) []Bin {
	scores, err := t.Float(dataset.Score)
	if err != nil {
		return nil
	}
	vals := present(scores)
	if len(vals) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vals)}}
	}
	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = lo + float64(i)*width
		out[i].Hi = lo + float64(i+1)*width
	}
	out[bins-1].Hi = hi
	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

type description struct {
	n, missing                  int
	mean, median, std, min, max float64
}

// describe computes statistics over the non-missing values of vals.
func describe(vals []float64) description {
	xs := present(vals)
	d := description{n: len(xs), missing: len(vals) - len(xs)}
	nan := math.NaN()
	d.mean, d.median, d.std, d.min, d.max = nan, nan, nan, nan, nan
	if d.n == 0 {
		return d
	}
	d.mean = stat.Mean(xs, nil)
	if d.n > 1 {
		d.std = stat.StdDev(xs, nil)
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	d.min = sorted[0]
	d.max = sorted[len(sorted)-1]
	d.median = quantile(sorted, 0.5)
	return d
}

// present returns the non-NaN values of vals in order.
func present(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func columnSum(t *dataset.Table, c dataset.Column) float64 {
	vals, err := t.Float(c)
	if err != nil {
		return math.NaN()
	}
	var sum float64
	for _, v := range present(vals) {
		sum += v
	}
	return sum
}

// greater orders NaN after every number.
func greater(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a > b
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
