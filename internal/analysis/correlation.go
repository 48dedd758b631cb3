package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrComputationUndefined marks a statistic that cannot be computed from the
// available data, e.g. a correlation over fewer than two complete pairs. It
// must be shown as "not available", never as zero.
var ErrComputationUndefined = errors.New("computation undefined")

// SignificanceLevel is the two-tailed p-value threshold for Significant.
const SignificanceLevel = 0.05

// Correlation is a Pearson coefficient with its two-tailed p-value.
type Correlation struct {
	Column      dataset.Column
	Coefficient float64
	PValue      float64
	// N is the number of complete pairs used.
	N int
}

// IndicatorCorrelation is a Correlation flagged for significance.
type IndicatorCorrelation struct {
	Correlation
	Significant bool
}

// CorrelateWithScore correlates column with the overall score over the rows
// where both are present. It returns ErrComputationUndefined when fewer than
// two such rows exist or either side has no variance.
func CorrelateWithScore(t *dataset.Table, column dataset.Column) (Correlation, error) {
	if !column.Numeric() {
		return Correlation{}, fmt.Errorf("correlate %s: %w", column, dataset.ErrNotNumeric)
	}
	xs, err := t.Float(column)
	if err != nil {
		return Correlation{}, fmt.Errorf("correlate: %w", err)
	}
	ys, err := t.Float(dataset.Score)
	if err != nil {
		return Correlation{}, fmt.Errorf("correlate: %w", err)
	}
	r, n, err := pearson(xs, ys)
	if err != nil {
		return Correlation{Column: column, N: n}, err
	}
	return Correlation{Column: column, Coefficient: r, PValue: pValue(r, n), N: n}, nil
}

// CorrelationsWithScore correlates every indicator the table carries with
// the overall score, in declared indicator order. Indicators whose
// correlation is undefined are left out; a table without the score column
// fails with ErrColumnNotFound.
func CorrelationsWithScore(t *dataset.Table) ([]IndicatorCorrelation, error) {
	if !t.Has(dataset.Score) {
		return nil, fmt.Errorf("correlate: %w: %s", dataset.ErrColumnNotFound, dataset.Score)
	}
	out := []IndicatorCorrelation{}
	for _, c := range dataset.Indicators {
		if !t.Has(c) {
			continue
		}
		corr, err := CorrelateWithScore(t, c)
		if errors.Is(err, ErrComputationUndefined) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, IndicatorCorrelation{Correlation: corr, Significant: corr.PValue < SignificanceLevel})
	}
	return out, nil
}

// Matrix is a symmetric correlation matrix; undefined cells are NaN.
type Matrix struct {
	Columns []dataset.Column
	Values  [][]float64 // row-major, Values[i][j]
}

// CategoryCorrelationMatrix correlates the category columns pairwise.
func CategoryCorrelationMatrix(t *dataset.Table) Matrix {
	var m Matrix
	var cols [][]float64
	for _, c := range dataset.Categories {
		vals, err := t.Float(c)
		if err != nil {
			continue
		}
		m.Columns = append(m.Columns, c)
		cols = append(cols, vals)
	}
	n := len(cols)
	m.Values = make([][]float64, n)
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			r, _, err := pearson(cols[a], cols[b])
			if err != nil {
				r = math.NaN()
			}
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

// pearson correlates the pairs where both xs[i] and ys[i] are present.
func pearson(xs, ys []float64) (float64, int, error) {
	var x, y []float64
	for i := range xs {
		if i >= len(ys) {
			break
		}
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x = append(x, xs[i])
		y = append(y, ys[i])
	}
	n := len(x)
	if n < 2 {
		return 0, n, ErrComputationUndefined
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, n, ErrComputationUndefined
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, n, nil
}

// pValue is the two-tailed p-value of r under the null of no correlation,
// using Student's t with n-2 degrees of freedom.
func pValue(r float64, n int) float64 {
	if n <= 2 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	tstat := r * math.Sqrt(df/((1-r)*(1+r)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(tstat))
	if p > 1 {
		p = 1
	}
	return p
}
