package analysis

import (
	"math"
	"testing"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

type row struct {
	name, region string
	vals         map[dataset.Column]float64
}

func buildTable(cols []dataset.Column, rows ...row) *dataset.Table {
	recs := make([]dataset.Record, len(rows))
	for i, r := range rows {
		rec := dataset.NewRecord(string(rune('a'+i)), r.name, r.region)
		for c, v := range r.vals {
			rec = rec.WithValue(c, v)
		}
		recs[i] = rec
	}
	base := []dataset.Column{dataset.CountryID, dataset.CountryName, dataset.Region}
	return dataset.NewTable(append(base, cols...), recs)
}

func scores(region string, vals ...float64) []row {
	out := make([]row, len(vals))
	for i, v := range vals {
		out[i] = row{name: string(rune('A' + i)), region: region, vals: map[dataset.Column]float64{dataset.Score: v}}
	}
	return out
}

func TestSummaryStatistics(t *testing.T) {
	tbl := buildTable([]dataset.Column{dataset.Score, dataset.GDP}, scores("Europe", 60, 70, 80, nan)...)
	sum := SummaryStatistics(tbl)

	require.Len(t, sum, 2, "only carried columns are described")
	s, ok := sum.Get(dataset.Score)
	require.True(t, ok)
	assert.InDelta(t, 70, s.Mean, 1e-9)
	assert.InDelta(t, 70, s.Median, 1e-9)
	assert.InDelta(t, 10, s.StdDev, 1e-9)
	assert.Equal(t, 60.0, s.Min)
	assert.Equal(t, 80.0, s.Max)
	assert.Equal(t, 1, s.Missing)

	g, ok := sum.Get(dataset.GDP)
	require.True(t, ok)
	assert.True(t, math.IsNaN(g.Mean))
	assert.Equal(t, 4, g.Missing)

	_, ok = sum.Get(dataset.Inflation)
	assert.False(t, ok)
}

func TestSummaryStdDevUndefinedForSingleValue(t *testing.T) {
	sum := SummaryStatistics(buildTable([]dataset.Column{dataset.Score}, scores("Europe", 42)...))
	s, _ := sum.Get(dataset.Score)
	assert.Equal(t, 42.0, s.Mean)
	assert.True(t, math.IsNaN(s.StdDev))
}

func TestCategoryStatisticsOrderedByMean(t *testing.T) {
	cols := []dataset.Column{dataset.PropertyRights, dataset.TaxBurden, dataset.TradeFreedom}
	tbl := buildTable(cols,
		row{name: "A", vals: map[dataset.Column]float64{dataset.PropertyRights: 40, dataset.TaxBurden: 70, dataset.TradeFreedom: 90}},
		row{name: "B", vals: map[dataset.Column]float64{dataset.PropertyRights: 60, dataset.TaxBurden: 90, dataset.TradeFreedom: 70}},
	)
	cs := CategoryStatistics(tbl)
	require.Len(t, cs, 3)
	// TaxBurden and TradeFreedom tie at 80 and keep declared order.
	assert.Equal(t, dataset.TaxBurden, cs[0].Category)
	assert.Equal(t, dataset.TradeFreedom, cs[1].Category)
	assert.Equal(t, dataset.PropertyRights, cs[2].Category)
	assert.InDelta(t, 50, cs[2].Mean, 1e-9)
	assert.Equal(t, 40.0, cs[2].Min)
	assert.Equal(t, 60.0, cs[2].Max)
}

func TestCorrelateWithScore(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 1, 4, 3, 5}
	var rows []row
	for i := range xs {
		rows = append(rows, row{name: "c", vals: map[dataset.Column]float64{dataset.GDP: xs[i], dataset.Score: ys[i]}})
	}
	rows = append(rows, row{name: "gap", vals: map[dataset.Column]float64{dataset.GDP: nan, dataset.Score: 99}})
	tbl := buildTable([]dataset.Column{dataset.Score, dataset.GDP}, rows...)

	c, err := CorrelateWithScore(tbl, dataset.GDP)
	require.NoError(t, err)
	assert.Equal(t, 5, c.N, "incomplete pairs are skipped")
	assert.InDelta(t, 0.8, c.Coefficient, 1e-9)
	assert.InDelta(t, 0.1041, c.PValue, 1e-3)
}

func TestCorrelatePerfectLinear(t *testing.T) {
	tbl := buildTable([]dataset.Column{dataset.Score, dataset.Unemployment},
		row{vals: map[dataset.Column]float64{dataset.Score: 10, dataset.Unemployment: 1}},
		row{vals: map[dataset.Column]float64{dataset.Score: 20, dataset.Unemployment: 2}},
		row{vals: map[dataset.Column]float64{dataset.Score: 30, dataset.Unemployment: 3}},
		row{vals: map[dataset.Column]float64{dataset.Score: 40, dataset.Unemployment: 4}},
	)
	c, err := CorrelateWithScore(tbl, dataset.Unemployment)
	require.NoError(t, err)
	assert.InDelta(t, 1, c.Coefficient, 1e-9)
	assert.LessOrEqual(t, c.Coefficient, 1.0)
	assert.Less(t, c.PValue, 1e-6)
}

func TestCorrelateUndefined(t *testing.T) {
	t.Run("single pair", func(t *testing.T) {
		tbl := buildTable([]dataset.Column{dataset.Score, dataset.GDP},
			row{vals: map[dataset.Column]float64{dataset.Score: 10, dataset.GDP: 1}},
			row{vals: map[dataset.Column]float64{dataset.Score: 20, dataset.GDP: nan}},
		)
		_, err := CorrelateWithScore(tbl, dataset.GDP)
		assert.ErrorIs(t, err, ErrComputationUndefined)
	})
	t.Run("constant column", func(t *testing.T) {
		tbl := buildTable([]dataset.Column{dataset.Score, dataset.GDP},
			row{vals: map[dataset.Column]float64{dataset.Score: 10, dataset.GDP: 5}},
			row{vals: map[dataset.Column]float64{dataset.Score: 20, dataset.GDP: 5}},
			row{vals: map[dataset.Column]float64{dataset.Score: 30, dataset.GDP: 5}},
		)
		_, err := CorrelateWithScore(tbl, dataset.GDP)
		assert.ErrorIs(t, err, ErrComputationUndefined)
	})
	t.Run("missing column", func(t *testing.T) {
		tbl := buildTable([]dataset.Column{dataset.Score}, scores("Europe", 1, 2)...)
		_, err := CorrelateWithScore(tbl, dataset.Inflation)
		assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	})
	t.Run("text column", func(t *testing.T) {
		tbl := buildTable([]dataset.Column{dataset.Score}, scores("Europe", 1, 2)...)
		_, err := CorrelateWithScore(tbl, dataset.Region)
		assert.ErrorIs(t, err, dataset.ErrNotNumeric)
	})
}

func TestPValueEdges(t *testing.T) {
	assert.Equal(t, 1.0, pValue(0.5, 2))
	assert.Equal(t, 0.0, pValue(-1, 10))
	assert.InDelta(t, 1, pValue(0, 50), 1e-9)
}

func TestCorrelationsWithScoreSkipsUndefined(t *testing.T) {
	tbl := buildTable([]dataset.Column{dataset.Score, dataset.GDP, dataset.Inflation, dataset.Population},
		row{vals: map[dataset.Column]float64{dataset.Score: 50, dataset.GDP: 1, dataset.Inflation: 9, dataset.Population: 3}},
		row{vals: map[dataset.Column]float64{dataset.Score: 60, dataset.GDP: 2, dataset.Inflation: 7, dataset.Population: 3}},
		row{vals: map[dataset.Column]float64{dataset.Score: 70, dataset.GDP: 4, dataset.Inflation: 4, dataset.Population: 3}},
		row{vals: map[dataset.Column]float64{dataset.Score: 80, dataset.GDP: 5, dataset.Inflation: 2, dataset.Population: 3}},
	)
	got, err := CorrelationsWithScore(tbl)
	require.NoError(t, err)
	require.Len(t, got, 2, "constant Population is left out")
	assert.Equal(t, dataset.GDP, got[0].Column)
	assert.Equal(t, dataset.Inflation, got[1].Column)
	assert.Greater(t, got[0].Coefficient, 0.9)
	assert.Less(t, got[1].Coefficient, -0.9)
	assert.True(t, got[0].Significant)
}

func TestCategoryCorrelationMatrix(t *testing.T) {
	tbl := buildTable([]dataset.Column{dataset.PropertyRights, dataset.TaxBurden, dataset.FiscalHealth},
		row{vals: map[dataset.Column]float64{dataset.PropertyRights: 1, dataset.TaxBurden: 3, dataset.FiscalHealth: 7}},
		row{vals: map[dataset.Column]float64{dataset.PropertyRights: 2, dataset.TaxBurden: 2, dataset.FiscalHealth: 7}},
		row{vals: map[dataset.Column]float64{dataset.PropertyRights: 3, dataset.TaxBurden: 1, dataset.FiscalHealth: 7}},
	)
	m := CategoryCorrelationMatrix(tbl)
	require.Equal(t, []dataset.Column{dataset.PropertyRights, dataset.TaxBurden, dataset.FiscalHealth}, m.Columns)
	assert.InDelta(t, 1, m.Values[0][0], 1e-9)
	assert.InDelta(t, -1, m.Values[0][1], 1e-9)
	assert.Equal(t, m.Values[0][1], m.Values[1][0])
	assert.True(t, math.IsNaN(m.Values[2][0]))
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Classification
	}{
		{100, Free},
		{80, Free},
		{79.9, MostlyFree},
		{70, MostlyFree},
		{60, ModeratelyFree},
		{59.99, MostlyUnfree},
		{50, MostlyUnfree},
		{49.9, Repressed},
		{0, Repressed},
		{nan, Repressed},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.score), "score %v", tc.score)
	}
	assert.Equal(t, "Mostly Free", MostlyFree.String())
	assert.Equal(t, "Moderately Free", ModeratelyFree.String())
	txt, err := Repressed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Repressed", string(txt))
}

func TestClassificationCounts(t *testing.T) {
	tbl := buildTable([]dataset.Column{dataset.Score}, scores("Europe", 85, 81, 65, 40)...)
	got, err := ClassificationCounts(tbl)
	require.NoError(t, err)
	require.Len(t, got, len(Classifications))
	assert.Equal(t, BandCount{Class: Free, Count: 2}, got[0])
	assert.Equal(t, BandCount{Class: MostlyFree, Count: 0}, got[1])
	assert.Equal(t, BandCount{Class: ModeratelyFree, Count: 1}, got[2])
	assert.Equal(t, BandCount{Class: Repressed, Count: 1}, got[4])
}

func TestAggregatesRequireScoreColumn(t *testing.T) {
	tbl := buildTable([]dataset.Column{dataset.GDP},
		row{vals: map[dataset.Column]float64{dataset.GDP: 1}},
		row{vals: map[dataset.Column]float64{dataset.GDP: 2}},
		row{vals: map[dataset.Column]float64{dataset.GDP: 3}},
	)
	corr, err := CorrelationsWithScore(tbl)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	assert.Nil(t, corr)

	bands, err := ClassificationCounts(tbl)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	assert.Nil(t, bands)
}

func TestClassificationCountsSkipsMissingScore(t *testing.T) {
	tbl := buildTable([]dataset.Column{dataset.Score}, scores("Europe", 85, nan)...)
	got, err := ClassificationCounts(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 0, got[4].Count)
}

func TestRegionalStatistics(t *testing.T) {
	rows := append(scores("Europe", 70, 80), scores("Americas", 50)...)
	rows[0].vals[dataset.GDP] = 10
	rows[1].vals[dataset.GDP] = 5
	rows[2].vals[dataset.GDP] = 2
	tbl := buildTable([]dataset.Column{dataset.Score, dataset.GDP}, rows...)

	rs := RegionalStatistics(tbl)
	require.Len(t, rs, 2)
	assert.Equal(t, "Americas", rs[0].Region)
	assert.Equal(t, 1, rs[0].Count)
	assert.True(t, math.IsNaN(rs[0].ScoreStdDev))
	assert.Equal(t, "Europe", rs[1].Region)
	assert.InDelta(t, 75, rs[1].ScoreMean, 1e-9)
	assert.Equal(t, 15.0, rs[1].GDPTotal)
	assert.True(t, math.IsNaN(rs[1].PopulationTotal))
}

func TestScoreHistogram(t *testing.T) {
	tbl := buildTable([]dataset.Column{dataset.Score}, scores("Europe", 50, 60, 70, 80, nan)...)
	bins := ScoreHistogram(tbl, 3)
	require.Len(t, bins, 3)
	assert.Equal(t, []int{1, 1, 2}, []int{bins[0].Count, bins[1].Count, bins[2].Count})
	assert.Equal(t, 50.0, bins[0].Lo)
	assert.Equal(t, 80.0, bins[2].Hi)

	flat := ScoreHistogram(buildTable([]dataset.Column{dataset.Score}, scores("Europe", 5, 5)...), 10)
	require.Len(t, flat, 1)
	assert.Equal(t, 2, flat[0].Count)

	assert.Nil(t, ScoreHistogram(buildTable(nil), 10))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Mostly Free", Label(72))
	assert.Equal(t, "N/A", Label(nan))
}
