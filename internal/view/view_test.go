package view

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/KaramelBytes/efindex-cli/internal/analysis"
	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table() *dataset.Table {
	rows := []dataset.Record{
		dataset.NewRecord("1", "A", "Europe").WithValue(dataset.Score, 200.0/3.0).WithValue(dataset.PropertyRights, 50),
		dataset.NewRecord("2", "B", "Europe").WithValue(dataset.Score, 81).WithValue(dataset.PropertyRights, 90),
	}
	return dataset.NewTable([]dataset.Column{dataset.CountryID, dataset.CountryName, dataset.Region, dataset.Score, dataset.PropertyRights, dataset.GDP}, rows)
}

func TestRowsRoundAndNull(t *testing.T) {
	rows := Rows(table())
	require.Len(t, rows, 2)
	assert.Equal(t, 66.67, *rows[0].Values["2022 Score"])
	assert.Nil(t, rows[0].Values["GDP (Billions)"])
	assert.Equal(t, "Moderately Free", rows[0].Classification)
	assert.Equal(t, "Free", rows[1].Classification)

	b, err := json.Marshal(rows[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"GDP (Billions)":null`)
}

func TestCorrelationsKeepSmallPValues(t *testing.T) {
	out := Correlations([]analysis.IndicatorCorrelation{{
		Correlation: analysis.Correlation{Column: dataset.GDP, Coefficient: 0.51234, PValue: 0.00049, N: 10},
		Significant: true,
	}})
	require.Len(t, out, 1)
	assert.Equal(t, "GDP (Billions)", out[0].Indicator)
	assert.Equal(t, 0.51, *out[0].Coefficient)
	assert.Equal(t, 0.0005, *out[0].PValue)
}

func TestSummaryUndefinedIsNull(t *testing.T) {
	s := Summary(analysis.Summary{{Column: dataset.GDP, Mean: math.NaN(), StdDev: math.NaN(), Median: math.NaN(), Min: math.NaN(), Max: math.NaN(), Missing: 2}})
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"column":"GDP (Billions)","mean":null,"median":null,"std_dev":null,"min":null,"max":null,"missing":2}]`, string(b))
}

func TestDetail(t *testing.T) {
	d, err := Detail(table(), "B")
	require.NoError(t, err)
	assert.Equal(t, "B", d.Country.Name)
	require.Len(t, d.Contribution, 1)
	assert.Equal(t, 111.11, *d.Contribution[0].Value)

	_, err = Detail(table(), "Z")
	assert.ErrorIs(t, err, query.ErrCountryNotFound)
}

func TestRowsLeaveClassificationEmptyForMissingScore(t *testing.T) {
	tbl := dataset.NewTable(
		[]dataset.Column{dataset.CountryID, dataset.CountryName, dataset.Region, dataset.Score},
		[]dataset.Record{dataset.NewRecord("1", "A", "Europe").WithValue(dataset.Score, math.NaN())},
	)
	rows := Rows(tbl)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Classification)
	assert.Nil(t, rows[0].Values["2022 Score"])

	b, err := json.Marshal(rows[0])
	require.NoError(t, err)
	assert.NotContains(t, string(b), "classification")
}
