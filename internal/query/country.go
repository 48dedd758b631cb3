package query

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"gonum.org/v1/gonum/floats"
)

// CategoryScore is one category value of a country.
type CategoryScore struct {
	Category dataset.Column
	Score    float64
}

// CategoryShare is a category's share of a country's overall score, in percent.
type CategoryShare struct {
	Category dataset.Column
	Percent  float64
}

// TopCategoriesByCountry returns the country's category scores, highest
// first. Ties keep the declared category order.
func TopCategoriesByCountry(t *dataset.Table, country string) ([]CategoryScore, error) {
	r, err := FindCountry(t, country)
	if err != nil {
		return nil, err
	}
	var out []CategoryScore
	for _, c := range dataset.Categories {
		if !t.Has(c) {
			continue
		}
		v, _ := r.Value(c)
		out = append(out, CategoryScore{Category: c, Score: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// CategoryContribution returns 100*category/overall for each category of the
// country, largest first. When the overall score is not positive every
// share is 0.
func CategoryContribution(t *dataset.Table, country string) ([]CategoryShare, error) {
	if !t.Has(dataset.Score) {
		return nil, fmt.Errorf("category contribution: %w: %s", dataset.ErrColumnNotFound, dataset.Score)
	}
	r, err := FindCountry(t, country)
	if err != nil {
		return nil, err
	}
	overall := r.Score()
	var out []CategoryShare
	for _, c := range dataset.Categories {
		if !t.Has(c) {
			continue
		}
		share := 0.0
		if overall > 0 {
			v, _ := r.Value(c)
			share = 100 * v / overall
		}
		out = append(out, CategoryShare{Category: c, Percent: share})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percent > out[j].Percent })
	return out, nil
}

// Overview holds the headline metrics of a filtered selection. Undefined
// values are NaN.
type Overview struct {
	Countries        int
	AverageScore     float64
	ScoreDelta       float64 // AverageScore minus the full table's average
	TotalGDP         float64
	AverageGDPPerCap float64
}

// Summarize computes the overview of filtered against the full table.
func Summarize(filtered, full *dataset.Table) Overview {
	o := Overview{Countries: filtered.Len()}
	o.AverageScore = columnMean(filtered, dataset.Score)
	o.ScoreDelta = o.AverageScore - columnMean(full, dataset.Score)
	o.TotalGDP = math.NaN()
	if gdp := presentValues(filtered, dataset.GDP); gdp != nil {
		o.TotalGDP = floats.Sum(gdp)
	}
	o.AverageGDPPerCap = columnMean(filtered, dataset.GDPPerCapita)
	return o
}

func columnMean(t *dataset.Table, c dataset.Column) float64 {
	vals := presentValues(t, c)
	if len(vals) == 0 {
		return math.NaN()
	}
	return floats.Sum(vals) / float64(len(vals))
}

// presentValues returns the non-missing values of c, or nil when the table
// does not carry c.
func presentValues(t *dataset.Table, c dataset.Column) []float64 {
	vals, err := t.Float(c)
	if err != nil {
		return nil
	}
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
