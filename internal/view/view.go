// Package view converts analysis and query results into JSON-ready values.
// Numbers are rounded for display; undefined numbers become null.
package view

import (
	"math"

	"github.com/KaramelBytes/efindex-cli/internal/analysis"
	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/display"
	"github.com/KaramelBytes/efindex-cli/internal/query"
)

// ColumnStats is the JSON form of one column's summary statistics.
type ColumnStats struct {
	Column  string   `json:"column"`
	Mean    *float64 `json:"mean"`
	Median  *float64 `json:"median"`
	StdDev  *float64 `json:"std_dev"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	Missing int      `json:"missing"`
}

// Summary converts per-column statistics for display.
func Summary(s analysis.Summary) []ColumnStats {
	out := make([]ColumnStats, 0, len(s))
	for _, c := range s {
		out = append(out, ColumnStats{
			Column:  c.Column.String(),
			Mean:    display.Nullable(c.Mean),
			Median:  display.Nullable(c.Median),
			StdDev:  display.Nullable(c.StdDev),
			Min:     display.Nullable(c.Min),
			Max:     display.Nullable(c.Max),
			Missing: c.Missing,
		})
	}
	return out
}

// CategoryStats is the JSON form of one category's statistics.
type CategoryStats struct {
	Category string   `json:"category"`
	Mean     *float64 `json:"mean"`
	StdDev   *float64 `json:"std_dev"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
}

// Categories converts category statistics, keeping their order.
func Categories(cs []analysis.CategoryStats) []CategoryStats {
	out := make([]CategoryStats, 0, len(cs))
	for _, c := range cs {
		out = append(out, CategoryStats{
			Category: c.Category.String(),
			Mean:     display.Nullable(c.Mean),
			StdDev:   display.Nullable(c.StdDev),
			Min:      display.Nullable(c.Min),
			Max:      display.Nullable(c.Max),
		})
	}
	return out
}

// Correlation is the JSON form of an indicator's correlation with the score.
type Correlation struct {
	Indicator   string   `json:"indicator"`
	Coefficient *float64 `json:"coefficient"`
	PValue      *float64 `json:"p_value"`
	N           int      `json:"n"`
	Significant bool     `json:"significant"`
}

// Correlations keeps p-values at four decimals so small values stay visible.
func Correlations(cs []analysis.IndicatorCorrelation) []Correlation {
	out := make([]Correlation, 0, len(cs))
	for _, c := range cs {
		var p *float64
		if !display.Undefined(c.PValue) {
			v := math.Round(c.PValue*1e4) / 1e4
			p = &v
		}
		out = append(out, Correlation{
			Indicator:   c.Column.String(),
			Coefficient: display.Nullable(c.Coefficient),
			PValue:      p,
			N:           c.N,
			Significant: c.Significant,
		})
	}
	return out
}

// RegionStats is the JSON form of one region's aggregates.
type RegionStats struct {
	Region          string   `json:"region"`
	Count           int      `json:"count"`
	ScoreMean       *float64 `json:"score_mean"`
	ScoreMin        *float64 `json:"score_min"`
	ScoreMax        *float64 `json:"score_max"`
	ScoreStdDev     *float64 `json:"score_std_dev"`
	GDPTotal        *float64 `json:"gdp_total"`
	PopulationTotal *float64 `json:"population_total"`
}

// Regions converts regional statistics, keeping their order.
func Regions(rs []analysis.RegionStats) []RegionStats {
	out := make([]RegionStats, 0, len(rs))
	for _, r := range rs {
		out = append(out, RegionStats{
			Region:          r.Region,
			Count:           r.Count,
			ScoreMean:       display.Nullable(r.ScoreMean),
			ScoreMin:        display.Nullable(r.ScoreMin),
			ScoreMax:        display.Nullable(r.ScoreMax),
			ScoreStdDev:     display.Nullable(r.ScoreStdDev),
			GDPTotal:        display.Nullable(r.GDPTotal),
			PopulationTotal: display.Nullable(r.PopulationTotal),
		})
	}
	return out
}

// Country is one table row. Values holds every numeric column the table
// carries, keyed by column name.
type Country struct {
	ID             string              `json:"id,omitempty"`
	Name           string              `json:"name"`
	Region         string              `json:"region,omitempty"`
	Classification string              `json:"classification,omitempty"`
	Values         map[string]*float64 `json:"values"`
}

// Rows converts every row of t. Classification is left empty when the
// score is missing.
func Rows(t *dataset.Table) []Country {
	out := make([]Country, 0, t.Len())
	cols := t.Columns()
	for _, r := range t.Records() {
		c := Country{ID: r.ID, Name: r.Name, Region: r.Region, Values: map[string]*float64{}}
		for _, col := range cols {
			if !col.Numeric() {
				continue
			}
			v, _ := r.Value(col)
			c.Values[col.String()] = display.Nullable(v)
		}
		if t.Has(dataset.Score) && !display.Undefined(r.Score()) {
			c.Classification = analysis.Classify(r.Score()).String()
		}
		out = append(out, c)
	}
	return out
}

// CategoryValue pairs a category with a score or a percentage.
type CategoryValue struct {
	Category string   `json:"category"`
	Value    *float64 `json:"value"`
}

// TopCategories converts a country's category scores.
func TopCategories(cs []query.CategoryScore) []CategoryValue {
	out := make([]CategoryValue, 0, len(cs))
	for _, c := range cs {
		out = append(out, CategoryValue{Category: c.Category.String(), Value: display.Nullable(c.Score)})
	}
	return out
}

// Contribution converts a country's category shares, in percent.
func Contribution(cs []query.CategoryShare) []CategoryValue {
	out := make([]CategoryValue, 0, len(cs))
	for _, c := range cs {
		out = append(out, CategoryValue{Category: c.Category.String(), Value: display.Nullable(c.Percent)})
	}
	return out
}

// Overview is the JSON form of the headline metrics.
type Overview struct {
	Countries        int      `json:"countries"`
	AverageScore     *float64 `json:"average_score"`
	ScoreDelta       *float64 `json:"score_delta"`
	TotalGDP         *float64 `json:"total_gdp"`
	AverageGDPPerCap *float64 `json:"average_gdp_per_capita"`
}

// NewOverview converts query.Overview for display.
func NewOverview(o query.Overview) Overview {
	return Overview{
		Countries:        o.Countries,
		AverageScore:     display.Nullable(o.AverageScore),
		ScoreDelta:       display.Nullable(o.ScoreDelta),
		TotalGDP:         display.Nullable(o.TotalGDP),
		AverageGDPPerCap: display.Nullable(o.AverageGDPPerCap),
	}
}

// CountryDetail is the per-country breakdown.
type CountryDetail struct {
	Country       Country         `json:"country"`
	TopCategories []CategoryValue `json:"top_categories"`
	Contribution  []CategoryValue `json:"contribution"`
}

// Detail assembles the breakdown of the named country.
func Detail(t *dataset.Table, name string) (CountryDetail, error) {
	top, err := query.TopCategoriesByCountry(t, name)
	if err != nil {
		return CountryDetail{}, err
	}
	contrib, err := query.CategoryContribution(t, name)
	if err != nil {
		return CountryDetail{}, err
	}
	row := t.Where(func(r dataset.Record) bool { return r.Name == name })
	return CountryDetail{
		Country:       Rows(row)[0],
		TopCategories: TopCategories(top),
		Contribution:  Contribution(contrib),
	}, nil
}
