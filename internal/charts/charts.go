// Package charts turns tables and records into chart-ready structures:
// labeled series, bar categories, radar axes, scatter points and matrices.
// Values are rounded for display and undefined values are encoded as null.
package charts

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/efindex-cli/internal/analysis"
	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/display"
	"github.com/KaramelBytes/efindex-cli/internal/query"
)

// ErrUnknownChart is returned by Build for an unregistered chart kind.
var ErrUnknownChart = errors.New("unknown chart kind")

// RegionColors maps each region to its series color.
var RegionColors = map[string]string{
	"Asia-Pacific":                 "#3498db",
	"Europe":                       "#e74c3c",
	"Americas":                     "#f39c12",
	"Middle East and North Africa": "#9b59b6",
	"Sub-Saharan Africa":           "#1abc9c",
}

// CategoryColors maps each category to its series color.
var CategoryColors = map[dataset.Column]string{
	dataset.PropertyRights:        "#3498db",
	dataset.JudicialEffectiveness: "#9b59b6",
	dataset.GovernmentIntegrity:   "#e74c3c",
	dataset.TaxBurden:             "#1abc9c",
	dataset.GovtSpending:          "#f39c12",
	dataset.FiscalHealth:          "#2ecc71",
	dataset.BusinessFreedom:       "#34495e",
	dataset.LaborFreedom:          "#16a085",
	dataset.MonetaryFreedom:       "#8e44ad",
	dataset.TradeFreedom:          "#c0392b",
	dataset.InvestmentFreedom:     "#27ae60",
	dataset.FinancialFreedom:      "#2980b9",
}

const defaultColor = "#95a5a6"

// Bar is one labeled bar.
type Bar struct {
	Label string            `json:"label"`
	Value *float64          `json:"value"`
	Color string            `json:"color,omitempty"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// BarChart is a categorical bar series.
type BarChart struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Bars   []Bar  `json:"bars"`
}

// RadarSeries is one named polygon of a radar chart.
type RadarSeries struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// RadarChart plots category scores around a fixed axis set.
type RadarChart struct {
	Title  string        `json:"title"`
	Axes   []string      `json:"axes"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
	Series []RadarSeries `json:"series"`
}

// HistogramBin is one bucket of a histogram.
type HistogramBin struct {
	Lo    *float64 `json:"lo"`
	Hi    *float64 `json:"hi"`
	Count int      `json:"count"`
}

// Histogram is a binned distribution.
type Histogram struct {
	Title string         `json:"title"`
	Bins  []HistogramBin `json:"bins"`
}

// ScatterPoint is one country in a scatter plot.
type ScatterPoint struct {
	Country string   `json:"country"`
	Region  string   `json:"region"`
	Color   string   `json:"color"`
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	Size    *float64 `json:"size,omitempty"`
}

// ScatterChart plots an indicator against the overall score.
type ScatterChart struct {
	Title  string         `json:"title"`
	XLabel string         `json:"x_label"`
	YLabel string         `json:"y_label"`
	LogY   bool           `json:"log_y"`
	Points []ScatterPoint `json:"points"`
}

// Heatmap is a labeled square matrix.
type Heatmap struct {
	Title  string       `json:"title"`
	Labels []string     `json:"labels"`
	Values [][]*float64 `json:"values"`
	Min    float64      `json:"min"`
	Max    float64      `json:"max"`
}

// Rankings charts the n highest scoring countries.
func Rankings(t *dataset.Table, n int) (BarChart, error) {
	top, err := query.TopN(t, n, dataset.Score)
	if err != nil {
		return BarChart{}, err
	}
	c := BarChart{
		Title:  fmt.Sprintf("Top %d Countries by Economic Freedom Score", n),
		XLabel: "Country",
		YLabel: "Economic Freedom Score",
	}
	for _, r := range top.Records() {
		meta := map[string]string{"region": r.Region}
		if rank, err := r.Value(dataset.WorldRank); err == nil && !math.IsNaN(rank) {
			meta["world_rank"] = display.Number(rank, 0)
		}
		c.Bars = append(c.Bars, Bar{Label: r.Name, Value: display.Nullable(r.Score()), Meta: meta})
	}
	return c, nil
}

// RegionalComparison charts the average score per region, highest first.
func RegionalComparison(t *dataset.Table) BarChart {
	c := BarChart{Title: "Average Economic Freedom Score by Region", XLabel: "Region", YLabel: "Average Score"}
	stats := analysis.RegionalStatistics(t)
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].ScoreMean > stats[j].ScoreMean })
	for _, rs := range stats {
		c.Bars = append(c.Bars, Bar{Label: rs.Region, Value: display.Nullable(rs.ScoreMean), Color: regionColor(rs.Region)})
	}
	return c
}

// CategoryRadar charts one country's category scores.
func CategoryRadar(r dataset.Record) RadarChart {
	c := RadarChart{
		Title: "Economic Freedom Factors - " + r.Name,
		Min:   0,
		Max:   100,
	}
	s := RadarSeries{Name: r.Name}
	for _, cat := range dataset.Categories {
		v, _ := r.Value(cat)
		c.Axes = append(c.Axes, cat.String())
		s.Values = append(s.Values, display.Nullable(v))
	}
	c.Series = []RadarSeries{s}
	return c
}

// ScoreDistribution bins the overall scores.
func ScoreDistribution(t *dataset.Table, bins int) Histogram {
	h := Histogram{Title: "Distribution of Economic Freedom Scores"}
	for _, b := range analysis.ScoreHistogram(t, bins) {
		h.Bins = append(h.Bins, HistogramBin{Lo: display.Nullable(b.Lo), Hi: display.Nullable(b.Hi), Count: b.Count})
	}
	return h
}

// Classification charts the number of countries per freedom band.
func Classification(t *dataset.Table) (BarChart, error) {
	c := BarChart{Title: "Countries by Freedom Classification", XLabel: "Classification", YLabel: "Number of Countries"}
	bands, err := analysis.ClassificationCounts(t)
	if err != nil {
		return BarChart{}, err
	}
	for _, bc := range bands {
		n := float64(bc.Count)
		c.Bars = append(c.Bars, Bar{Label: bc.Class.String(), Value: &n, Color: bc.Class.Color()})
	}
	return c, nil
}

// CategoryHeatmap charts the pairwise correlation of the categories.
func CategoryHeatmap(t *dataset.Table) Heatmap {
	m := analysis.CategoryCorrelationMatrix(t)
	h := Heatmap{Title: "Correlation Matrix of Freedom Categories", Min: -1, Max: 1}
	for i, c := range m.Columns {
		h.Labels = append(h.Labels, c.String())
		row := make([]*float64, len(m.Values[i]))
		for j, v := range m.Values[i] {
			row[j] = display.Nullable(v)
		}
		h.Values = append(h.Values, row)
	}
	return h
}

func regionColor(region string) string {
	if c, ok := RegionColors[region]; ok {
		return c
	}
	return defaultColor
}
