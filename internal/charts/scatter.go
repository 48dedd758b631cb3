package charts

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/display"
)

// scatterSpec describes an indicator-vs-score scatter and which rows it keeps.
type scatterSpec struct {
	title string
	y     dataset.Column
	size  dataset.Column
	logY  bool
	keep  func(y float64) bool
}

var (
	gdpScatter = scatterSpec{
		title: "Economic Freedom Score vs GDP",
		y:     dataset.GDP,
		size:  dataset.Population,
		logY:  true,
		keep:  func(y float64) bool { return y > 0 },
	}
	unemploymentScatter = scatterSpec{
		title: "Economic Freedom Score vs Unemployment Rate",
		y:     dataset.Unemployment,
		size:  -1,
		keep:  func(y float64) bool { return y > 0 },
	}
	// Hyperinflation outliers would flatten the plot.
	inflationScatter = scatterSpec{
		title: "Economic Freedom Score vs Inflation Rate",
		y:     dataset.Inflation,
		size:  -1,
		keep:  func(y float64) bool { return y >= -50 && y <= 200 },
	}
)

// GDPScatter plots GDP against score for countries with positive values,
// sized by population.
func GDPScatter(t *dataset.Table) (ScatterChart, error) { return scatter(t, gdpScatter) }

// UnemploymentScatter plots unemployment against score.
func UnemploymentScatter(t *dataset.Table) (ScatterChart, error) {
	return scatter(t, unemploymentScatter)
}

// InflationScatter plots inflation between -50% and 200% against score.
func InflationScatter(t *dataset.Table) (ScatterChart, error) { return scatter(t, inflationScatter) }

func scatter(t *dataset.Table, s scatterSpec) (ScatterChart, error) {
	ys, err := t.Float(s.y)
	if err != nil {
		return ScatterChart{}, fmt.Errorf("scatter %s: %w", s.y, err)
	}
	xs, err := t.Float(dataset.Score)
	if err != nil {
		return ScatterChart{}, fmt.Errorf("scatter %s: %w", s.y, err)
	}
	var sizes []float64
	if s.size >= 0 && t.Has(s.size) {
		sizes, _ = t.Float(s.size)
	}
	c := ScatterChart{Title: s.title, XLabel: "Freedom Score", YLabel: s.y.String(), LogY: s.logY}
	for i := 0; i < t.Len(); i++ {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || x <= 0 || !s.keep(y) {
			continue
		}
		r := t.Row(i)
		p := ScatterPoint{
			Country: r.Name,
			Region:  r.Region,
			Color:   regionColor(r.Region),
			X:       display.Nullable(x),
			Y:       display.Nullable(y),
		}
		if sizes != nil {
			p.Size = display.Nullable(sizes[i])
		}
		c.Points = append(c.Points, p)
	}
	return c, nil
}
