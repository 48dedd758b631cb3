package charts

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/query"
)

// Options parameterizes Build.
type Options struct {
	TopN    int
	Bins    int
	Country string // radar only
}

type builder func(t *dataset.Table, opt Options) (any, error)

var builders = map[string]builder{
	"rankings": func(t *dataset.Table, opt Options) (any, error) { return Rankings(t, opt.TopN) },
	"regions":  func(t *dataset.Table, _ Options) (any, error) { return RegionalComparison(t), nil },
	"distribution": func(t *dataset.Table, opt Options) (any, error) {
		return ScoreDistribution(t, opt.Bins), nil
	},
	"classification": func(t *dataset.Table, _ Options) (any, error) { return Classification(t) },
	"heatmap":        func(t *dataset.Table, _ Options) (any, error) { return CategoryHeatmap(t), nil },
	"gdp":            func(t *dataset.Table, _ Options) (any, error) { return GDPScatter(t) },
	"unemployment":   func(t *dataset.Table, _ Options) (any, error) { return UnemploymentScatter(t) },
	"inflation":      func(t *dataset.Table, _ Options) (any, error) { return InflationScatter(t) },
	"radar": func(t *dataset.Table, opt Options) (any, error) {
		r, err := query.FindCountry(t, opt.Country)
		if err != nil {
			return nil, fmt.Errorf("radar: %w", err)
		}
		return CategoryRadar(r), nil
	},
}

// Kinds lists the chart kinds Build accepts, sorted.
func Kinds() []string {
	out := make([]string, 0, len(builders))
	for k := range builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build produces the chart named kind from t.
func Build(kind string, t *dataset.Table, opt Options) (any, error) {
	b, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	return b(t, opt)
}
