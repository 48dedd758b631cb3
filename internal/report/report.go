// Package report renders a Markdown summary of the canonical table.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/efindex-cli/internal/analysis"
	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/display"
	"github.com/KaramelBytes/efindex-cli/internal/query"
)

// Options controls report content.
type Options struct {
	TopN    int
	BottomN int
	// Regions, when set, restricts the report to these regions.
	Regions []string
	// Now stamps the report; zero means time.Now.
	Now time.Time
}

// Report holds everything the Markdown rendering needs.
type Report struct {
	Source       string
	Generated    time.Time
	Regions      []string
	Overview     query.Overview
	Bands        []analysis.BandCount
	Top          *dataset.Table
	Bottom       *dataset.Table
	RegionStats  []analysis.RegionStats
	Categories   []analysis.CategoryStats
	Correlations []correlationLine
	Clean        *dataset.CleanReport
	Notes        []string
}

type correlationLine struct {
	Column dataset.Column
	Corr   analysis.Correlation
	Err    error
}

// Build computes the report over full, or over its region selection when
// opt.Regions is set. cr may be nil.
func Build(source string, full *dataset.Table, cr *dataset.CleanReport, opt Options) (*Report, error) {
	t := full
	if len(opt.Regions) > 0 {
		t = query.FilterByRegions(full, opt.Regions)
	}
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}
	r := &Report{
		Source:      source,
		Generated:   now,
		Regions:     opt.Regions,
		Overview:    query.Summarize(t, full),
		RegionStats: analysis.RegionalStatistics(t),
		Categories:  analysis.CategoryStatistics(t),
		Clean:       cr,
	}
	if t.Len() == 0 {
		r.Notes = append(r.Notes, "The region selection matched no countries.")
	}
	var err error
	if r.Bands, err = analysis.ClassificationCounts(t); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	if r.Top, err = query.TopN(t, opt.TopN, dataset.Score); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	if r.Bottom, err = query.BottomN(t, opt.BottomN, dataset.Score); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	for _, c := range dataset.Indicators {
		if !t.Has(c) {
			continue
		}
		corr, err := analysis.CorrelateWithScore(t, c)
		if err != nil && !errors.Is(err, analysis.ErrComputationUndefined) {
			return nil, fmt.Errorf("build report: %w", err)
		}
		r.Correlations = append(r.Correlations, correlationLine{Column: c, Corr: corr, Err: err})
	}
	return r, nil
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Economic Freedom Index Report\n\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("Source: `%s`  \n", r.Source))
	}
	b.WriteString(fmt.Sprintf("Generated: %s  \n", r.Generated.Format(time.RFC3339)))
	if len(r.Regions) > 0 {
		regions := append([]string(nil), r.Regions...)
		sort.Strings(regions)
		b.WriteString(fmt.Sprintf("Regions: %s  \n", strings.Join(regions, ", ")))
	}
	b.WriteString("\n## Overview\n\n")
	o := r.Overview
	b.WriteString(fmt.Sprintf("- Countries analyzed: %d\n", o.Countries))
	b.WriteString(fmt.Sprintf("- Average score: %s (%s vs all countries)\n", display.Fixed(o.AverageScore), display.Signed(o.ScoreDelta)))
	b.WriteString(fmt.Sprintf("- Total GDP: %s\n", money(o.TotalGDP, 1, "B")))
	b.WriteString(fmt.Sprintf("- Average GDP per capita: %s\n", money(o.AverageGDPPerCap, 0, "")))

	b.WriteString("\n## Classification\n\n")
	b.WriteString("| Band | Countries |\n| --- | ---: |\n")
	for _, bc := range r.Bands {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", bc.Class, bc.Count))
	}

	writeRanking(&b, "Top Countries", r.Top)
	writeRanking(&b, "Bottom Countries", r.Bottom)

	if len(r.RegionStats) > 0 {
		b.WriteString("\n## Regions\n\n")
		b.WriteString("| Region | Countries | Mean | Min | Max | GDP (B) | Population (M) |\n")
		b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: | ---: |\n")
		for _, rs := range r.RegionStats {
			b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s |\n",
				safeVal(rs.Region), rs.Count, display.Fixed(rs.ScoreMean), display.Fixed(rs.ScoreMin),
				display.Fixed(rs.ScoreMax), display.Number(rs.GDPTotal, 1), display.Number(rs.PopulationTotal, 1)))
		}
	}

	if len(r.Categories) > 0 {
		b.WriteString("\n## Categories\n\n")
		b.WriteString("| Category | Mean | Std | Min | Max |\n| --- | ---: | ---: | ---: | ---: |\n")
		for _, c := range r.Categories {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n", c.Category,
				display.Fixed(c.Mean), display.Fixed(c.StdDev), display.Fixed(c.Min), display.Fixed(c.Max)))
		}
	}

	if len(r.Correlations) > 0 {
		b.WriteString("\n## Correlation with Score\n\n")
		b.WriteString("| Indicator | r | p-value | n | Significant |\n| --- | ---: | ---: | ---: | :---: |\n")
		for _, c := range r.Correlations {
			if c.Err != nil {
				b.WriteString(fmt.Sprintf("| %s | %s | %s | %d | |\n", c.Column, display.NA, display.NA, c.Corr.N))
				continue
			}
			sig := ""
			if c.Corr.PValue < analysis.SignificanceLevel {
				sig = "yes"
			}
			b.WriteString(fmt.Sprintf("| %s | %.3f | %.4f | %d | %s |\n", c.Column, c.Corr.Coefficient, c.Corr.PValue, c.Corr.N, sig))
		}
	}

	if r.Clean != nil {
		b.WriteString("\n## Data Cleaning\n\n")
		b.WriteString(fmt.Sprintf("- Raw rows: %d\n", r.Clean.RawRows))
		b.WriteString(fmt.Sprintf("- Duplicate ids dropped: %d\n", r.Clean.DuplicatesDropped))
		b.WriteString(fmt.Sprintf("- Missing values imputed: %d\n", total(r.Clean.Imputed)))
		b.WriteString(fmt.Sprintf("- Zero scores replaced: %d\n", total(r.Clean.SentinelsReplaced)))
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeRanking(b *strings.Builder, title string, t *dataset.Table) {
	if t.Len() == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("\n## %s\n\n", title))
	b.WriteString("| # | Country | Region | Score | Classification |\n| ---: | --- | --- | ---: | --- |\n")
	for i, r := range t.Records() {
		b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, safeVal(r.Name), safeVal(r.Region), display.Fixed(r.Score()), analysis.Label(r.Score())))
	}
}

func money(v float64, decimals int, suffix string) string {
	if display.Undefined(v) {
		return display.NA
	}
	return "$" + display.Number(v, decimals) + suffix
}

func total(m map[dataset.Column]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
