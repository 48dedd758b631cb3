// Package query answers ranking, filter, comparison and contribution
// questions against a cleaned dataset.Table. Results are new tables or
// plain slices; the input table is never modified.
package query

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
)

// ErrCountryNotFound is returned when a per-country query names a country
// the table does not contain.
var ErrCountryNotFound = errors.New("country not found")

// TopN returns the n rows with the largest value in by. Ties keep table
// order; missing values rank last. n larger than the table returns every
// row, n <= 0 returns an empty table.
func TopN(t *dataset.Table, n int, by dataset.Column) (*dataset.Table, error) {
	return rank(t, n, by, true)
}

// BottomN returns the n rows with the smallest value in by, with the same
// tie and size rules as TopN.
func BottomN(t *dataset.Table, n int, by dataset.Column) (*dataset.Table, error) {
	return rank(t, n, by, false)
}

func rank(t *dataset.Table, n int, by dataset.Column, desc bool) (*dataset.Table, error) {
	vals, err := t.Float(by)
	if err != nil {
		return nil, fmt.Errorf("rank by %s: %w", by, err)
	}
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := vals[idx[a]], vals[idx[b]]
		if math.IsNaN(va) || math.IsNaN(vb) {
			return !math.IsNaN(va) && math.IsNaN(vb)
		}
		if desc {
			return va > vb
		}
		return va < vb
	})
	if n < 0 {
		n = 0
	}
	if n < len(idx) {
		idx = idx[:n]
	}
	return t.Subset(idx), nil
}

// FilterByRegion returns the rows of region. An unknown region yields an
// empty table.
func FilterByRegion(t *dataset.Table, region string) *dataset.Table {
	return t.Where(func(r dataset.Record) bool { return r.Region == region })
}

// FilterByRegions returns the rows whose region is one of regions. An empty
// selection yields an empty table.
func FilterByRegions(t *dataset.Table, regions []string) *dataset.Table {
	want := make(map[string]bool, len(regions))
	for _, r := range regions {
		want[r] = true
	}
	return t.Where(func(r dataset.Record) bool { return want[r.Region] })
}

// Regions lists the distinct regions of the table, sorted.
func Regions(t *dataset.Table) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t.Records() {
		if r.Region == "" || seen[r.Region] {
			continue
		}
		seen[r.Region] = true
		out = append(out, r.Region)
	}
	sort.Strings(out)
	return out
}

// CountriesByRegion lists the country names of region, sorted.
func CountriesByRegion(t *dataset.Table, region string) []string {
	var out []string
	for _, r := range FilterByRegion(t, region).Records() {
		out = append(out, r.Name)
	}
	sort.Strings(out)
	return out
}

// Countries lists every country name in the table, sorted.
func Countries(t *dataset.Table) []string {
	var out []string
	for _, r := range t.Records() {
		out = append(out, r.Name)
	}
	sort.Strings(out)
	return out
}

// ComparisonColumns are the columns kept by CompareCountries.
var ComparisonColumns = append([]dataset.Column{dataset.CountryName, dataset.Score, dataset.Region}, dataset.Categories...)

// CompareCountries restricts t to the named countries and to
// ComparisonColumns. Names not in the table are dropped; matches keep table
// order.
func CompareCountries(t *dataset.Table, names []string) *dataset.Table {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	return t.Where(func(r dataset.Record) bool { return want[r.Name] }).Project(ComparisonColumns)
}

// FindCountry returns the record of the named country.
func FindCountry(t *dataset.Table, name string) (dataset.Record, error) {
	r, ok := t.FindByName(name)
	if !ok {
		return dataset.Record{}, fmt.Errorf("%w: %q", ErrCountryNotFound, name)
	}
	return r, nil
}
