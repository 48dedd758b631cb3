package dataset

import (
	"fmt"
	"math"
)

// CleanReport records what Clean changed.
type CleanReport struct {
	RawRows           int
	DuplicatesDropped int
	// Imputed counts missing values replaced with the column mean, per column.
	Imputed map[Column]int
	// SentinelsReplaced counts zero scores replaced with the non-zero mean, per column.
	SentinelsReplaced map[Column]int
}

// Clean produces the canonical table from a raw one:
//
//  1. rows sharing a Country_id after the first are dropped;
//  2. missing numeric values (World Rank excepted) become the column mean;
//  3. exact zeros in the score and category columns are treated as not
//     reported and become the mean of the column's non-zero values.
//
// The raw table is left untouched. Clean fails with an *InsufficientDataError
// when a column that needs imputation has nothing to impute from.
func Clean(raw *Table) (*Table, *CleanReport, error) {
	if !raw.Has(CountryID) {
		return nil, nil, fmt.Errorf("deduplicate: %w: %s", ErrColumnNotFound, CountryID)
	}
	rep := &CleanReport{
		RawRows:           raw.Len(),
		Imputed:           map[Column]int{},
		SentinelsReplaced: map[Column]int{},
	}

	seen := make(map[string]struct{}, raw.Len())
	rows := make([]Record, 0, raw.Len())
	for _, r := range raw.rows {
		if _, dup := seen[r.ID]; dup {
			rep.DuplicatesDropped++
			continue
		}
		seen[r.ID] = struct{}{}
		rows = append(rows, r)
	}

	for _, c := range NumericColumns() {
		if c == WorldRank || !raw.cols.has(c) {
			continue
		}
		n, err := imputeMissing(rows, c)
		if err != nil {
			return nil, nil, err
		}
		if n > 0 {
			rep.Imputed[c] = n
		}
	}

	for _, c := range NumericColumns() {
		if !c.sentinelZero() || !raw.cols.has(c) {
			continue
		}
		n, err := replaceZeros(rows, c)
		if err != nil {
			return nil, nil, err
		}
		if n > 0 {
			rep.SentinelsReplaced[c] = n
		}
	}
	return &Table{rows: rows, cols: raw.cols}, rep, nil
}

// imputeMissing replaces NaN values of c with the mean of the present values.
func imputeMissing(rows []Record, c Column) (int, error) {
	var sum float64
	var n, missing int
	for i := range rows {
		v := rows[i].values[c]
		if math.IsNaN(v) {
			missing++
			continue
		}
		sum += v
		n++
	}
	if missing == 0 {
		return 0, nil
	}
	if n == 0 {
		return 0, &InsufficientDataError{Column: c, Step: "missing value imputation"}
	}
	mean := sum / float64(n)
	for i := range rows {
		if math.IsNaN(rows[i].values[c]) {
			rows[i].values[c] = mean
		}
	}
	return missing, nil
}

// replaceZeros replaces exact zeros of c with the mean of the non-zero values.
// The mean is taken over all rows before any replacement.
func replaceZeros(rows []Record, c Column) (int, error) {
	var sum float64
	var n, zeros int
	for i := range rows {
		v := rows[i].values[c]
		if v == 0 {
			zeros++
			continue
		}
		sum += v
		n++
	}
	if zeros == 0 {
		return 0, nil
	}
	if n == 0 {
		return 0, &InsufficientDataError{Column: c, Step: "sentinel zero replacement"}
	}
	mean := sum / float64(n)
	for i := range rows {
		if rows[i].values[c] == 0 {
			rows[i].values[c] = mean
		}
	}
	return zeros, nil
}
