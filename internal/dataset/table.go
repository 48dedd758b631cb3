package dataset

import (
	"fmt"
	"math"
)

// Record is one country observation. Numeric values that are missing are NaN.
type Record struct {
	ID     string
	Name   string
	Region string
	values [numColumns]float64
}

// NewRecord returns a record with every numeric value missing.
func NewRecord(id, name, region string) Record {
	r := Record{ID: id, Name: name, Region: region}
	for c := WorldRank; c < numColumns; c++ {
		r.values[c] = math.NaN()
	}
	return r
}

// Value returns the numeric value of c. Missing values are NaN.
func (r Record) Value(c Column) (float64, error) {
	if !c.Numeric() {
		return 0, fmt.Errorf("%w: %s", ErrNotNumeric, c)
	}
	return r.values[c], nil
}

// Text returns the string form of a text column.
func (r Record) Text(c Column) (string, error) {
	switch c {
	case CountryID:
		return r.ID, nil
	case CountryName:
		return r.Name, nil
	case Region:
		return r.Region, nil
	}
	return "", fmt.Errorf("column %s is numeric", c)
}

// Score is shorthand for the overall score value.
func (r Record) Score() float64 { return r.values[Score] }

// WithValue returns a copy of r with c set to v.
func (r Record) WithValue(c Column, v float64) Record {
	if c.Numeric() {
		r.values[c] = v
	}
	return r
}

// Table is an ordered, column-homogeneous collection of records. A Table is
// never modified after construction; all derived views are new tables.
type Table struct {
	rows []Record
	cols columnSet
}

// NewTable builds a table from records carrying the given columns. The
// records slice is copied.
func NewTable(cols []Column, rows []Record) *Table {
	var set columnSet
	for _, c := range cols {
		set = set.with(c)
	}
	cp := make([]Record, len(rows))
	copy(cp, rows)
	return &Table{rows: cp, cols: set}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns the i-th record.
func (t *Table) Row(i int) Record { return t.rows[i] }

// Records returns a copy of all rows in table order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))
	copy(out, t.rows)
	return out
}

// Has reports whether the table carries column c.
func (t *Table) Has(c Column) bool { return t != nil && t.cols.has(c) }

// Columns lists the carried columns in schema order.
func (t *Table) Columns() []Column {
	var out []Column
	for c := Column(0); c < numColumns; c++ {
		if t.cols.has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Float returns a copy of numeric column c in row order.
func (t *Table) Float(c Column) ([]float64, error) {
	if !c.Numeric() {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, c)
	}
	if !t.Has(c) {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, c)
	}
	out := make([]float64, len(t.rows))
	for i := range t.rows {
		out[i] = t.rows[i].values[c]
	}
	return out, nil
}

// Text returns a copy of text column c in row order.
func (t *Table) Text(c Column) ([]string, error) {
	if c.Numeric() {
		return nil, fmt.Errorf("column %s is numeric", c)
	}
	if !t.Has(c) {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, c)
	}
	out := make([]string, len(t.rows))
	for i := range t.rows {
		out[i], _ = t.rows[i].Text(c)
	}
	return out, nil
}

// Subset returns a new table holding the rows at idx, in the given order.
func (t *Table) Subset(idx []int) *Table {
	rows := make([]Record, len(idx))
	for i, j := range idx {
		rows[i] = t.rows[j]
	}
	return &Table{rows: rows, cols: t.cols}
}

// Where returns the rows for which keep returns true, preserving order.
func (t *Table) Where(keep func(Record) bool) *Table {
	var idx []int
	for i := range t.rows {
		if keep(t.rows[i]) {
			idx = append(idx, i)
		}
	}
	return t.Subset(idx)
}

// Project returns a table restricted to cols. Columns the table does not
// carry are dropped silently.
func (t *Table) Project(cols []Column) *Table {
	var set columnSet
	for _, c := range cols {
		if t.cols.has(c) {
			set = set.with(c)
		}
	}
	out := &Table{rows: make([]Record, len(t.rows)), cols: set}
	for i, r := range t.rows {
		p := NewRecord("", "", "")
		if set.has(CountryID) {
			p.ID = r.ID
		}
		if set.has(CountryName) {
			p.Name = r.Name
		}
		if set.has(Region) {
			p.Region = r.Region
		}
		for c := WorldRank; c < numColumns; c++ {
			if set.has(c) {
				p.values[c] = r.values[c]
			}
		}
		out.rows[i] = p
	}
	return out
}

// FindByName returns the first record whose country name equals name.
func (t *Table) FindByName(name string) (Record, bool) {
	for _, r := range t.rows {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}
