package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Options controls how a source file is read.
type Options struct {
	// Delimiter for CSV. If 0, ',' is used, or '\t' for .tsv files.
	Delimiter rune
	// Sheet selects the XLSX sheet by name; empty means the first sheet.
	Sheet string
	// Logger receives debug output about the header mapping. Optional.
	Logger *slog.Logger
}

// DefaultOptions returns the options used for the standard dataset file.
func DefaultOptions() Options {
	return Options{}
}

// Open loads path choosing the reader by file extension.
func Open(path string, opt Options) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return LoadXLSX(path, opt)
	}
	return Load(path, opt)
}

// Load reads a delimited file with a header row into a Table in source order.
// It fails with ErrSourceNotFound when the path does not exist and with a
// *SourceReadError for malformed content. No partial table is returned.
func Load(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, &SourceReadError{Path: path, Err: err}
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SourceReadError{Path: path, Err: errors.New("missing header row")}
		}
		return nil, &SourceReadError{Path: path, Line: 1, Err: err}
	}
	dec := newRowDecoder(header, opt.Logger)
	var rows []Record
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &SourceReadError{Path: path, Line: pe.Line, Err: pe.Err}
			}
			return nil, &SourceReadError{Path: path, Err: err}
		}
		line, _ := r.FieldPos(0)
		row, err := dec.decode(rec)
		if err != nil {
			return nil, &SourceReadError{Path: path, Line: line, Err: err}
		}
		rows = append(rows, row)
	}
	return &Table{rows: rows, cols: dec.present}, nil
}

// LoadXLSX reads the selected sheet of an .xlsx workbook. The first row is
// the header; fully blank rows are skipped.
func LoadXLSX(path string, opt Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, &SourceReadError{Path: path, Err: err}
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SourceReadError{Path: path, Err: errors.New("workbook has no sheets")}
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, &SourceReadError{Path: path, Err: fmt.Errorf("sheet '%s' not found; available sheets: %s",
				opt.Sheet, strings.Join(sheets, ", "))}
		}
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: fmt.Errorf("read sheet %s: %w", sheet, err)}
	}
	var dec *rowDecoder
	var rows []Record
	for i, rec := range all {
		if blank(rec) {
			continue
		}
		if dec == nil {
			dec = newRowDecoder(rec, opt.Logger)
			continue
		}
		row, err := dec.decode(rec)
		if err != nil {
			return nil, &SourceReadError{Path: path, Line: i + 1, Err: err}
		}
		rows = append(rows, row)
	}
	if dec == nil {
		return nil, &SourceReadError{Path: path, Err: errors.New("missing header row")}
	}
	return &Table{rows: rows, cols: dec.present}, nil
}

// rowDecoder maps source fields onto schema columns.
type rowDecoder struct {
	width   int
	index   []Column // per source field; -1 when the field is not part of the schema
	present columnSet
}

func newRowDecoder(header []string, logger *slog.Logger) *rowDecoder {
	d := &rowDecoder{width: len(header), index: make([]Column, len(header))}
	for i, h := range header {
		d.index[i] = -1
		c, err := ParseColumn(strings.TrimPrefix(h, "\ufeff"))
		if err != nil {
			if logger != nil {
				logger.Debug("ignoring unknown column", slog.String("header", h))
			}
			continue
		}
		if d.present.has(c) {
			if logger != nil {
				logger.Debug("ignoring repeated column", slog.String("header", h))
			}
			continue
		}
		d.index[i] = c
		d.present = d.present.with(c)
	}
	return d
}

func (d *rowDecoder) decode(fields []string) (Record, error) {
	if len(fields) > d.width {
		return Record{}, fmt.Errorf("expected %d fields, saw %d", d.width, len(fields))
	}
	rec := NewRecord("", "", "")
	for i, c := range d.index {
		if c < 0 || i >= len(fields) {
			continue
		}
		v := strings.TrimSpace(fields[i])
		switch c {
		case CountryID:
			rec.ID = v
		case CountryName:
			rec.Name = v
		case Region:
			rec.Region = v
		default:
			x, err := parseNumber(v)
			if err != nil {
				return Record{}, fmt.Errorf("column %q: %w", c, err)
			}
			rec.values[c] = x
		}
	}
	return rec, nil
}

var missingTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "nan": {}, "null": {}, "none": {}, "-": {},
}

// parseNumber converts a numeric cell. Missing markers yield NaN.
func parseNumber(s string) (float64, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if _, ok := missingTokens[strings.ToLower(raw)]; ok {
		return math.NaN(), nil
	}
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, " ", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(filepath.Base(path)), ".tsv") {
		return '\t'
	}
	return ','
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
