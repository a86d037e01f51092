// Package dataset loads delimited tabular files (CSV/TSV/XLSX) into an
// in-memory, read-only Dataset with per-column type classification.
package dataset

import (
	"fmt"
	"math"
	"time"
)

// Kind classifies a column by the predominant type of its parsed cells.
type Kind int

const (
	KindUnknown Kind = iota
	KindNumeric
	KindBoolean
	KindDateTime
	KindCategorical
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	case KindDateTime:
		return "datetime"
	case KindCategorical:
		return "categorical"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Column is one column of a loaded dataset. Raw keeps the trimmed cell text
// for every row ("" for missing); typed slices are populated according to the
// elected Kind. A numeric cell that fails to parse stays NaN in Floats but
// keeps its Raw text, so it is excluded from statistics without being lost to
// duplicate detection.
type Column struct {
	Name    string
	Kind    Kind
	Raw     []string
	Missing []bool
	Floats  []float64   // numeric columns only; NaN where missing or unparsable
	Times   []time.Time // datetime columns only; zero where missing or unparsable
}

// NonNull returns the number of non-missing cells.
func (c *Column) NonNull() int {
	n := 0
	for _, m := range c.Missing {
		if !m {
			n++
		}
	}
	return n
}

// Values returns the parsed numeric values of a numeric column, excluding
// missing and unparsable cells.
func (c *Column) Values() []float64 {
	vals, _ := c.ValuesIndexed()
	return vals
}

// ValuesIndexed returns the parsed numeric values along with their dataset
// row indices, for consumers that report findings in row space.
func (c *Column) ValuesIndexed() ([]float64, []int) {
	if c.Kind != KindNumeric {
		return nil, nil
	}
	vals := make([]float64, 0, len(c.Floats))
	idx := make([]int, 0, len(c.Floats))
	for i, v := range c.Floats {
		if math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
		idx = append(idx, i)
	}
	return vals, idx
}

// Dataset is the immutable result of a load. All columns share NumRows rows.
type Dataset struct {
	Name     string
	Columns  []Column
	NumRows  int
	Warnings []string
}

// Column returns the named column, or nil.
func (ds *Dataset) Column(name string) *Column {
	for i := range ds.Columns {
		if ds.Columns[i].Name == name {
			return &ds.Columns[i]
		}
	}
	return nil
}

// NumericColumns returns the numeric columns in dataset order.
func (ds *Dataset) NumericColumns() []*Column {
	var out []*Column
	for i := range ds.Columns {
		if ds.Columns[i].Kind == KindNumeric {
			out = append(out, &ds.Columns[i])
		}
	}
	return out
}

// Row returns the raw cell texts of row i in column order.
func (ds *Dataset) Row(i int) []string {
	row := make([]string, len(ds.Columns))
	for j := range ds.Columns {
		row[j] = ds.Columns[j].Raw[i]
	}
	return row
}

// Options controls loading behavior.
type Options struct {
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t', '|'.
	Delimiter rune
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// XLSX sheet selection. SheetIndex is 1-based.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable loading defaults.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// fromRecords builds a typed Dataset from a header and raw rows. Short rows
// are padded with missing cells; long rows are truncated with a warning.
func fromRecords(name string, header []string, rows [][]string, opt Options) (*Dataset, error) {
	ncol := len(header)
	ds := &Dataset{Name: name, NumRows: len(rows)}
	if ncol == 0 {
		return ds, nil
	}

	truncated := 0
	for i, rec := range rows {
		if len(rec) > ncol {
			rows[i] = rec[:ncol]
			truncated++
		}
	}
	if truncated > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("truncated %d rows wider than the header", truncated))
	}

	ds.Columns = make([]Column, ncol)
	for j := 0; j < ncol; j++ {
		colName := trimCell(header[j])
		if colName == "" {
			colName = fmt.Sprintf("column_%d", j+1)
		}
		ds.Columns[j] = buildColumn(colName, j, rows, opt)
	}
	return ds, nil
}

func buildColumn(name string, j int, rows [][]string, opt Options) Column {
	nrows := len(rows)
	c := Column{
		Name:    name,
		Raw:     make([]string, nrows),
		Missing: make([]bool, nrows),
	}

	// First pass: election counts by parse attempt, as in predominant-kind
	// inference. Short tokens are category candidates.
	var numCnt, boolCnt, dtCnt, txtCnt, catCnt int
	for i, rec := range rows {
		v := ""
		if j < len(rec) {
			v = trimCell(rec[j])
		}
		if isMissing(v) {
			c.Raw[i] = ""
			c.Missing[i] = true
			continue
		}
		c.Raw[i] = v
		if _, ok := parseBool(v); ok {
			boolCnt++
			continue
		}
		if _, ok := parseNumeric(v, opt); ok {
			numCnt++
			continue
		}
		if _, ok := parseTimeMaybe(v); ok {
			dtCnt++
			continue
		}
		txtCnt++
		if len(v) <= 64 {
			catCnt++
		}
	}

	switch {
	case numCnt > 0 && numCnt >= boolCnt && numCnt >= dtCnt && numCnt >= txtCnt:
		c.Kind = KindNumeric
	case boolCnt > 0 && boolCnt >= dtCnt && boolCnt >= txtCnt:
		c.Kind = KindBoolean
	case dtCnt > 0 && dtCnt >= txtCnt:
		c.Kind = KindDateTime
	case catCnt > 0:
		c.Kind = KindCategorical
	case txtCnt > 0:
		c.Kind = KindText
	default:
		c.Kind = KindUnknown
	}

	// Second pass: typed values under the elected kind.
	switch c.Kind {
	case KindNumeric:
		c.Floats = make([]float64, nrows)
		for i := range c.Floats {
			c.Floats[i] = math.NaN()
			if c.Missing[i] {
				continue
			}
			if x, ok := parseNumeric(c.Raw[i], opt); ok {
				c.Floats[i] = x
			}
		}
	case KindDateTime:
		c.Times = make([]time.Time, nrows)
		for i := range c.Times {
			if c.Missing[i] {
				continue
			}
			if t, ok := parseTimeMaybe(c.Raw[i]); ok {
				c.Times[i] = t
			}
		}
	}
	return c
}
