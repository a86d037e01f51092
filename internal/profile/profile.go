// Package profile summarizes a dataset's structure and quality without
// modifying it: per-column missing/unique counts plus dataset-level shape,
// duplicate, and missing-percentage metadata.
package profile

import (
	"strings"

	"github.com/wrenfolk/edascope/internal/dataset"
)

// ColumnProfile is the per-column quality summary.
type ColumnProfile struct {
	Name       string
	Kind       dataset.Kind
	NonNull    int
	Missing    int
	MissingPct float64 // of this column's rows
	Unique     int     // distinct non-missing raw values
}

// DatasetProfile aggregates the column profiles with dataset-level counts.
type DatasetProfile struct {
	Rows            int
	Cols            int
	NumericCols     int
	CategoricalCols int // includes boolean columns
	DateTimeCols    int
	TextCols        int
	TotalMissing    int
	MissingPct      float64 // missing cells / (rows * cols), as a percentage
	DuplicateRows   int     // full-row matches beyond the first occurrence
	Columns         []ColumnProfile
}

// rowSep joins cells into a duplicate-detection key; unit separator cannot
// appear in parsed cell text.
const rowSep = "\x1f"

// Profile computes the dataset profile. It is a pure function of the dataset;
// an empty dataset yields zero counts, never an error.
func Profile(ds *dataset.Dataset) *DatasetProfile {
	p := &DatasetProfile{
		Rows:    ds.NumRows,
		Cols:    len(ds.Columns),
		Columns: make([]ColumnProfile, 0, len(ds.Columns)),
	}

	for i := range ds.Columns {
		col := &ds.Columns[i]
		cp := ColumnProfile{Name: col.Name, Kind: col.Kind}
		uniq := make(map[string]struct{})
		for r := 0; r < ds.NumRows; r++ {
			if col.Missing[r] {
				cp.Missing++
				continue
			}
			cp.NonNull++
			uniq[col.Raw[r]] = struct{}{}
		}
		cp.Unique = len(uniq)
		if ds.NumRows > 0 {
			cp.MissingPct = float64(cp.Missing) * 100 / float64(ds.NumRows)
		}
		p.TotalMissing += cp.Missing

		switch col.Kind {
		case dataset.KindNumeric:
			p.NumericCols++
		case dataset.KindCategorical, dataset.KindBoolean:
			p.CategoricalCols++
		case dataset.KindDateTime:
			p.DateTimeCols++
		case dataset.KindText:
			p.TextCols++
		}
		p.Columns = append(p.Columns, cp)
	}

	if cells := p.Rows * p.Cols; cells > 0 {
		p.MissingPct = float64(p.TotalMissing) * 100 / float64(cells)
	}
	p.DuplicateRows = countDuplicates(ds)
	return p
}

func countDuplicates(ds *dataset.Dataset) int {
	if ds.NumRows == 0 || len(ds.Columns) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, ds.NumRows)
	dups := 0
	for i := 0; i < ds.NumRows; i++ {
		key := strings.Join(ds.Row(i), rowSep)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
