package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for the two fatal load failures. Callers distinguish them
// with errors.Is.
var (
	ErrNotFound  = errors.New("input file not found")
	ErrMalformed = errors.New("malformed input")
)

// Load reads a tabular file into a Dataset. The format is chosen by
// extension: .xlsx goes through the workbook reader, everything else is
// parsed as delimited text.
func Load(path string, opt Options) (*Dataset, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return loadXLSX(path, opt)
	}
	return loadCSV(path, opt)
}

func loadCSV(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, f)
	}
	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{Name: filepath.Base(path)}, nil
		}
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}

	var rows [][]string
	skipped := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformed, len(rows)+1, err)
		}
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			skipped++
			continue
		}
		rows = append(rows, rec)
	}

	ds, err := fromRecords(filepath.Base(path), header, rows, opt)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("skipped %d rows beyond the %d-row limit", skipped, opt.MaxRows))
	}
	return ds, nil
}

// sniffDelimiter picks the delimiter from the filename extension or, failing
// that, by counting candidate runes on the first line.
func sniffDelimiter(path string, f *os.File) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	_, _ = f.Seek(0, io.SeekStart)
	line := string(buf[:n])
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCnt := ',', 0
	for _, cand := range []rune{',', ';', '\t', '|'} {
		if cnt := strings.Count(line, string(cand)); cnt > bestCnt {
			best, bestCnt = cand, cnt
		}
	}
	return best
}
