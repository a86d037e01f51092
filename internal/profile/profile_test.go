package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wrenfolk/edascope/internal/dataset"
	"github.com/wrenfolk/edascope/internal/profile"
)

func loadCSV(t *testing.T, content string) *dataset.Dataset {
	t.Helper()
	p := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := dataset.Load(p, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return ds
}

func TestProfileCompleteDataset(t *testing.T) {
	ds := loadCSV(t, "x,y\n1,a\n2,b\n3,a\n")
	p := profile.Profile(ds)
	if p.MissingPct != 0 {
		t.Errorf("missing pct = %v, want 0", p.MissingPct)
	}
	if p.TotalMissing != 0 {
		t.Errorf("total missing = %d, want 0", p.TotalMissing)
	}
	if p.DuplicateRows != 0 {
		t.Errorf("duplicates = %d, want 0", p.DuplicateRows)
	}
	if p.NumericCols != 1 || p.CategoricalCols != 1 {
		t.Errorf("column kind counts = %d numeric / %d categorical, want 1/1", p.NumericCols, p.CategoricalCols)
	}
}

func TestProfileDuplicatesCountBeyondFirst(t *testing.T) {
	ds := loadCSV(t, "x,y\n1,a\n1,a\n1,a\n2,b\n")
	p := profile.Profile(ds)
	if p.DuplicateRows != 2 {
		t.Errorf("duplicates = %d, want 2 (first occurrence not counted)", p.DuplicateRows)
	}
}

func TestProfilePartialRowsAreNotDuplicates(t *testing.T) {
	// Same x but different y: no full-row match.
	ds := loadCSV(t, "x,y\n1,a\n1,b\n")
	p := profile.Profile(ds)
	if p.DuplicateRows != 0 {
		t.Errorf("duplicates = %d, want 0", p.DuplicateRows)
	}
}

func TestProfileMissingPercentage(t *testing.T) {
	// 2 missing cells out of 2x3 = 6.
	ds := loadCSV(t, "a,b,c\n1,,x\n2,5,\n")
	p := profile.Profile(ds)
	want := 2.0 * 100 / 6
	if diff := p.MissingPct - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("missing pct = %v, want %v", p.MissingPct, want)
	}
	if p.Columns[1].Missing != 1 || p.Columns[1].MissingPct != 50 {
		t.Errorf("column b missing = %d (%v%%), want 1 (50%%)",
			p.Columns[1].Missing, p.Columns[1].MissingPct)
	}
}

func TestProfileUniqueCounts(t *testing.T) {
	ds := loadCSV(t, "y\na\nb\na\nc\n")
	p := profile.Profile(ds)
	if p.Columns[0].Unique != 3 {
		t.Errorf("unique = %d, want 3", p.Columns[0].Unique)
	}
}

func TestProfileEmptyDataset(t *testing.T) {
	ds := loadCSV(t, "a,b\n")
	p := profile.Profile(ds)
	if p.Rows != 0 || p.Cols != 2 {
		t.Fatalf("shape = %dx%d, want 0x2", p.Rows, p.Cols)
	}
	if p.MissingPct != 0 || p.DuplicateRows != 0 {
		t.Errorf("empty dataset should have zero quality counts, got %v%% / %d dups",
			p.MissingPct, p.DuplicateRows)
	}
}
