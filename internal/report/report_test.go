package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wrenfolk/edascope/internal/dataset"
	"github.com/wrenfolk/edascope/internal/outliers"
	"github.com/wrenfolk/edascope/internal/profile"
	"github.com/wrenfolk/edascope/internal/report"
	"github.com/wrenfolk/edascope/internal/stats"
)

// buildResult runs the computation packages over an in-memory CSV so report
// tests exercise realistic inputs.
func buildResult(t *testing.T, csv string) *report.Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := dataset.Load(path, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	res := &report.Result{
		Source:        "input.csv",
		GeneratedAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		RunID:         "test-run-id",
		Profile:       profile.Profile(ds),
		Numeric:       make(map[string]stats.Descriptive),
		Categorical:   make(map[string]stats.FrequencyTable),
		CorrThreshold: 0.5,
	}
	for i := range ds.Columns {
		col := &ds.Columns[i]
		switch col.Kind {
		case dataset.KindNumeric:
			res.Numeric[col.Name] = stats.Describe(col.Values())
		case dataset.KindCategorical, dataset.KindBoolean:
			res.Categorical[col.Name] = stats.Frequencies(col, 10)
		}
	}
	res.Outliers, err = outliers.Detect(ds, outliers.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	res.Corr = stats.Correlations(ds)
	res.Findings = report.KeyFindings(res)
	return res
}

const sampleCSV = "age,score,city\n30,85.5,Lisbon\n25,90.0,Porto\n35,78.2,Lisbon\n28,88.1,Faro\n41,95.3,Porto\n"

func TestWriteJSONIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	res := buildResult(t, sampleCSV)

	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")
	if err := report.WriteJSON(res, first); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	// A second result for the same input must serialize identically even
	// though its run metadata differs.
	res2 := buildResult(t, sampleCSV)
	res2.RunID = "different-run"
	res2.GeneratedAt = time.Now()
	if err := report.WriteJSON(res2, second); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if !bytes.Equal(a, b) {
		t.Fatal("summary JSON differs between identical runs")
	}
	if bytes.Contains(a, []byte("test-run-id")) {
		t.Fatal("run ID leaked into the JSON summary")
	}
}

func TestJSONSchemaKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := report.WriteJSON(buildResult(t, sampleCSV), path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}
	for _, key := range []string{
		"source", "basic_stats", "missing_data", "unique_values",
		"numeric_statistics", "categorical_statistics", "outliers",
		"correlations", "key_findings", "visualizations", "warnings",
	} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	var basic map[string]any
	if err := json.Unmarshal(doc["basic_stats"], &basic); err != nil {
		t.Fatal(err)
	}
	if basic["total_rows"] != float64(5) || basic["numeric_columns"] != float64(2) {
		t.Fatalf("unexpected basic stats: %v", basic)
	}
}

func TestJSONUndefinedStatisticsAreNull(t *testing.T) {
	// A single observation has no defined spread.
	res := buildResult(t, "x\n42\n")
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := report.WriteJSON(res, path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, _ := os.ReadFile(path)

	var doc struct {
		NumericStats map[string]struct {
			Mean *float64 `json:"mean"`
			Std  *float64 `json:"std"`
		} `json:"numeric_statistics"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	x := doc.NumericStats["x"]
	if x.Mean == nil || *x.Mean != 42 {
		t.Fatalf("mean = %v, want 42", x.Mean)
	}
	if x.Std != nil {
		t.Fatalf("std = %v, want null", *x.Std)
	}
}

func TestKeyFindingsRules(t *testing.T) {
	res := buildResult(t, sampleCSV)
	joined := strings.Join(res.Findings, "\n")
	if !strings.Contains(joined, "No missing values") {
		t.Errorf("expected clean-data finding, got %q", joined)
	}

	res = buildResult(t, "a,b\n1,\n,\n,\n")
	joined = strings.Join(res.Findings, "\n")
	if !strings.Contains(joined, "missing") || !strings.Contains(joined, "%") {
		t.Errorf("expected high-missing finding, got %q", joined)
	}

	res = buildResult(t, "a,b\n1,x\n1,x\n1,x\n")
	joined = strings.Join(res.Findings, "\n")
	if !strings.Contains(joined, "2 duplicate rows") {
		t.Errorf("expected duplicate finding, got %q", joined)
	}

	res = buildResult(t, "a\n")
	if len(res.Findings) != 1 || !strings.Contains(res.Findings[0], "no data rows") {
		t.Errorf("expected empty-dataset finding, got %v", res.Findings)
	}
}

func TestWriteHTMLSections(t *testing.T) {
	res := buildResult(t, sampleCSV)
	res.PlotFiles = []string{"plots/data_overview.png"}
	res.Warnings = []string{"row 7: padded 1 short cell"}
	path := filepath.Join(t.TempDir(), "report.html")
	if err := report.WriteHTML(res, path); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	data, _ := os.ReadFile(path)
	html := string(data)

	for _, want := range []string{
		"Exploratory Data Analysis Report",
		"Key Findings",
		"Numeric Statistics",
		"Categorical Statistics",
		"Correlations",
		"test-run-id",
		`<img src="plots/data_overview.png"`,
		"padded 1 short cell",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report lacks %q", want)
		}
	}
}

func TestWriteColumnProfile(t *testing.T) {
	res := buildResult(t, sampleCSV)
	path := filepath.Join(t.TempDir(), "column_profile.html")
	if err := report.WriteColumnProfile(res, path); err != nil {
		t.Fatalf("WriteColumnProfile: %v", err)
	}
	data, _ := os.ReadFile(path)
	html := string(data)
	for _, want := range []string{"<h2>age</h2>", "<h2>city</h2>", "Unique values"} {
		if !strings.Contains(html, want) {
			t.Errorf("column profile lacks %q", want)
		}
	}
}
