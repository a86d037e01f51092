package viz_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wrenfolk/edascope/internal/dataset"
	"github.com/wrenfolk/edascope/internal/outliers"
	"github.com/wrenfolk/edascope/internal/profile"
	"github.com/wrenfolk/edascope/internal/stats"
	"github.com/wrenfolk/edascope/internal/viz"
)

func loadCSV(t *testing.T, content string) *dataset.Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := dataset.Load(path, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ds
}

func newRenderer(t *testing.T) (*viz.Renderer, string) {
	t.Helper()
	dir := t.TempDir()
	return viz.NewRenderer(dir, viz.DefaultOptions()), dir
}

func mustExist(t *testing.T, dir, name string) {
	t.Helper()
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("expected %s: %v", name, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", name)
	}
}

func TestHistogramAndBoxPlot(t *testing.T) {
	ds := loadCSV(t, "x\n1\n2\n3\n4\n5\n6\n7\n8\n")
	r, dir := newRenderer(t)
	col := ds.Column("x")

	name, err := r.Histogram(col)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if name != "distribution_x.png" {
		t.Fatalf("unexpected name %q", name)
	}
	mustExist(t, dir, name)

	name, err = r.BoxPlot(col)
	if err != nil {
		t.Fatalf("BoxPlot: %v", err)
	}
	mustExist(t, dir, name)
}

func TestHistogramSkipsConstantColumn(t *testing.T) {
	ds := loadCSV(t, "x\n5\n5\n5\n")
	r, dir := newRenderer(t)

	name, err := r.Histogram(ds.Column("x"))
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if name != "" {
		t.Fatalf("expected skip, got %q", name)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files, got %d", len(entries))
	}
}

func TestCountPlotSkipsHighCardinality(t *testing.T) {
	r, _ := newRenderer(t)
	ds := loadCSV(t, "c\na\nb\na\n")
	col := ds.Column("c")

	ft := stats.Frequencies(col, 10)
	name, err := r.CountPlot(col, ft)
	if err != nil {
		t.Fatalf("CountPlot: %v", err)
	}
	if name == "" {
		t.Fatal("expected a count plot for low-cardinality column")
	}

	ft.Unique = 21
	name, err = r.CountPlot(col, ft)
	if err != nil || name != "" {
		t.Fatalf("expected skip for 21 distinct values, got %q, %v", name, err)
	}
}

func TestOverviewAndMissing(t *testing.T) {
	ds := loadCSV(t, "a,b\n1,x\n,y\n3,\n")
	prof := profile.Profile(ds)
	r, dir := newRenderer(t)

	name, err := r.Overview(prof)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	mustExist(t, dir, name)

	name, err = r.MissingBars(prof)
	if err != nil {
		t.Fatalf("MissingBars: %v", err)
	}
	mustExist(t, dir, name)
}

func TestCorrelationHeatmap(t *testing.T) {
	ds := loadCSV(t, "a,b\n1,2\n2,4\n3,6\n4,9\n")
	m := stats.Correlations(ds)
	r, dir := newRenderer(t)

	name, err := r.CorrelationHeatmap(m)
	if err != nil {
		t.Fatalf("CorrelationHeatmap: %v", err)
	}
	if name != "correlation_heatmap.png" {
		t.Fatalf("unexpected name %q", name)
	}
	mustExist(t, dir, name)

	if got, err := r.CorrelationHeatmap(nil); got != "" || err != nil {
		t.Fatalf("expected skip for nil matrix, got %q, %v", got, err)
	}
}

func TestPairPlot(t *testing.T) {
	ds := loadCSV(t, "a,b,c\n1,2,x\n2,4,y\n3,5,x\n4,9,y\n5,11,x\n")
	r, dir := newRenderer(t)

	name, err := r.PairPlot(ds)
	if err != nil {
		t.Fatalf("PairPlot: %v", err)
	}
	if name != "pairplot.png" {
		t.Fatalf("unexpected name %q", name)
	}
	mustExist(t, dir, name)
}

func TestPairPlotNeedsTwoNumericColumns(t *testing.T) {
	ds := loadCSV(t, "a,c\n1,x\n2,y\n3,x\n")
	r, dir := newRenderer(t)

	name, err := r.PairPlot(ds)
	if err != nil || name != "" {
		t.Fatalf("expected skip, got %q, %v", name, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files, got %d", len(entries))
	}
}

func TestOutlierScatterHighlightsFlags(t *testing.T) {
	ds := loadCSV(t, "x\n1\n2\n1\n2\n1000\n")
	col := ds.Column("x")
	rep, err := outliers.Detect(ds, outliers.Config{
		Methods: []outliers.Method{outliers.MethodIQR},
		IQRK:    1.5,
	})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	flags := rep.ByMethod[outliers.MethodIQR]["x"]

	r, dir := newRenderer(t)
	name, err := r.OutlierScatter(col, flags.Indices)
	if err != nil {
		t.Fatalf("OutlierScatter: %v", err)
	}
	if name != "outliers_x.png" {
		t.Fatalf("unexpected name %q", name)
	}
	mustExist(t, dir, name)
}
