package pipeline_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/wrenfolk/edascope/internal/config"
	"github.com/wrenfolk/edascope/internal/dataset"
	"github.com/wrenfolk/edascope/internal/outliers"
	"github.com/wrenfolk/edascope/internal/pipeline"
)

const fixtureCSV = "age,salary,city,active\n" +
	"34,55000,Lisbon,true\n" +
	"28,48000,Porto,false\n" +
	"45,72000,Lisbon,true\n" +
	"31,51000,Faro,true\n" +
	"29,NA,Porto,false\n" +
	"52,930000,Lisbon,true\n"

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runOnce(t *testing.T, profiling bool) (string, *config.Settings) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "eda_output")
	cfg := config.Default()
	res, err := pipeline.Run(cfg, pipeline.Options{
		InputPath: writeFixture(t),
		OutputDir: out,
		Profiling: profiling,
		Dataset:   dataset.DefaultOptions(),
		Outliers:  outliers.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("run ID not assigned")
	}
	return out, cfg
}

func TestRunWritesAllArtifacts(t *testing.T) {
	out, _ := runOnce(t, true)

	for _, rel := range []string{
		pipeline.SummaryFile,
		pipeline.ReportFile,
		filepath.Join(pipeline.ReportsDir, pipeline.ColumnProfileFile),
		filepath.Join(pipeline.PlotsDir, "data_overview.png"),
		filepath.Join(pipeline.PlotsDir, "distribution_age.png"),
		filepath.Join(pipeline.PlotsDir, "boxplot_salary.png"),
		filepath.Join(pipeline.PlotsDir, "outliers_salary.png"),
		filepath.Join(pipeline.PlotsDir, "countplot_city.png"),
		filepath.Join(pipeline.PlotsDir, "correlation_heatmap.png"),
		filepath.Join(pipeline.PlotsDir, "pairplot.png"),
	} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("expected artifact %s: %v", rel, err)
		}
	}
}

func TestRunWithoutProfilingOmitsDetailReport(t *testing.T) {
	out, _ := runOnce(t, false)

	if _, err := os.Stat(filepath.Join(out, pipeline.ReportsDir)); !os.IsNotExist(err) {
		t.Fatalf("reports directory should not exist, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, pipeline.SummaryFile)); err != nil {
		t.Fatalf("summary should still be written: %v", err)
	}
}

func TestRunSummaryIsReproducible(t *testing.T) {
	outA, _ := runOnce(t, true)
	outB, _ := runOnce(t, true)

	a, err := os.ReadFile(filepath.Join(outA, pipeline.SummaryFile))
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(outB, pipeline.SummaryFile))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("summary JSON differs between runs over identical input")
	}
}

func TestRunMissingInput(t *testing.T) {
	_, err := pipeline.Run(config.Default(), pipeline.Options{
		InputPath: filepath.Join(t.TempDir(), "nope.csv"),
		OutputDir: filepath.Join(t.TempDir(), "out"),
		Dataset:   dataset.DefaultOptions(),
		Outliers:  outliers.DefaultConfig(),
	})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}
