package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/wrenfolk/edascope/internal/config"
)

func TestDefaults(t *testing.T) {
	s := config.Default()
	if !reflect.DeepEqual(s.OutlierMethods, []string{"iqr", "zscore"}) {
		t.Errorf("outlier_methods = %v", s.OutlierMethods)
	}
	if s.IQRK != 1.5 || s.ZScoreThreshold != 3.0 {
		t.Errorf("thresholds = %v/%v, want 1.5/3.0", s.IQRK, s.ZScoreThreshold)
	}
	if s.SampleSizeForPlots != 1000 || s.TopNCategories != 10 {
		t.Errorf("plot sizing = %d/%d", s.SampleSizeForPlots, s.TopNCategories)
	}
	if s.ColorPalette != "bluered" || s.Style != "grid" {
		t.Errorf("appearance = %q/%q", s.ColorPalette, s.Style)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s := config.Default()
	s.IQRK = 2.5
	s.OutlierMethods = []string{"iqr"}
	s.ColorPalette = "grey"
	if _, err := config.Save(s, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.IQRK != 2.5 {
		t.Errorf("iqr_k = %v, want 2.5", got.IQRK)
	}
	if !reflect.DeepEqual(got.OutlierMethods, []string{"iqr"}) {
		t.Errorf("outlier_methods = %v, want [iqr]", got.OutlierMethods)
	}
	if got.ColorPalette != "grey" {
		t.Errorf("color_palette = %q, want grey", got.ColorPalette)
	}
	// Untouched fields fall back to defaults.
	if got.ZScoreThreshold != 3.0 {
		t.Errorf("zscore_threshold = %v, want default 3.0", got.ZScoreThreshold)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	old := os.Getenv("HOME")
	defer os.Setenv("HOME", old)
	os.Setenv("HOME", home)

	s, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.IQRK != 1.5 {
		t.Errorf("iqr_k = %v, want default", s.IQRK)
	}
}
