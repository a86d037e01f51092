// Package config holds the analysis settings and their file/env loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings is the structured configuration for one analysis run.
type Settings struct {
	OutlierMethods       []string `mapstructure:"outlier_methods" yaml:"outlier_methods"`
	IQRK                 float64  `mapstructure:"iqr_k" yaml:"iqr_k"`
	ZScoreThreshold      float64  `mapstructure:"zscore_threshold" yaml:"zscore_threshold"`
	CorrelationThreshold float64  `mapstructure:"correlation_threshold" yaml:"correlation_threshold"`
	SampleSizeForPlots   int      `mapstructure:"sample_size_for_plots" yaml:"sample_size_for_plots"`
	TopNCategories       int      `mapstructure:"top_n_categories" yaml:"top_n_categories"`

	// Figure dimensions in inches.
	FigureWidth  float64 `mapstructure:"figure_width" yaml:"figure_width"`
	FigureHeight float64 `mapstructure:"figure_height" yaml:"figure_height"`
	ColorPalette string  `mapstructure:"color_palette" yaml:"color_palette"` // bluered|grey
	Style        string  `mapstructure:"style" yaml:"style"`                 // grid|plain

	MaxRows  int    `mapstructure:"max_rows" yaml:"max_rows"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Settings {
	v := viper.New()
	setDefaults(v)
	var s Settings
	_ = v.Unmarshal(&s)
	return &s
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("outlier_methods", []string{"iqr", "zscore"})
	v.SetDefault("iqr_k", 1.5)
	v.SetDefault("zscore_threshold", 3.0)
	v.SetDefault("correlation_threshold", 0.5)
	v.SetDefault("sample_size_for_plots", 1000)
	v.SetDefault("top_n_categories", 10)
	v.SetDefault("figure_width", 8.0)
	v.SetDefault("figure_height", 6.0)
	v.SetDefault("color_palette", "bluered")
	v.SetDefault("style", "grid")
	v.SetDefault("max_rows", 0)
	v.SetDefault("log_level", "info")
}

// Load loads settings from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("EDASCOPE")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".edascope")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}

// Save writes the settings to cfgFile, or to ~/.edascope/config.yaml when
// cfgFile is empty. Returns the path written.
func Save(s *Settings, cfgFile string) (string, error) {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".edascope")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
