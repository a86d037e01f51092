package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wrenfolk/edascope/internal/dataset"
	"github.com/wrenfolk/edascope/internal/outliers"
	"github.com/wrenfolk/edascope/internal/pipeline"
)

var (
	anaFile        string
	anaOutputDir   string
	anaNoProfiling bool
	anaDelimiter   string
	anaDecimal     string
	anaThousands   string
	anaSheetName   string
	anaSheetIndex  int
	anaMethods     []string
	anaIQRK        float64
	anaZThreshold  float64
	anaMaxRows     int
	anaSampleSize  int
	anaOpen        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis over a dataset and write the reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := dataset.DefaultOptions()
		if anaMaxRows > 0 {
			opt.MaxRows = anaMaxRows
		} else if cfg.MaxRows > 0 {
			opt.MaxRows = cfg.MaxRows
		}
		if anaDelimiter != "" {
			switch anaDelimiter {
			case ",":
				opt.Delimiter = ','
			case "\t", "tab":
				opt.Delimiter = '\t'
			case ";":
				opt.Delimiter = ';'
			case "|":
				opt.Delimiter = '|'
			default:
				return fmt.Errorf("unsupported --delimiter: %s (use ','|';'|'tab'|'|')", anaDelimiter)
			}
		}
		switch strings.ToLower(strings.TrimSpace(anaDecimal)) {
		case ",", "comma":
			opt.DecimalSeparator = ','
		case ".", "dot":
			opt.DecimalSeparator = '.'
		case "":
		default:
			return fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", anaDecimal)
		}
		switch strings.ToLower(strings.TrimSpace(anaThousands)) {
		case ",":
			opt.ThousandsSeparator = ','
		case ".":
			opt.ThousandsSeparator = '.'
		case "space", " ":
			opt.ThousandsSeparator = ' '
		case "":
		default:
			return fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", anaThousands)
		}
		opt.SheetName = anaSheetName
		if anaSheetIndex > 0 {
			opt.SheetIndex = anaSheetIndex
		}

		ocfg := outliers.Config{IQRK: cfg.IQRK, ZThreshold: cfg.ZScoreThreshold}
		methods := anaMethods
		if len(methods) == 0 {
			methods = cfg.OutlierMethods
		}
		for _, m := range methods {
			ocfg.Methods = append(ocfg.Methods, outliers.Method(strings.ToLower(strings.TrimSpace(m))))
		}
		if cmd.Flags().Changed("iqr-k") {
			ocfg.IQRK = anaIQRK
		}
		if cmd.Flags().Changed("zscore-threshold") {
			ocfg.ZThreshold = anaZThreshold
		}
		if cmd.Flags().Changed("sample-size") {
			cfg.SampleSizeForPlots = anaSampleSize
		}

		res, err := pipeline.Run(cfg, pipeline.Options{
			InputPath: anaFile,
			OutputDir: anaOutputDir,
			Profiling: !anaNoProfiling,
			Dataset:   opt,
			Outliers:  ocfg,
		})
		if err != nil {
			return err
		}

		reportPath := filepath.Join(anaOutputDir, pipeline.ReportFile)
		fmt.Printf("✓ Analyzed %s: %d rows, %d columns\n", res.Source, res.Profile.Rows, res.Profile.Cols)
		fmt.Printf("✓ Report: %s\n", reportPath)
		fmt.Printf("✓ Summary: %s\n", filepath.Join(anaOutputDir, pipeline.SummaryFile))
		for _, w := range res.Warnings {
			fmt.Printf("⚠ %s\n", w)
		}

		if anaOpen {
			abs, err := filepath.Abs(reportPath)
			if err != nil {
				abs = reportPath
			}
			fmt.Printf("✓ Open in a browser: file://%s\n", abs)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaFile, "file", "f", "", "dataset to analyze (CSV, TSV or XLSX)")
	analyzeCmd.Flags().StringVarP(&anaOutputDir, "output-dir", "o", "eda_output", "directory for reports and charts")
	analyzeCmd.Flags().BoolVar(&anaNoProfiling, "no-profiling", false, "skip the per-column detail report")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (sniffed if omitted)")
	analyzeCmd.Flags().StringVar(&anaDecimal, "decimal", "", "decimal separator: '.'|'comma' (auto-detect if omitted)")
	analyzeCmd.Flags().StringVar(&anaThousands, "thousands", "", "thousands separator: ','|'.'|'space' (auto-detect if omitted)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX sheet to analyze by name")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 0, "XLSX sheet to analyze by 1-based index")
	analyzeCmd.Flags().StringSliceVar(&anaMethods, "outlier-methods", nil, "outlier methods: iqr,zscore (default from config)")
	analyzeCmd.Flags().Float64Var(&anaIQRK, "iqr-k", 1.5, "IQR fence multiplier")
	analyzeCmd.Flags().Float64Var(&anaZThreshold, "zscore-threshold", 3.0, "absolute z-score cutoff")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "cap on data rows to load (0 = all)")
	analyzeCmd.Flags().IntVar(&anaSampleSize, "sample-size", 0, "cap on points per scatter plot")
	analyzeCmd.Flags().BoolVar(&anaOpen, "open", false, "print a file:// link to the HTML report")
	_ = analyzeCmd.MarkFlagRequired("file")
}
