package report

import (
	"math"
	"strconv"

	"github.com/wrenfolk/edascope/internal/outliers"
	"github.com/wrenfolk/edascope/internal/utils"
)

// jsonFloat marshals NaN and infinities as null. encoding/json rejects them
// outright, and the summary schema uses null for undefined statistics.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

type basicStats struct {
	TotalRows          int       `json:"total_rows"`
	TotalColumns       int       `json:"total_columns"`
	NumericColumns     int       `json:"numeric_columns"`
	CategoricalColumns int       `json:"categorical_columns"`
	DateTimeColumns    int       `json:"datetime_columns"`
	TextColumns        int       `json:"text_columns"`
	TotalMissingValues int       `json:"total_missing_values"`
	MissingPercentage  jsonFloat `json:"missing_percentage"`
	DuplicateRows      int       `json:"duplicate_rows"`
}

type missingEntry struct {
	Count      int       `json:"count"`
	Percentage jsonFloat `json:"percentage"`
}

type numericEntry struct {
	Count    int       `json:"count"`
	Mean     jsonFloat `json:"mean"`
	Median   jsonFloat `json:"median"`
	Std      jsonFloat `json:"std"`
	Variance jsonFloat `json:"variance"`
	Min      jsonFloat `json:"min"`
	Max      jsonFloat `json:"max"`
	Q1       jsonFloat `json:"q1"`
	Q3       jsonFloat `json:"q3"`
	Skewness jsonFloat `json:"skewness"`
	Kurtosis jsonFloat `json:"kurtosis"`
}

type freqEntry struct {
	Value      string    `json:"value"`
	Count      int       `json:"count"`
	Proportion jsonFloat `json:"proportion"`
}

type categoricalEntry struct {
	Unique             int         `json:"unique"`
	MostFrequent       string      `json:"most_frequent"`
	MostFrequentCount  int         `json:"most_frequent_count"`
	LeastFrequent      string      `json:"least_frequent"`
	LeastFrequentCount int         `json:"least_frequent_count"`
	TopValues          []freqEntry `json:"top_values"`
}

type iqrEntry struct {
	Indices    []int     `json:"indices"`
	Count      int       `json:"count"`
	Percentage jsonFloat `json:"percentage"`
	LowerFence jsonFloat `json:"lower_fence"`
	UpperFence jsonFloat `json:"upper_fence"`
}

type zscoreEntry struct {
	Indices    []int     `json:"indices"`
	Count      int       `json:"count"`
	Percentage jsonFloat `json:"percentage"`
	Mean       jsonFloat `json:"mean"`
	Std        jsonFloat `json:"std"`
	Threshold  jsonFloat `json:"threshold"`
}

type outlierPayload struct {
	IQR    map[string]iqrEntry    `json:"iqr,omitempty"`
	ZScore map[string]zscoreEntry `json:"zscore,omitempty"`
	Union  map[string][]int       `json:"union,omitempty"`
}

type strongPairEntry struct {
	A string    `json:"column_a"`
	B string    `json:"column_b"`
	R jsonFloat `json:"correlation"`
}

type correlationPayload struct {
	Columns     []string          `json:"columns"`
	Matrix      [][]jsonFloat     `json:"matrix"`
	Threshold   jsonFloat         `json:"threshold"`
	StrongPairs []strongPairEntry `json:"strong_pairs"`
}

type summaryPayload struct {
	Source           string                      `json:"source"`
	BasicStats       basicStats                  `json:"basic_stats"`
	MissingData      map[string]missingEntry     `json:"missing_data"`
	UniqueValues     map[string]int              `json:"unique_values"`
	NumericStats     map[string]numericEntry     `json:"numeric_statistics"`
	CategoricalStats map[string]categoricalEntry `json:"categorical_statistics"`
	Outliers         outlierPayload              `json:"outliers"`
	Correlations     *correlationPayload         `json:"correlations"`
	KeyFindings      []string                    `json:"key_findings"`
	Visualizations   []string                    `json:"visualizations"`
	Warnings         []string                    `json:"warnings"`
}

func buildPayload(r *Result) summaryPayload {
	p := summaryPayload{
		Source: r.Source,
		BasicStats: basicStats{
			TotalRows:          r.Profile.Rows,
			TotalColumns:       r.Profile.Cols,
			NumericColumns:     r.Profile.NumericCols,
			CategoricalColumns: r.Profile.CategoricalCols,
			DateTimeColumns:    r.Profile.DateTimeCols,
			TextColumns:        r.Profile.TextCols,
			TotalMissingValues: r.Profile.TotalMissing,
			MissingPercentage:  jsonFloat(r.Profile.MissingPct),
			DuplicateRows:      r.Profile.DuplicateRows,
		},
		MissingData:      make(map[string]missingEntry, len(r.Profile.Columns)),
		UniqueValues:     make(map[string]int, len(r.Profile.Columns)),
		NumericStats:     make(map[string]numericEntry, len(r.Numeric)),
		CategoricalStats: make(map[string]categoricalEntry, len(r.Categorical)),
		KeyFindings:      emptyNotNil(r.Findings),
		Visualizations:   emptyNotNil(r.PlotFiles),
		Warnings:         emptyNotNil(r.Warnings),
	}

	for _, c := range r.Profile.Columns {
		p.MissingData[c.Name] = missingEntry{Count: c.Missing, Percentage: jsonFloat(c.MissingPct)}
		p.UniqueValues[c.Name] = c.Unique
	}

	for name, d := range r.Numeric {
		p.NumericStats[name] = numericEntry{
			Count:    d.Count,
			Mean:     jsonFloat(d.Mean),
			Median:   jsonFloat(d.Median),
			Std:      jsonFloat(d.Std),
			Variance: jsonFloat(d.Variance),
			Min:      jsonFloat(d.Min),
			Max:      jsonFloat(d.Max),
			Q1:       jsonFloat(d.Q1),
			Q3:       jsonFloat(d.Q3),
			Skewness: jsonFloat(d.Skewness),
			Kurtosis: jsonFloat(d.Kurtosis),
		}
	}

	for name, ft := range r.Categorical {
		entry := categoricalEntry{
			Unique:             ft.Unique,
			MostFrequent:       ft.MostFrequent,
			MostFrequentCount:  ft.MostFrequentCount,
			LeastFrequent:      ft.LeastFrequent,
			LeastFrequentCount: ft.LeastFrequentCount,
			TopValues:          make([]freqEntry, 0, len(ft.Values)),
		}
		for _, f := range ft.Values {
			entry.TopValues = append(entry.TopValues, freqEntry{
				Value:      f.Value,
				Count:      f.Count,
				Proportion: jsonFloat(f.Proportion),
			})
		}
		p.CategoricalStats[name] = entry
	}

	if r.Outliers != nil {
		if flags, ok := r.Outliers.ByMethod[outliers.MethodIQR]; ok {
			p.Outliers.IQR = make(map[string]iqrEntry, len(flags))
			for name, cf := range flags {
				p.Outliers.IQR[name] = iqrEntry{
					Indices:    emptyNotNil(cf.Indices),
					Count:      cf.Count,
					Percentage: jsonFloat(cf.Percentage),
					LowerFence: jsonFloat(cf.Lower),
					UpperFence: jsonFloat(cf.Upper),
				}
			}
		}
		if flags, ok := r.Outliers.ByMethod[outliers.MethodZScore]; ok {
			p.Outliers.ZScore = make(map[string]zscoreEntry, len(flags))
			for name, cf := range flags {
				p.Outliers.ZScore[name] = zscoreEntry{
					Indices:    emptyNotNil(cf.Indices),
					Count:      cf.Count,
					Percentage: jsonFloat(cf.Percentage),
					Mean:       jsonFloat(cf.Mean),
					Std:        jsonFloat(cf.Std),
					Threshold:  jsonFloat(cf.Threshold),
				}
			}
		}
		p.Outliers.Union = r.Outliers.Union
	}

	if r.Corr != nil {
		cp := &correlationPayload{
			Columns:     r.Corr.Columns,
			Matrix:      make([][]jsonFloat, len(r.Corr.Values)),
			Threshold:   jsonFloat(r.CorrThreshold),
			StrongPairs: []strongPairEntry{},
		}
		for i, row := range r.Corr.Values {
			cp.Matrix[i] = make([]jsonFloat, len(row))
			for j, v := range row {
				cp.Matrix[i][j] = jsonFloat(v)
			}
		}
		for _, sp := range r.StrongPairs() {
			cp.StrongPairs = append(cp.StrongPairs, strongPairEntry{A: sp.A, B: sp.B, R: jsonFloat(sp.R)})
		}
		p.Correlations = cp
	}
	return p
}

func emptyNotNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// WriteJSON writes the deterministic machine-readable summary. Two runs over
// the same input produce byte-identical files: map keys are sorted by the
// encoder and no timestamps or run identifiers are included.
func WriteJSON(r *Result, path string) error {
	data, err := utils.PrettyJSON(buildPayload(r))
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, data)
}
