// Package report assembles analysis results into the machine-readable JSON
// summary and the human-readable HTML reports.
package report

import (
	"time"

	"github.com/wrenfolk/edascope/internal/outliers"
	"github.com/wrenfolk/edascope/internal/profile"
	"github.com/wrenfolk/edascope/internal/stats"
)

// Result is everything the pipeline computed for one dataset. The JSON
// summary serializes only the deterministic parts; RunID and GeneratedAt
// appear in the HTML reports alone.
type Result struct {
	Source      string
	GeneratedAt time.Time
	RunID       string

	Profile     *profile.DatasetProfile
	Numeric     map[string]stats.Descriptive
	Categorical map[string]stats.FrequencyTable
	Outliers    *outliers.Report
	Corr        *stats.Matrix

	// CorrThreshold marks the |r| cutoff for reporting strong pairs.
	CorrThreshold float64

	Findings  []string
	PlotFiles []string // paths relative to the output directory
	Warnings  []string
}

// StrongPair is a correlated column pair above the threshold.
type StrongPair struct {
	A string  `json:"column_a"`
	B string  `json:"column_b"`
	R float64 `json:"correlation"`
}

// StrongPairs lists the upper-triangle pairs with |r| at or above the
// threshold, ordered by matrix position.
func (r *Result) StrongPairs() []StrongPair {
	if r.Corr == nil {
		return nil
	}
	var out []StrongPair
	for i := range r.Corr.Columns {
		for j := i + 1; j < len(r.Corr.Columns); j++ {
			v := r.Corr.At(i, j)
			if v >= r.CorrThreshold || v <= -r.CorrThreshold {
				out = append(out, StrongPair{
					A: r.Corr.Columns[i],
					B: r.Corr.Columns[j],
					R: v,
				})
			}
		}
	}
	return out
}
