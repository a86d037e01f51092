package report

import (
	"fmt"
	"sort"

	"github.com/wrenfolk/edascope/internal/outliers"
)

// outlierShareAlert is the flagged-row percentage above which a column is
// called out in the key findings.
const outlierShareAlert = 5.0

// KeyFindings derives plain-language observations from the computed results.
// The rules are fixed and the output order is deterministic.
func KeyFindings(r *Result) []string {
	if r.Profile.Rows == 0 {
		return []string{"Dataset contains a header but no data rows."}
	}

	var out []string
	if r.Profile.MissingPct > 10 {
		out = append(out, fmt.Sprintf(
			"High proportion of missing values: %.1f%% of all cells are missing.",
			r.Profile.MissingPct))
	} else if r.Profile.TotalMissing == 0 {
		out = append(out, "No missing values detected.")
	}

	if r.Profile.DuplicateRows > 0 {
		out = append(out, fmt.Sprintf(
			"Found %d duplicate rows (%.1f%% of the dataset).",
			r.Profile.DuplicateRows,
			float64(r.Profile.DuplicateRows)*100/float64(r.Profile.Rows)))
	}

	if pairs := r.StrongPairs(); len(pairs) > 0 {
		out = append(out, fmt.Sprintf(
			"%d column pairs are strongly correlated (|r| >= %.2f).",
			len(pairs), r.CorrThreshold))
	}

	out = append(out, outlierFindings(r.Outliers)...)

	if len(out) == 0 {
		out = append(out, "No notable data quality issues detected.")
	}
	return out
}

func outlierFindings(rep *outliers.Report) []string {
	if rep == nil {
		return nil
	}
	// Report each column once, at its worst share across methods.
	worst := make(map[string]float64)
	for _, byCol := range rep.ByMethod {
		for name, cf := range byCol {
			if cf.Percentage > worst[name] {
				worst[name] = cf.Percentage
			}
		}
	}
	names := make([]string, 0, len(worst))
	for name, pct := range worst {
		if pct > outlierShareAlert {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, fmt.Sprintf(
			"Column %q has a high share of outliers: %.1f%% of its rows are flagged.",
			name, worst[name]))
	}
	return out
}
