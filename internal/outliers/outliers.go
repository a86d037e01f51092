// Package outliers flags numeric values outside statistical thresholds.
// Two independent methods are supported: IQR fences around the quartiles and
// Z-scores against the column mean. Each method runs per numeric column over
// the non-missing values; flagged indices are dataset row indices.
package outliers

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wrenfolk/edascope/internal/dataset"
)

// Method names a detection method.
type Method string

const (
	MethodIQR    Method = "iqr"
	MethodZScore Method = "zscore"
)

// Config selects the methods to run and their thresholds.
type Config struct {
	Methods    []Method
	IQRK       float64 // fence multiplier, default 1.5
	ZThreshold float64 // |z| cutoff, default 3.0
}

// DefaultConfig runs both methods with the conventional thresholds.
func DefaultConfig() Config {
	return Config{
		Methods:    []Method{MethodIQR, MethodZScore},
		IQRK:       1.5,
		ZThreshold: 3.0,
	}
}

// ColumnFlags is the per-column result of one method.
type ColumnFlags struct {
	Column     string
	Indices    []int // ascending dataset row indices
	Count      int
	Percentage float64 // of dataset rows

	// IQR fences, when the method is iqr.
	Lower, Upper float64
	// Z-score parameters, when the method is zscore.
	Mean, Std, Threshold float64
}

// Report holds all method results plus, when more than one method ran, the
// per-column union of flagged indices.
type Report struct {
	ByMethod map[Method]map[string]ColumnFlags
	Union    map[string][]int
}

// TotalFlagged returns the number of flags raised by the given method across
// all columns.
func (r *Report) TotalFlagged(m Method) int {
	total := 0
	for _, cf := range r.ByMethod[m] {
		total += cf.Count
	}
	return total
}

// Detect runs every configured method over the dataset's numeric columns.
// It fails only on an unknown method name; columns with too few values or no
// spread simply yield no flags.
func Detect(ds *dataset.Dataset, cfg Config) (*Report, error) {
	if cfg.IQRK <= 0 {
		cfg.IQRK = 1.5
	}
	if cfg.ZThreshold <= 0 {
		cfg.ZThreshold = 3.0
	}
	for _, m := range cfg.Methods {
		if m != MethodIQR && m != MethodZScore {
			return nil, fmt.Errorf("unknown outlier method %q", m)
		}
	}

	rep := &Report{ByMethod: make(map[Method]map[string]ColumnFlags)}
	for _, m := range cfg.Methods {
		rep.ByMethod[m] = make(map[string]ColumnFlags)
	}

	for _, col := range ds.NumericColumns() {
		vals, idx := col.ValuesIndexed()
		for _, m := range cfg.Methods {
			var cf ColumnFlags
			switch m {
			case MethodIQR:
				cf = iqrFlags(vals, idx, cfg.IQRK)
			case MethodZScore:
				cf = zscoreFlags(vals, idx, cfg.ZThreshold)
			}
			cf.Column = col.Name
			cf.Count = len(cf.Indices)
			if ds.NumRows > 0 {
				cf.Percentage = float64(cf.Count) * 100 / float64(ds.NumRows)
			}
			rep.ByMethod[m][col.Name] = cf
		}
	}

	if len(cfg.Methods) > 1 {
		rep.Union = make(map[string][]int)
		for _, col := range ds.NumericColumns() {
			seen := make(map[int]struct{})
			for _, m := range cfg.Methods {
				for _, i := range rep.ByMethod[m][col.Name].Indices {
					seen[i] = struct{}{}
				}
			}
			union := make([]int, 0, len(seen))
			for i := range seen {
				union = append(union, i)
			}
			sort.Ints(union)
			rep.Union[col.Name] = union
		}
	}
	return rep, nil
}

// iqrFlags flags values outside [Q1 - k*IQR, Q3 + k*IQR]. The quartiles are
// lower order statistics rather than interpolated values, which keeps the
// fences tight enough to trigger on very small samples; a constant column has
// Q1 == Q3 == every value, so nothing falls outside the fences.
func iqrFlags(vals []float64, idx []int, k float64) ColumnFlags {
	cf := ColumnFlags{Indices: []int{}, Lower: math.NaN(), Upper: math.NaN()}
	if len(vals) == 0 {
		return cf
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	q1 := orderStat(sorted, 0.25)
	q3 := orderStat(sorted, 0.75)
	iqr := q3 - q1
	cf.Lower = q1 - k*iqr
	cf.Upper = q3 + k*iqr
	for i, v := range vals {
		if v < cf.Lower || v > cf.Upper {
			cf.Indices = append(cf.Indices, idx[i])
		}
	}
	return cf
}

// orderStat returns the sorted value at rank floor(q*(n-1)).
func orderStat(sorted []float64, q float64) float64 {
	pos := int(math.Floor(q * float64(len(sorted)-1)))
	return sorted[pos]
}

// zscoreFlags flags values whose standardized deviation from the mean exceeds
// the threshold, using the sample standard deviation reported elsewhere.
// Zero or undefined spread yields no flags.
func zscoreFlags(vals []float64, idx []int, threshold float64) ColumnFlags {
	cf := ColumnFlags{Indices: []int{}, Threshold: threshold, Mean: math.NaN(), Std: math.NaN()}
	if len(vals) < 2 {
		return cf
	}
	cf.Mean = stat.Mean(vals, nil)
	cf.Std = stat.StdDev(vals, nil)
	if cf.Std == 0 || math.IsNaN(cf.Std) {
		return cf
	}
	for i, v := range vals {
		if math.Abs(v-cf.Mean)/cf.Std > threshold {
			cf.Indices = append(cf.Indices, idx[i])
		}
	}
	return cf
}
