// Package stats computes descriptive statistics for numeric columns,
// frequency tables for categorical columns, and the Pearson correlation
// matrix across numeric columns. Undefined quantities are NaN, never errors.
//
// Conventions: standard deviation and variance use the n-1 denominator,
// skewness is the bias-corrected sample skewness, kurtosis is the
// bias-corrected sample excess kurtosis, and quantiles interpolate linearly.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wrenfolk/edascope/internal/dataset"
)

// Descriptive holds the per-column numeric summary. Fields that need more
// observations than the column provides, or a non-zero spread, are NaN.
type Descriptive struct {
	Count    int
	Mean     float64
	Median   float64
	Std      float64
	Variance float64
	Min      float64
	Max      float64
	Q1       float64
	Q3       float64
	Skewness float64
	Kurtosis float64
}

// Describe computes the descriptive summary of the given values, which must
// already exclude missing cells.
func Describe(vals []float64) Descriptive {
	nan := math.NaN()
	d := Descriptive{
		Count: len(vals),
		Mean:  nan, Median: nan, Std: nan, Variance: nan,
		Min: nan, Max: nan, Q1: nan, Q3: nan,
		Skewness: nan, Kurtosis: nan,
	}
	if len(vals) == 0 {
		return d
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.Mean = stat.Mean(vals, nil)
	d.Median = Quantile(sorted, 0.5)
	d.Q1 = Quantile(sorted, 0.25)
	d.Q3 = Quantile(sorted, 0.75)

	if len(vals) > 1 {
		d.Variance = stat.Variance(vals, nil)
		d.Std = math.Sqrt(d.Variance)
	}
	if len(vals) > 2 && d.Std > 0 {
		d.Skewness = stat.Skew(vals, nil)
	}
	if len(vals) > 3 && d.Std > 0 {
		d.Kurtosis = stat.ExKurtosis(vals, nil)
	}
	return d
}

// Quantile returns the q-th quantile of sorted values with linear
// interpolation between order statistics.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Frequency is one distinct value with its count and proportion of the
// column's non-missing cells.
type Frequency struct {
	Value      string
	Count      int
	Proportion float64
}

// FrequencyTable summarizes a categorical or boolean column. Values are
// ordered by descending count, ties broken by ascending value.
type FrequencyTable struct {
	Unique             int
	MostFrequent       string
	MostFrequentCount  int
	LeastFrequent      string
	LeastFrequentCount int
	Values             []Frequency // truncated to the configured top N
}

// Frequencies computes the frequency table of a column's raw values,
// keeping at most topN entries (0 keeps all).
func Frequencies(col *dataset.Column, topN int) FrequencyTable {
	counts := make(map[string]int)
	nonNull := 0
	for i, raw := range col.Raw {
		if col.Missing[i] {
			continue
		}
		counts[raw]++
		nonNull++
	}

	var ft FrequencyTable
	ft.Unique = len(counts)
	if len(counts) == 0 {
		return ft
	}

	all := make([]Frequency, 0, len(counts))
	for v, c := range counts {
		all = append(all, Frequency{Value: v, Count: c, Proportion: float64(c) / float64(nonNull)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count == all[j].Count {
			return all[i].Value < all[j].Value
		}
		return all[i].Count > all[j].Count
	})

	ft.MostFrequent = all[0].Value
	ft.MostFrequentCount = all[0].Count
	ft.LeastFrequent = all[len(all)-1].Value
	ft.LeastFrequentCount = all[len(all)-1].Count
	if topN > 0 && len(all) > topN {
		all = all[:topN]
	}
	ft.Values = all
	return ft
}

// Matrix is a symmetric Pearson correlation matrix with unit diagonal.
// Off-diagonal entries are NaN where undefined (zero variance or fewer than
// two paired observations).
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the correlation between the i-th and j-th columns.
func (m *Matrix) At(i, j int) float64 { return m.Values[i][j] }

// Correlations computes the pairwise Pearson correlation matrix over the
// dataset's numeric columns, using pairwise-complete observations. Returns
// nil when fewer than two numeric columns exist.
func Correlations(ds *dataset.Dataset) *Matrix {
	cols := ds.NumericColumns()
	if len(cols) < 2 {
		return nil
	}
	n := len(cols)
	m := &Matrix{
		Columns: make([]string, n),
		Values:  make([][]float64, n),
	}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pairwiseCorrelation(cols[i].Floats, cols[j].Floats)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pairwiseCorrelation(a, b []float64) float64 {
	var xs, ys []float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		xs = append(xs, a[i])
		ys = append(ys, b[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	// Guard against accumulation drift past the valid range.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
