package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"github.com/wrenfolk/edascope/internal/outliers"
	"github.com/wrenfolk/edascope/internal/utils"
)

func fmtFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", v)
}

func fmtPct(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v)
}

var tmplFuncs = template.FuncMap{
	"fmt": fmtFloat,
	"pct": fmtPct,
}

type corrRow struct {
	Name  string
	Cells []string
}

// reportView flattens Result for template consumption: typed method keys and
// the correlation matrix do not index cleanly from templates.
type reportView struct {
	*Result
	IQR      map[string]outliers.ColumnFlags
	ZScore   map[string]outliers.ColumnFlags
	Pairs    []StrongPair
	CorrRows []corrRow
}

func newReportView(r *Result) *reportView {
	v := &reportView{Result: r, Pairs: r.StrongPairs()}
	if r.Outliers != nil {
		v.IQR = r.Outliers.ByMethod[outliers.MethodIQR]
		v.ZScore = r.Outliers.ByMethod[outliers.MethodZScore]
	}
	if r.Corr != nil {
		for i, name := range r.Corr.Columns {
			row := corrRow{Name: name, Cells: make([]string, len(r.Corr.Columns))}
			for j := range r.Corr.Columns {
				row.Cells[j] = fmtFloat(r.Corr.At(i, j))
			}
			v.CorrRows = append(v.CorrRows, row)
		}
	}
	return v
}

const pageStyle = `
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2em auto; max-width: 70em; color: #222; }
h1 { border-bottom: 2px solid #4682b4; padding-bottom: 0.2em; }
h2 { color: #4682b4; margin-top: 1.6em; }
table { border-collapse: collapse; margin: 0.8em 0; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.7em; text-align: left; }
th { background: #f0f4f8; }
.meta { color: #777; font-size: 0.85em; }
.finding { background: #f7fbff; border-left: 4px solid #4682b4; padding: 0.5em 0.8em; margin: 0.4em 0; }
.warning { background: #fff8f0; border-left: 4px solid #d2691e; padding: 0.5em 0.8em; margin: 0.4em 0; }
img { max-width: 100%; margin: 0.6em 0; border: 1px solid #ddd; }
`

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>EDA Report: {{.Source}}</title>
<style>` + pageStyle + `</style>
</head>
<body>
<h1>Exploratory Data Analysis Report</h1>
<p class="meta">Source: {{.Source}}<br>
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}<br>
Run ID: {{.RunID}}</p>

<h2>Key Findings</h2>
{{range .Findings}}<div class="finding">{{.}}</div>
{{end}}

<h2>Overview</h2>
<table>
<tr><th>Rows</th><td>{{.Profile.Rows}}</td></tr>
<tr><th>Columns</th><td>{{.Profile.Cols}}</td></tr>
<tr><th>Numeric columns</th><td>{{.Profile.NumericCols}}</td></tr>
<tr><th>Categorical columns</th><td>{{.Profile.CategoricalCols}}</td></tr>
<tr><th>Date/time columns</th><td>{{.Profile.DateTimeCols}}</td></tr>
<tr><th>Text columns</th><td>{{.Profile.TextCols}}</td></tr>
<tr><th>Missing cells</th><td>{{.Profile.TotalMissing}} ({{pct .Profile.MissingPct}})</td></tr>
<tr><th>Duplicate rows</th><td>{{.Profile.DuplicateRows}}</td></tr>
</table>

<h2>Columns</h2>
<table>
<tr><th>Column</th><th>Kind</th><th>Non-null</th><th>Missing</th><th>Missing %</th><th>Unique</th></tr>
{{range .Profile.Columns}}<tr><td>{{.Name}}</td><td>{{.Kind}}</td><td>{{.NonNull}}</td><td>{{.Missing}}</td><td>{{pct .MissingPct}}</td><td>{{.Unique}}</td></tr>
{{end}}</table>

{{if .Numeric}}<h2>Numeric Statistics</h2>
<table>
<tr><th>Column</th><th>Count</th><th>Mean</th><th>Median</th><th>Std</th><th>Min</th><th>Q1</th><th>Q3</th><th>Max</th><th>Skewness</th><th>Kurtosis</th></tr>
{{range $name, $d := .Numeric}}<tr><td>{{$name}}</td><td>{{$d.Count}}</td><td>{{fmt $d.Mean}}</td><td>{{fmt $d.Median}}</td><td>{{fmt $d.Std}}</td><td>{{fmt $d.Min}}</td><td>{{fmt $d.Q1}}</td><td>{{fmt $d.Q3}}</td><td>{{fmt $d.Max}}</td><td>{{fmt $d.Skewness}}</td><td>{{fmt $d.Kurtosis}}</td></tr>
{{end}}</table>{{end}}

{{if .Categorical}}<h2>Categorical Statistics</h2>
<table>
<tr><th>Column</th><th>Unique</th><th>Most frequent</th><th>Count</th><th>Least frequent</th><th>Count</th></tr>
{{range $name, $ft := .Categorical}}<tr><td>{{$name}}</td><td>{{$ft.Unique}}</td><td>{{$ft.MostFrequent}}</td><td>{{$ft.MostFrequentCount}}</td><td>{{$ft.LeastFrequent}}</td><td>{{$ft.LeastFrequentCount}}</td></tr>
{{end}}</table>{{end}}

{{if .IQR}}<h2>Outliers (IQR)</h2>
<table>
<tr><th>Column</th><th>Flagged</th><th>Share</th><th>Lower fence</th><th>Upper fence</th></tr>
{{range $name, $cf := .IQR}}<tr><td>{{$name}}</td><td>{{$cf.Count}}</td><td>{{pct $cf.Percentage}}</td><td>{{fmt $cf.Lower}}</td><td>{{fmt $cf.Upper}}</td></tr>
{{end}}</table>{{end}}

{{if .ZScore}}<h2>Outliers (Z-Score)</h2>
<table>
<tr><th>Column</th><th>Flagged</th><th>Share</th><th>Mean</th><th>Std</th><th>Threshold</th></tr>
{{range $name, $cf := .ZScore}}<tr><td>{{$name}}</td><td>{{$cf.Count}}</td><td>{{pct $cf.Percentage}}</td><td>{{fmt $cf.Mean}}</td><td>{{fmt $cf.Std}}</td><td>{{fmt $cf.Threshold}}</td></tr>
{{end}}</table>{{end}}

{{if .CorrRows}}<h2>Correlations</h2>
<table>
<tr><th></th>{{range .Corr.Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .CorrRows}}<tr><th>{{.Name}}</th>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{if .Pairs}}<h3>Strong pairs (|r| &ge; {{fmt .CorrThreshold}})</h3>
<table>
<tr><th>Column A</th><th>Column B</th><th>r</th></tr>
{{range .Pairs}}<tr><td>{{.A}}</td><td>{{.B}}</td><td>{{fmt .R}}</td></tr>
{{end}}</table>{{end}}{{end}}

{{if .PlotFiles}}<h2>Visualizations</h2>
{{range .PlotFiles}}<img src="{{.}}" alt="{{.}}">
{{end}}{{end}}

{{if .Warnings}}<h2>Warnings</h2>
{{range .Warnings}}<div class="warning">{{.}}</div>
{{end}}{{end}}
</body>
</html>
`

const columnProfileTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Column Profile: {{.Source}}</title>
<style>` + pageStyle + `</style>
</head>
<body>
<h1>Column Profile</h1>
<p class="meta">Source: {{.Source}}<br>
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}<br>
Run ID: {{.RunID}}</p>

{{range .Profile.Columns}}
<h2>{{.Name}}</h2>
<table>
<tr><th>Kind</th><td>{{.Kind}}</td></tr>
<tr><th>Non-null</th><td>{{.NonNull}}</td></tr>
<tr><th>Missing</th><td>{{.Missing}} ({{pct .MissingPct}})</td></tr>
<tr><th>Unique values</th><td>{{.Unique}}</td></tr>
</table>
{{$d := index $.Numeric .Name}}{{if $d.Count}}<table>
<tr><th>Mean</th><td>{{fmt $d.Mean}}</td><th>Median</th><td>{{fmt $d.Median}}</td></tr>
<tr><th>Std</th><td>{{fmt $d.Std}}</td><th>Variance</th><td>{{fmt $d.Variance}}</td></tr>
<tr><th>Min</th><td>{{fmt $d.Min}}</td><th>Max</th><td>{{fmt $d.Max}}</td></tr>
<tr><th>Q1</th><td>{{fmt $d.Q1}}</td><th>Q3</th><td>{{fmt $d.Q3}}</td></tr>
</table>{{end}}
{{$ft := index $.Categorical .Name}}{{if $ft.Unique}}<table>
<tr><th>Value</th><th>Count</th><th>Proportion</th></tr>
{{range $ft.Values}}<tr><td>{{.Value}}</td><td>{{.Count}}</td><td>{{fmt .Proportion}}</td></tr>
{{end}}</table>{{end}}
{{end}}
</body>
</html>
`

var (
	reportTmpl  = template.Must(template.New("report").Funcs(tmplFuncs).Parse(reportTemplate))
	profileTmpl = template.Must(template.New("profile").Funcs(tmplFuncs).Parse(columnProfileTemplate))
)

// WriteHTML writes the main report page.
func WriteHTML(r *Result, path string) error {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, newReportView(r)); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// WriteColumnProfile writes the per-column detail page.
func WriteColumnProfile(r *Result, path string) error {
	var buf bytes.Buffer
	if err := profileTmpl.Execute(&buf, newReportView(r)); err != nil {
		return fmt.Errorf("render column profile: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
