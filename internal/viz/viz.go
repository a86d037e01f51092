// Package viz renders the analysis charts as PNG files with gonum/plot.
// Every renderer consumes already-computed results; nothing here recomputes
// statistics. Render failures are reported to the caller as errors and are
// expected to degrade to warnings, not abort the run.
package viz

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/wrenfolk/edascope/internal/dataset"
	"github.com/wrenfolk/edascope/internal/profile"
	"github.com/wrenfolk/edascope/internal/stats"
)

// Options controls figure appearance and sampling.
type Options struct {
	// Figure dimensions in inches.
	FigureWidth  float64
	FigureHeight float64
	Palette      string // bluered|grey
	Style        string // grid|plain
	// SampleSize caps the number of points drawn in scatter plots.
	SampleSize int
	// TopN caps the bars in categorical count plots.
	TopN int
}

// DefaultOptions matches the configuration defaults.
func DefaultOptions() Options {
	return Options{
		FigureWidth:  8,
		FigureHeight: 6,
		Palette:      "bluered",
		Style:        "grid",
		SampleSize:   1000,
		TopN:         10,
	}
}

// Renderer writes chart PNGs into a single directory.
type Renderer struct {
	dir string
	opt Options
}

// NewRenderer returns a renderer writing into dir.
func NewRenderer(dir string, opt Options) *Renderer {
	if opt.FigureWidth <= 0 {
		opt.FigureWidth = 8
	}
	if opt.FigureHeight <= 0 {
		opt.FigureHeight = 6
	}
	if opt.SampleSize <= 0 {
		opt.SampleSize = 1000
	}
	if opt.TopN <= 0 {
		opt.TopN = 10
	}
	return &Renderer{dir: dir, opt: opt}
}

func (r *Renderer) primary() color.Color {
	if r.opt.Palette == "grey" {
		return color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 255}
	}
	return color.RGBA{R: 0x46, G: 0x82, B: 0xb4, A: 255} // steel blue
}

func (r *Renderer) accent() color.Color {
	if r.opt.Palette == "grey" {
		return color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 255}
	}
	return color.RGBA{R: 0xdc, G: 0x14, B: 0x3c, A: 255} // crimson
}

func (r *Renderer) newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	if r.opt.Style == "grid" {
		p.Add(plotter.NewGrid())
	}
	return p
}

func (r *Renderer) save(p *plot.Plot, name string) (string, error) {
	w := vg.Length(r.opt.FigureWidth) * vg.Inch
	h := vg.Length(r.opt.FigureHeight) * vg.Inch
	if err := p.Save(w, h, filepath.Join(r.dir, name)); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return name, nil
}

func safeName(col string) string {
	s := strings.ReplaceAll(col, " ", "_")
	return strings.ReplaceAll(s, string(filepath.Separator), "-")
}

// Overview draws the distribution of column kinds.
func (r *Renderer) Overview(prof *profile.DatasetProfile) (string, error) {
	counts := plotter.Values{
		float64(prof.NumericCols),
		float64(prof.CategoricalCols),
		float64(prof.DateTimeCols),
		float64(prof.TextCols),
	}
	bars, err := plotter.NewBarChart(counts, vg.Points(30))
	if err != nil {
		return "", fmt.Errorf("overview bars: %w", err)
	}
	bars.Color = r.primary()
	p := r.newPlot("Column Kinds")
	p.Y.Label.Text = "columns"
	p.Add(bars)
	p.NominalX("numeric", "categorical", "datetime", "text")
	return r.save(p, "data_overview.png")
}

// MissingBars draws the missing-value percentage per column.
func (r *Renderer) MissingBars(prof *profile.DatasetProfile) (string, error) {
	if len(prof.Columns) == 0 {
		return "", nil
	}
	vals := make(plotter.Values, len(prof.Columns))
	names := make([]string, len(prof.Columns))
	for i, c := range prof.Columns {
		vals[i] = c.MissingPct
		names[i] = c.Name
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return "", fmt.Errorf("missing bars: %w", err)
	}
	bars.Color = r.accent()
	p := r.newPlot("Missing Data by Column")
	p.Y.Label.Text = "missing %"
	p.Add(bars)
	p.NominalX(names...)
	return r.save(p, "missing_data.png")
}

// Histogram draws the value distribution of a numeric column. Columns with
// no spread are skipped (empty path, nil error).
func (r *Renderer) Histogram(col *dataset.Column) (string, error) {
	vals := col.Values()
	if len(vals) == 0 {
		return "", nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return "", nil
	}
	bins := 20
	if len(vals) < bins {
		bins = len(vals)
	}
	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return "", fmt.Errorf("histogram %s: %w", col.Name, err)
	}
	h.FillColor = r.primary()
	p := r.newPlot("Distribution of " + col.Name)
	p.X.Label.Text = col.Name
	p.Y.Label.Text = "count"
	p.Add(h)
	return r.save(p, fmt.Sprintf("distribution_%s.png", safeName(col.Name)))
}

// BoxPlot draws a box plot of a numeric column.
func (r *Renderer) BoxPlot(col *dataset.Column) (string, error) {
	vals := col.Values()
	if len(vals) == 0 {
		return "", nil
	}
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
	if err != nil {
		return "", fmt.Errorf("box plot %s: %w", col.Name, err)
	}
	p := r.newPlot("Box Plot of " + col.Name)
	p.Y.Label.Text = col.Name
	p.Add(b)
	p.NominalX(col.Name)
	return r.save(p, fmt.Sprintf("boxplot_%s.png", safeName(col.Name)))
}

// CountPlot draws the top value counts of a categorical column. Columns with
// more than 20 distinct values are skipped.
func (r *Renderer) CountPlot(col *dataset.Column, ft stats.FrequencyTable) (string, error) {
	if ft.Unique == 0 || ft.Unique > 20 {
		return "", nil
	}
	n := len(ft.Values)
	if n > r.opt.TopN {
		n = r.opt.TopN
	}
	vals := make(plotter.Values, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		vals[i] = float64(ft.Values[i].Count)
		names[i] = ft.Values[i].Value
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(25))
	if err != nil {
		return "", fmt.Errorf("count plot %s: %w", col.Name, err)
	}
	bars.Color = r.primary()
	p := r.newPlot("Count Plot: " + col.Name)
	p.Y.Label.Text = "count"
	p.Add(bars)
	p.NominalX(names...)
	return r.save(p, fmt.Sprintf("countplot_%s.png", safeName(col.Name)))
}

// corrGrid adapts a correlation matrix to the heat map grid interface.
// Undefined entries are drawn as neutral zero.
type corrGrid struct{ m *stats.Matrix }

func (g corrGrid) Dims() (int, int) { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }
func (g corrGrid) Z(c, r int) float64 {
	v := g.m.Values[r][c]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CorrelationHeatmap draws the correlation matrix.
func (r *Renderer) CorrelationHeatmap(m *stats.Matrix) (string, error) {
	if m == nil || len(m.Columns) < 2 {
		return "", nil
	}
	var pal palette.Palette
	if r.opt.Palette == "grey" {
		pal = greyPalette(64)
	} else {
		cm := moreland.SmoothBlueRed()
		cm.SetMin(-1)
		cm.SetMax(1)
		pal = cm.Palette(64)
	}
	hm := plotter.NewHeatMap(corrGrid{m}, pal)
	hm.Min = -1
	hm.Max = 1

	p := r.newPlot("Correlation Heatmap")
	p.Add(hm)
	ticks := make([]plot.Tick, len(m.Columns))
	for i, name := range m.Columns {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	return r.save(p, "correlation_heatmap.png")
}

// greyPalette is a uniform grey ramp.
type greyPalette int

func (n greyPalette) Colors() []color.Color {
	out := make([]color.Color, int(n))
	for i := range out {
		v := uint8(40 + 180*i/int(n))
		out[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	return out
}

// pairPlotMaxCols caps the pair plot grid to keep the panels readable.
const pairPlotMaxCols = 5

// PairPlot draws the grid of pairwise scatters over the numeric columns with
// histograms on the diagonal. Skipped below two numeric columns; capped at
// the first five. Rows are down-sampled with a fixed stride.
func (r *Renderer) PairPlot(ds *dataset.Dataset) (string, error) {
	cols := ds.NumericColumns()
	if len(cols) < 2 {
		return "", nil
	}
	if len(cols) > pairPlotMaxCols {
		cols = cols[:pairPlotMaxCols]
	}
	n := len(cols)

	plots := make([][]*plot.Plot, n)
	for i := range plots {
		plots[i] = make([]*plot.Plot, n)
		for j := range plots[i] {
			p := plot.New()
			if r.opt.Style == "grid" {
				p.Add(plotter.NewGrid())
			}
			if i == n-1 {
				p.X.Label.Text = cols[j].Name
			}
			if j == 0 {
				p.Y.Label.Text = cols[i].Name
			}
			if i == j {
				r.addPanelHist(p, cols[i])
			} else if err := r.addPanelScatter(p, cols[j], cols[i]); err != nil {
				return "", fmt.Errorf("pair plot %s/%s: %w", cols[j].Name, cols[i].Name, err)
			}
			plots[i][j] = p
		}
	}

	w := vg.Length(r.opt.FigureWidth) * vg.Inch
	h := vg.Length(r.opt.FigureHeight) * vg.Inch
	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: n, Cols: n,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	name := "pairplot.png"
	f, err := os.Create(filepath.Join(r.dir, name))
	if err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return name, nil
}

func (r *Renderer) addPanelHist(p *plot.Plot, col *dataset.Column) {
	vals := col.Values()
	if len(vals) == 0 {
		return
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return
	}
	bins := 10
	if len(vals) < bins {
		bins = len(vals)
	}
	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return
	}
	h.FillColor = r.primary()
	p.Add(h)
}

func (r *Renderer) addPanelScatter(p *plot.Plot, x, y *dataset.Column) error {
	var pts plotter.XYs
	for i := 0; i < len(x.Floats) && i < len(y.Floats); i++ {
		if x.Missing[i] || y.Missing[i] {
			continue
		}
		xv, yv := x.Floats[i], y.Floats[i]
		if math.IsNaN(xv) || math.IsNaN(yv) {
			continue
		}
		pts = append(pts, plotter.XY{X: xv, Y: yv})
	}
	if len(pts) == 0 {
		return nil
	}
	if len(pts) > r.opt.SampleSize {
		stride := (len(pts) + r.opt.SampleSize - 1) / r.opt.SampleSize
		sampled := make(plotter.XYs, 0, r.opt.SampleSize)
		for i := 0; i < len(pts); i += stride {
			sampled = append(sampled, pts[i])
		}
		pts = sampled
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = r.primary()
	s.GlyphStyle.Radius = vg.Points(1.5)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	return nil
}

// OutlierScatter draws a column's values against their row index with
// flagged rows highlighted. Points are down-sampled with a fixed stride so
// rendering stays deterministic; flagged rows are always drawn.
func (r *Renderer) OutlierScatter(col *dataset.Column, flagged []int) (string, error) {
	vals, idx := col.ValuesIndexed()
	if len(vals) == 0 {
		return "", nil
	}
	isFlagged := make(map[int]bool, len(flagged))
	for _, i := range flagged {
		isFlagged[i] = true
	}

	stride := 1
	if len(vals) > r.opt.SampleSize {
		stride = (len(vals) + r.opt.SampleSize - 1) / r.opt.SampleSize
	}
	var normal, out plotter.XYs
	for i := range vals {
		pt := plotter.XY{X: float64(idx[i]), Y: vals[i]}
		if isFlagged[idx[i]] {
			out = append(out, pt)
			continue
		}
		if i%stride == 0 {
			normal = append(normal, pt)
		}
	}

	p := r.newPlot("Outliers in " + col.Name)
	p.X.Label.Text = "row"
	p.Y.Label.Text = col.Name

	if len(normal) > 0 {
		s, err := plotter.NewScatter(normal)
		if err != nil {
			return "", fmt.Errorf("outlier scatter %s: %w", col.Name, err)
		}
		s.GlyphStyle.Color = r.primary()
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
	}
	if len(out) > 0 {
		s, err := plotter.NewScatter(out)
		if err != nil {
			return "", fmt.Errorf("outlier scatter %s: %w", col.Name, err)
		}
		s.GlyphStyle.Color = r.accent()
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("outlier", s)
		p.Legend.Top = true
	}
	return r.save(p, fmt.Sprintf("outliers_%s.png", safeName(col.Name)))
}
