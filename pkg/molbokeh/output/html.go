package output

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/tooltip"
)

// ErrNotNumeric indicates a glyph coordinate cell that cannot be plotted.
var ErrNotNumeric = errors.New("value is not numeric")

// rangePadding widens each axis so edge points are not clipped.
const rangePadding = 0.05

// Hotspot is an interactive area over one plotted point.
type Hotspot struct {
	// X and Y are the point center in pixels from the top left of the plot.
	X, Y int
	// Size is the hotspot diameter in pixels.
	Size int
	// Tooltip is the expanded tooltip markup. Empty when the figure has no
	// hover tool.
	Tooltip template.HTML
}

// pointSeries draws a glyph as unconnected dots and records the pixel
// position of every point while rendering.
type pointSeries struct {
	chart.ContinuousSeries
	rows   []int
	points [][2]int
}

// Render draws the dots and keeps their canvas positions.
func (s *pointSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	s.ContinuousSeries.Render(r, canvasBox, xrange, yrange, defaults)
	s.points = make([][2]int, len(s.XValues))
	for i := range s.XValues {
		s.points[i] = [2]int{
			canvasBox.Left + xrange.Translate(s.XValues[i]),
			canvasBox.Bottom - yrange.Translate(s.YValues[i]),
		}
	}
}

// glyphSeries builds the plotted series for one glyph renderer.
func glyphSeries(g models.GlyphRenderer) (*pointSeries, error) {
	if g.Source == nil {
		return nil, fmt.Errorf("glyph %s has no data source", g.ID)
	}
	xs, ok := g.Source.Column(g.X)
	if !ok {
		return nil, fmt.Errorf("glyph %s: x column %q not found", g.ID, g.X)
	}
	ys, ok := g.Source.Column(g.Y)
	if !ok {
		return nil, fmt.Errorf("glyph %s: y column %q not found", g.ID, g.Y)
	}

	s := &pointSeries{}
	s.Name = g.ID
	s.Style = chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    g.Size / 2,
		DotColor:    drawing.ColorFromHex(strings.TrimPrefix(g.Color, "#")),
	}
	for i := range xs {
		x, err := toFloat(xs[i])
		if err != nil {
			return nil, fmt.Errorf("glyph %s row %d column %q: %w", g.ID, i, g.X, err)
		}
		y, err := toFloat(ys[i])
		if err != nil {
			return nil, fmt.Errorf("glyph %s row %d column %q: %w", g.ID, i, g.Y, err)
		}
		s.XValues = append(s.XValues, x)
		s.YValues = append(s.YValues, y)
		s.rows = append(s.rows, i)
	}
	return s, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}

// paddedRange returns an axis range covering values with some margin.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo == 0 {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * rangePadding
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// RenderPlot draws the figure's glyphs as SVG and returns the markup with
// one hotspot per plotted point. Hotspots carry the hover tool's tooltip
// expanded against the point's row.
func RenderPlot(fig *models.Figure) (template.HTML, []Hotspot, error) {
	var (
		series  []chart.Series
		points  []*pointSeries
		sources []*models.ColumnDataSource
		allX    []float64
		allY    []float64
	)
	for _, g := range fig.Renderers {
		s, err := glyphSeries(g)
		if err != nil {
			return "", nil, err
		}
		if len(s.XValues) == 0 {
			continue
		}
		series = append(series, s)
		points = append(points, s)
		sources = append(sources, g.Source)
		allX = append(allX, s.XValues...)
		allY = append(allY, s.YValues...)
	}
	if len(series) == 0 {
		return "", nil, nil
	}

	ch := chart.Chart{
		// text is written into the SVG verbatim
		Title:      html.EscapeString(fig.Title),
		Width:      fig.Width,
		Height:     fig.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: html.EscapeString(fig.XAxisLabel), Range: paddedRange(allX)},
		YAxis:      chart.YAxis{Name: html.EscapeString(fig.YAxisLabel), Range: paddedRange(allY)},
		Series:     series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return "", nil, fmt.Errorf("render plot: %w", err)
	}

	svg := strings.Replace(buf.String(), "<svg ", fmt.Sprintf(`<svg width="%d" height="%d" `, fig.Width, fig.Height), 1)

	var tip string
	if hovers := fig.HoverTools(); len(hovers) > 0 {
		tip = hovers[len(hovers)-1].Tooltips
	}

	var hotspots []Hotspot
	for k, s := range points {
		size := int(math.Max(s.Style.DotWidth*2, 10))
		for i, p := range s.points {
			h := Hotspot{X: p[0], Y: p[1], Size: size}
			if tip != "" {
				h.Tooltip = template.HTML(tooltip.Expand(tip, sources[k].Row(s.rows[i]), s.rows[i]))
			}
			hotspots = append(hotspots, h)
		}
	}
	return template.HTML(svg), hotspots, nil
}

type page struct {
	Title    string
	Width    int
	Height   int
	Plot     template.HTML
	Hotspots []Hotspot
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; }
  .plot { position: relative; width: {{.Width}}px; height: {{.Height}}px; }
  .hotspot { position: absolute; border-radius: 50%; }
  .hotspot .tooltip { display: none; position: absolute; left: 100%; top: 100%; z-index: 10;
    background: #fff; border: 1px solid #ccc; padding: 4px; box-shadow: 2px 2px 4px rgba(0,0,0,.2); }
  .hotspot:hover .tooltip { display: block; }
</style>
</head>
<body>
<div class="plot">
{{.Plot}}
{{- range .Hotspots}}
<div class="hotspot" style="left: {{.Left}}px; top: {{.Top}}px; width: {{.Size}}px; height: {{.Size}}px;">
{{- if .Tooltip}}<div class="tooltip">{{.Tooltip}}</div>{{end -}}
</div>
{{- end}}
{{- if not .Plot}}<p class="empty">No data to plot.</p>{{end}}
</div>
</body>
</html>
`))

// Left is the hotspot's left edge in pixels.
func (h Hotspot) Left() int { return h.X - h.Size/2 }

// Top is the hotspot's top edge in pixels.
func (h Hotspot) Top() int { return h.Y - h.Size/2 }

// ToHTML writes the figure as a standalone HTML page.
func ToHTML(w io.Writer, fig *models.Figure) error {
	plot, hotspots, err := RenderPlot(fig)
	if err != nil {
		return err
	}
	return pageTemplate.Execute(w, page{
		Title:    fig.Title,
		Width:    fig.Width,
		Height:   fig.Height,
		Plot:     plot,
		Hotspots: hotspots,
	})
}
