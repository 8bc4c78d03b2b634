package depict

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/chem"
)

// atomColors follows the usual CPK-style depiction palette.
var atomColors = map[string]drawing.Color{
	"N":  drawing.ColorFromHex("0000FF"),
	"O":  drawing.ColorFromHex("FF0000"),
	"F":  drawing.ColorFromHex("33CCCC"),
	"Cl": drawing.ColorFromHex("00CC00"),
	"Br": drawing.ColorFromHex("992600"),
	"I":  drawing.ColorFromHex("660099"),
	"P":  drawing.ColorFromHex("FF8000"),
	"S":  drawing.ColorFromHex("CCCC00"),
	"B":  drawing.ColorFromHex("FF8080"),
	"Se": drawing.ColorFromHex("FFA100"),
}

// AtomColor returns the drawing color for an element.
func AtomColor(element string) drawing.Color {
	if c, ok := atomColors[element]; ok {
		return c
	}
	return drawing.ColorBlack
}

type drawer struct {
	r      chart.Renderer
	font   *truetype.Font
	mol    *chem.Molecule
	rings  [][]int
	labels []string

	scale      float64
	cx, cy     float64
	width      int
	height     int
	bondPx     float64
	fontPx     float64
	lineWidth  float64
	labelSpace float64
}

// DrawSVG renders the molecule as SVG markup of the given pixel size.
// Molecules without coordinates are laid out on a copy first.
func DrawSVG(m *chem.Molecule, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid drawing size %dx%d", width, height)
	}
	if !m.HasCoords {
		m = m.Clone()
		Compute2DCoords(m)
	}

	r, err := chart.SVG(width, height)
	if err != nil {
		return "", err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return "", err
	}

	d := &drawer{
		r:      r,
		font:   font,
		mol:    m,
		rings:  chem.Rings(m),
		width:  width,
		height: height,
	}
	d.labels = make([]string, len(m.Atoms))
	for i := range m.Atoms {
		d.labels[i] = AtomLabel(m, i)
	}
	d.fit()
	d.background()
	for bi := range m.Bonds {
		d.bond(bi)
	}
	for i := range m.Atoms {
		d.atom(i)
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return "", err
	}
	// the renderer emits only a viewBox
	sized := fmt.Sprintf(`<svg width="%d" height="%d" `, width, height)
	return strings.Replace(buf.String(), "<svg ", sized, 1), nil
}

// AtomLabel returns the text drawn at atom i. Carbons with bonds and no
// charge or isotope are drawn as bare line vertices and get no label.
func AtomLabel(m *chem.Molecule, i int) string {
	a := m.Atoms[i]
	if a.Element == "C" && a.Charge == 0 && a.Isotope == 0 && m.Degree(i) > 0 {
		return ""
	}
	label := ""
	if a.Isotope > 0 {
		label += strconv.Itoa(a.Isotope)
	}
	label += a.Element
	switch h := m.ImplicitHs(i); {
	case h == 1:
		label += "H"
	case h > 1:
		label += "H" + strconv.Itoa(h)
	}
	switch {
	case a.Charge == 1:
		label += "+"
	case a.Charge == -1:
		label += "-"
	case a.Charge > 1:
		label += strconv.Itoa(a.Charge) + "+"
	case a.Charge < -1:
		label += strconv.Itoa(-a.Charge) + "-"
	}
	return label
}

// fit computes the scale and center that place the molecule in the canvas.
func (d *drawer) fit() {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, a := range d.mol.Atoms {
		minX, maxX = math.Min(minX, a.X), math.Max(maxX, a.X)
		minY, maxY = math.Min(minY, a.Y), math.Max(maxY, a.Y)
	}
	if len(d.mol.Atoms) == 0 {
		minX, maxX, minY, maxY = 0, 0, 0, 0
	}
	d.cx, d.cy = (minX+maxX)/2, (minY+maxY)/2

	side := math.Min(float64(d.width), float64(d.height))
	maxBondPx := side / 4
	pad := 0.05*side + 0.3*maxBondPx
	availW := math.Max(float64(d.width)-2*pad, 1)
	availH := math.Max(float64(d.height)-2*pad, 1)

	scale := maxBondPx / BondLength
	if w := maxX - minX; w > 0 {
		scale = math.Min(scale, availW/w)
	}
	if h := maxY - minY; h > 0 {
		scale = math.Min(scale, availH/h)
	}
	d.scale = scale
	d.bondPx = scale * BondLength
	d.fontPx = clamp(0.45*d.bondPx, 6, 28)
	d.lineWidth = clamp(d.bondPx/20, 1, 3)
	d.labelSpace = 0.6 * d.fontPx
}

func (d *drawer) point(i int) (float64, float64) {
	a := d.mol.Atoms[i]
	x := float64(d.width)/2 + (a.X-d.cx)*d.scale
	y := float64(d.height)/2 - (a.Y-d.cy)*d.scale
	return x, y
}

func (d *drawer) background() {
	d.r.ResetStyle()
	d.r.SetFillColor(drawing.ColorWhite)
	d.r.MoveTo(0, 0)
	d.r.LineTo(d.width, 0)
	d.r.LineTo(d.width, d.height)
	d.r.LineTo(0, d.height)
	d.r.Close()
	d.r.Fill()
}

func (d *drawer) bond(bi int) {
	b := d.mol.Bonds[bi]
	x1, y1 := d.point(b.Begin)
	x2, y2 := d.point(b.End)
	if d.labels[b.Begin] != "" {
		x1, y1 = toward(x1, y1, x2, y2, d.labelSpace)
	}
	if d.labels[b.End] != "" {
		x2, y2 = toward(x2, y2, x1, y1, d.labelSpace)
	}
	c1 := AtomColor(d.mol.Atoms[b.Begin].Element)
	c2 := AtomColor(d.mol.Atoms[b.End].Element)
	gap := 0.18 * d.bondPx

	switch {
	case b.Aromatic:
		d.segment(x1, y1, x2, y2, c1, c2, false)
		d.secondLine(b, x1, y1, x2, y2, gap, c1, c2, true)
	case b.Order == 2:
		if chem.InRing(d.rings, b.Begin, b.End) {
			d.segment(x1, y1, x2, y2, c1, c2, false)
			d.secondLine(b, x1, y1, x2, y2, gap, c1, c2, false)
			return
		}
		nx, ny := normal(x1, y1, x2, y2)
		h := gap / 2
		d.segment(x1+nx*h, y1+ny*h, x2+nx*h, y2+ny*h, c1, c2, false)
		d.segment(x1-nx*h, y1-ny*h, x2-nx*h, y2-ny*h, c1, c2, false)
	case b.Order >= 3:
		nx, ny := normal(x1, y1, x2, y2)
		d.segment(x1, y1, x2, y2, c1, c2, false)
		d.segment(x1+nx*gap, y1+ny*gap, x2+nx*gap, y2+ny*gap, c1, c2, false)
		d.segment(x1-nx*gap, y1-ny*gap, x2-nx*gap, y2-ny*gap, c1, c2, false)
	default:
		d.segment(x1, y1, x2, y2, c1, c2, false)
	}
}

// secondLine draws the inner line of a ring double or aromatic bond,
// offset toward the ring center and trimmed at both ends.
func (d *drawer) secondLine(b chem.Bond, x1, y1, x2, y2, gap float64, c1, c2 drawing.Color, dashed bool) {
	nx, ny := normal(x1, y1, x2, y2)
	if ring := chem.SmallestRingWithBond(d.rings, b.Begin, b.End); ring != nil {
		var rx, ry float64
		for _, atom := range ring {
			px, py := d.point(atom)
			rx += px
			ry += py
		}
		rx /= float64(len(ring))
		ry /= float64(len(ring))
		mx, my := (x1+x2)/2, (y1+y2)/2
		if (rx-mx)*nx+(ry-my)*ny < 0 {
			nx, ny = -nx, -ny
		}
	}
	dx, dy := x2-x1, y2-y1
	const trim = 0.15
	ax, ay := x1+dx*trim+nx*gap, y1+dy*trim+ny*gap
	bx, by := x2-dx*trim+nx*gap, y2-dy*trim+ny*gap
	d.segment(ax, ay, bx, by, c1, c2, dashed)
}

// segment draws a line, splitting it at the midpoint when the two ends
// have different colors.
func (d *drawer) segment(x1, y1, x2, y2 float64, c1, c2 drawing.Color, dashed bool) {
	if c1.Equals(c2) {
		d.line(x1, y1, x2, y2, c1, dashed)
		return
	}
	mx, my := (x1+x2)/2, (y1+y2)/2
	d.line(x1, y1, mx, my, c1, dashed)
	d.line(mx, my, x2, y2, c2, dashed)
}

func (d *drawer) line(x1, y1, x2, y2 float64, c drawing.Color, dashed bool) {
	d.r.ResetStyle()
	d.r.SetStrokeColor(c)
	d.r.SetStrokeWidth(d.lineWidth)
	if dashed {
		d.r.SetStrokeDashArray([]float64{2*d.lineWidth + 1, 1.5*d.lineWidth + 1})
	}
	d.r.MoveTo(round(x1), round(y1))
	d.r.LineTo(round(x2), round(y2))
	d.r.Stroke()
}

func (d *drawer) atom(i int) {
	label := d.labels[i]
	if label == "" {
		return
	}
	x, y := d.point(i)
	d.r.ResetStyle()
	d.r.SetFont(d.font)
	// font sizes are in points; the SVG renderer converts at its DPI
	d.r.SetFontSize(d.fontPx * 72 / d.r.GetDPI())
	d.r.SetFontColor(AtomColor(d.mol.Atoms[i].Element))
	box := d.r.MeasureText(label)
	d.r.Text(label, round(x)-box.Width()/2, round(y+0.35*d.fontPx))
}

func toward(x1, y1, x2, y2, dist float64) (float64, float64) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l == 0 || dist >= l/2 {
		return x1 + dx/2*0.6, y1 + dy/2*0.6
	}
	return x1 + dx/l*dist, y1 + dy/l*dist
}

func normal(x1, y1, x2, y2 float64) (float64, float64) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return -dy / l, dx / l
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64) int {
	return int(math.Round(v))
}
