package table

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
)

// ChartTypeMap maps OOXML chart element tags to chart type names.
var ChartTypeMap = map[string]string{
	"lineChart":      "Line",
	"line3DChart":    "3DLine",
	"barChart":       "Bar",
	"bar3DChart":     "3DBar",
	"areaChart":      "Area",
	"area3DChart":    "3DArea",
	"pieChart":       "Pie",
	"pie3DChart":     "3DPie",
	"doughnutChart":  "Doughnut",
	"scatterChart":   "XYScatter",
	"bubbleChart":    "Bubble",
	"radarChart":     "Radar",
	"surfaceChart":   "Surface",
	"surface3DChart": "3DSurface",
	"stockChart":     "Stock",
	"ofPieChart":     "PieOfPie",
}

// seriesPalette colors successive glyphs of an imported chart.
var seriesPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ChartSeries is one data series of a workbook chart.
type ChartSeries struct {
	// Name is the cached series display name.
	Name string `json:"name"`
	// NameRange is the range reference for the series name.
	NameRange string `json:"name_range,omitempty"`
	// XRange is the range reference for x (category) values.
	XRange string `json:"x_range,omitempty"`
	// YRange is the range reference for y values.
	YRange string `json:"y_range,omitempty"`
}

// Chart is a chart embedded in a workbook sheet.
type Chart struct {
	// Sheet is the worksheet the chart is drawn on.
	Sheet string `json:"sheet"`
	// Name is the drawing object name (e.g., "Chart 1").
	Name string `json:"name"`
	// ChartType is the chart type (e.g., XYScatter, Line).
	ChartType string `json:"chart_type"`
	// Title is the chart title.
	Title string `json:"title,omitempty"`
	// XAxisTitle is the horizontal axis title.
	XAxisTitle string `json:"x_axis_title,omitempty"`
	// YAxisTitle is the vertical axis title.
	YAxisTitle string `json:"y_axis_title,omitempty"`
	// Width and Height are the frame size in pixels, 0 when not recorded.
	Width  int `json:"w,omitempty"`
	Height int `json:"h,omitempty"`
	// Series lists the plotted series in order.
	Series []ChartSeries `json:"series"`
}

// chartFrame is a chart reference found in a drawing part.
type chartFrame struct {
	name   string
	rID    string
	width  int
	height int
}

// LoadCharts returns the charts of an .xlsx workbook in sheet order, then
// drawing order.
func LoadCharts(xlsxPath string) ([]Chart, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var charts []Chart
	for _, sd := range getSheetDrawings(&r.Reader) {
		for _, c := range getChartsFromDrawing(&r.Reader, sd.path) {
			c.Sheet = sd.sheet
			charts = append(charts, c)
		}
	}
	return charts, nil
}

// getChartsFromDrawing parses every chart referenced by a drawing part.
func getChartsFromDrawing(r *zip.Reader, drawingPath string) []Chart {
	var result []Chart

	drawingXML, err := readZipFile(r, drawingPath)
	if err != nil || drawingXML == nil {
		return result
	}
	frames := parseDrawingForCharts(drawingXML)
	if len(frames) == 0 {
		return result
	}

	relsXML, err := readZipFile(r, relsPathFor(drawingPath))
	if err != nil || relsXML == nil {
		return result
	}
	chartPaths := parseRelationships(relsXML, "chart")

	for _, frame := range frames {
		target, ok := chartPaths[frame.rID]
		if !ok {
			continue
		}
		chartXML, err := readZipFile(r, resolveRelativePath(target, path.Dir(drawingPath)))
		if err != nil || chartXML == nil {
			continue
		}
		c := parseChartXML(chartXML)
		c.Name = frame.name
		c.Width, c.Height = frame.width, frame.height
		result = append(result, c)
	}
	return result
}

// parseDrawingForCharts finds the chart frames of a drawing in document order.
func parseDrawingForCharts(data []byte) []chartFrame {
	var result []chartFrame
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "graphicFrame" {
			if frame := parseGraphicFrame(decoder); frame.rID != "" {
				result = append(result, frame)
			}
		}
	}

	return result
}

// parseGraphicFrame parses graphicFrame content.
func parseGraphicFrame(decoder *xml.Decoder) chartFrame {
	var frame chartFrame
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				for _, attr := range t.Attr {
					if attr.Name.Local == "name" {
						frame.name = attr.Value
					}
				}
			case "xfrm":
				frame.width, frame.height = parseXfrm(decoder)
				depth--
			case "chart":
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" {
						frame.rID = attr.Value
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return frame
}

// parseChartXML parses a chart part.
func parseChartXML(data []byte) Chart {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var c Chart

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "chart" {
			parseChartElement(decoder, &c)
		}
	}

	if c.ChartType == "" {
		c.ChartType = "unknown"
	}
	return c
}

// parseChartElement parses the c:chart element.
func parseChartElement(decoder *xml.Decoder, c *Chart) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "title":
				c.Title = parseChartTitle(decoder)
				depth--
			case "plotArea":
				parsePlotArea(decoder, c)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parseChartTitle joins the text runs of a title element.
func parseChartTitle(decoder *xml.Decoder) string {
	var parts []string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				if txt, err := readElementText(decoder); err == nil {
					parts = append(parts, txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return strings.TrimSpace(strings.Join(parts, ""))
}

// parsePlotArea parses the first chart group's series and the axis titles.
func parsePlotArea(decoder *xml.Decoder, c *Chart) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if ct, ok := ChartTypeMap[t.Name.Local]; ok {
				series := parseChartSeries(decoder)
				if c.ChartType == "" {
					c.ChartType = ct
					c.Series = series
				}
				depth--
				continue
			}
			switch t.Name.Local {
			case "catAx", "dateAx":
				if title, _ := parseAxis(decoder); title != "" {
					c.XAxisTitle = title
				}
				depth--
			case "valAx":
				title, pos := parseAxis(decoder)
				if title != "" {
					if pos == "b" || pos == "t" {
						c.XAxisTitle = title
					} else {
						c.YAxisTitle = title
					}
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parseChartSeries parses series elements within a chart type.
func parseChartSeries(decoder *xml.Decoder) []ChartSeries {
	var series []ChartSeries
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "ser" {
				series = append(series, parseSingleSeries(decoder))
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return series
}

// parseSingleSeries parses a single series element. Scatter charts use
// xVal/yVal where other charts use cat/val.
func parseSingleSeries(decoder *xml.Decoder) ChartSeries {
	var s ChartSeries
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "tx":
				s.Name, s.NameRange = parseSeriesName(decoder)
				depth--
			case "cat", "xVal":
				s.XRange = parseSeriesRange(decoder)
				depth--
			case "val", "yVal":
				s.YRange = parseSeriesRange(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return s
}

// parseSeriesName parses series name from tx element.
func parseSeriesName(decoder *xml.Decoder) (name, nameRange string) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "f":
				if txt, err := readElementText(decoder); err == nil {
					nameRange = strings.TrimSpace(txt)
				}
				depth--
			case "v":
				if txt, err := readElementText(decoder); err == nil {
					name = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// parseSeriesRange parses the range reference of a data element.
func parseSeriesRange(decoder *xml.Decoder) string {
	var ref string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "f" {
				if txt, err := readElementText(decoder); err == nil && ref == "" {
					ref = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return ref
}

// parseAxis returns an axis title and its position (b, l, t or r).
func parseAxis(decoder *xml.Decoder) (title, pos string) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "title":
				title = parseChartTitle(decoder)
				depth--
			case "axPos":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						pos = attr.Value
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// RangeColumn returns the sheet and 1-based column of a single-column
// range reference such as 'My Sheet'!$B$2:$B$20.
func RangeColumn(ref string) (sheet string, col int, err error) {
	cells := ref
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		sheet = strings.Trim(ref[:i], "'")
		sheet = strings.ReplaceAll(sheet, "''", "'")
		cells = ref[i+1:]
	}
	cells = strings.ReplaceAll(cells, "$", "")
	first, last, isRange := strings.Cut(cells, ":")

	col, _, err = excelize.CellNameToCoordinates(first)
	if err != nil {
		return "", 0, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	if isRange {
		lastCol, _, err := excelize.CellNameToCoordinates(last)
		if err != nil {
			return "", 0, fmt.Errorf("invalid range %q: %w", ref, err)
		}
		if lastCol != col {
			return "", 0, fmt.Errorf("range %q spans more than one column", ref)
		}
	}
	return sheet, col, nil
}

// Figure builds a scatter figure with one glyph per chart series, plotting
// the source columns the series ranges point at. source must be loaded
// from the chart's sheet with its header in row 1, so that sheet column N
// is the source's Nth column. Zero chart sizes fall back to width and height.
func (c Chart) Figure(source *models.ColumnDataSource, width, height int) (*models.Figure, error) {
	if len(c.Series) == 0 {
		return nil, fmt.Errorf("chart %q has no series", c.Name)
	}
	if c.Width > 0 && c.Height > 0 {
		width, height = c.Width, c.Height
	}

	fig := models.NewFigure(c.Title, width, height)
	fig.XAxisLabel = c.XAxisTitle
	fig.YAxisLabel = c.YAxisTitle

	for i, s := range c.Series {
		if s.XRange == "" || s.YRange == "" {
			return nil, fmt.Errorf("chart %q series %d has no x or y range", c.Name, i)
		}
		x, err := c.sourceColumn(source, s.XRange)
		if err != nil {
			return nil, err
		}
		y, err := c.sourceColumn(source, s.YRange)
		if err != nil {
			return nil, err
		}
		fig.Scatter(x, y, source, seriesPalette[i%len(seriesPalette)], 0)
	}
	return fig, nil
}

func (c Chart) sourceColumn(source *models.ColumnDataSource, ref string) (string, error) {
	sheet, col, err := RangeColumn(ref)
	if err != nil {
		return "", err
	}
	if sheet != "" && c.Sheet != "" && sheet != c.Sheet {
		return "", fmt.Errorf("range %q is not on sheet %q", ref, c.Sheet)
	}
	columns := source.Columns()
	if col > len(columns) {
		return "", fmt.Errorf("range %q is outside the table's %d columns", ref, len(columns))
	}
	return columns[col-1], nil
}
