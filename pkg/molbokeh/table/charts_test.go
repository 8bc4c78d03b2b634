package table

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const scatterChartXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <c:chart>
    <c:title><c:tx><c:rich><a:p><a:r><a:t>Solubility </a:t></a:r><a:r><a:t>screen</a:t></a:r></a:p></c:rich></c:tx></c:title>
    <c:plotArea>
      <c:scatterChart>
        <c:ser>
          <c:tx><c:strRef><c:f>Data!$D$1</c:f><c:strCache><c:pt idx="0"><c:v>LogS</c:v></c:pt></c:strCache></c:strRef></c:tx>
          <c:xVal><c:numRef><c:f>Data!$C$2:$C$40</c:f></c:numRef></c:xVal>
          <c:yVal><c:numRef><c:f>Data!$D$2:$D$40</c:f></c:numRef></c:yVal>
        </c:ser>
      </c:scatterChart>
      <c:valAx><c:axPos val="b"/><c:title><c:tx><c:rich><a:p><a:r><a:t>MW</a:t></a:r></a:p></c:rich></c:tx></c:title></c:valAx>
      <c:valAx><c:axPos val="l"/><c:title><c:tx><c:rich><a:p><a:r><a:t>LogS</a:t></a:r></a:p></c:rich></c:tx></c:title></c:valAx>
    </c:plotArea>
  </c:chart>
</c:chartSpace>`

func TestParseChartXML(t *testing.T) {
	c := parseChartXML([]byte(scatterChartXML))

	if c.ChartType != "XYScatter" {
		t.Errorf("Expected XYScatter, got %s", c.ChartType)
	}
	if c.Title != "Solubility screen" {
		t.Errorf("Expected 'Solubility screen', got %q", c.Title)
	}
	if c.XAxisTitle != "MW" || c.YAxisTitle != "LogS" {
		t.Errorf("Unexpected axis titles %q, %q", c.XAxisTitle, c.YAxisTitle)
	}
	if len(c.Series) != 1 {
		t.Fatalf("Expected 1 series, got %d", len(c.Series))
	}
	s := c.Series[0]
	if s.Name != "LogS" || s.NameRange != "Data!$D$1" {
		t.Errorf("Unexpected series name %q (%q)", s.Name, s.NameRange)
	}
	if s.XRange != "Data!$C$2:$C$40" || s.YRange != "Data!$D$2:$D$40" {
		t.Errorf("Unexpected ranges %q, %q", s.XRange, s.YRange)
	}
}

func TestParseChartXMLUnknown(t *testing.T) {
	c := parseChartXML([]byte(`<chartSpace><chart><plotArea/></chart></chartSpace>`))
	if c.ChartType != "unknown" {
		t.Errorf("Expected unknown, got %s", c.ChartType)
	}
}

func TestRangeColumn(t *testing.T) {
	tests := []struct {
		ref     string
		sheet   string
		col     int
		wantErr bool
	}{
		{"Sheet1!$B$2:$B$10", "Sheet1", 2, false},
		{"'My Sheet'!$AA$2:$AA$3", "My Sheet", 27, false},
		{"C5", "", 3, false},
		{"Sheet1!$B$2:$C$10", "", 0, true},
		{"Sheet1!#REF!", "", 0, true},
	}

	for _, tt := range tests {
		sheet, col, err := RangeColumn(tt.ref)
		if tt.wantErr {
			if err == nil {
				t.Errorf("RangeColumn(%q): expected error", tt.ref)
			}
			continue
		}
		if err != nil {
			t.Errorf("RangeColumn(%q): %v", tt.ref, err)
			continue
		}
		if sheet != tt.sheet || col != tt.col {
			t.Errorf("RangeColumn(%q) = %q, %d; expected %q, %d", tt.ref, sheet, col, tt.sheet, tt.col)
		}
	}
}

func TestResolveRelativePath(t *testing.T) {
	tests := []struct {
		target, base, expected string
	}{
		{"../charts/chart1.xml", "xl/drawings", "xl/charts/chart1.xml"},
		{"worksheets/sheet1.xml", "xl", "xl/worksheets/sheet1.xml"},
		{"/xl/worksheets/sheet2.xml", "xl", "xl/worksheets/sheet2.xml"},
	}
	for _, tt := range tests {
		if got := resolveRelativePath(tt.target, tt.base); got != tt.expected {
			t.Errorf("resolveRelativePath(%q, %q) = %q, expected %q", tt.target, tt.base, got, tt.expected)
		}
	}
}

func TestRelsPathFor(t *testing.T) {
	if got := relsPathFor("xl/worksheets/sheet1.xml"); got != "xl/worksheets/_rels/sheet1.xml.rels" {
		t.Errorf("Unexpected rels path %q", got)
	}
}

func TestEMUToPixels(t *testing.T) {
	if got := EMUToPixels(914400); got != 96 {
		t.Errorf("Expected 96, got %d", got)
	}
}

func TestLoadChartsAndFigure(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"Name", "SMILES", "MW", "LogP"},
		{"ethanol", "CCO", 46.07, -0.31},
		{"benzene", "c1ccccc1", 78.11, 2.13},
		{"phenol", "c1ccccc1O", 94.11, 1.46},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	if err := f.AddChart("Sheet1", "F2", &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{{
			Name:       "Sheet1!$D$1",
			Categories: "Sheet1!$C$2:$C$4",
			Values:     "Sheet1!$D$2:$D$4",
		}},
		Title: []excelize.RichTextRun{{Text: "LogP vs MW"}},
	}); err != nil {
		t.Fatalf("AddChart failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "chart.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	charts, err := LoadCharts(path)
	if err != nil {
		t.Fatalf("LoadCharts failed: %v", err)
	}
	if len(charts) != 1 {
		t.Fatalf("Expected 1 chart, got %d", len(charts))
	}
	c := charts[0]
	if c.Sheet != "Sheet1" || c.ChartType != "XYScatter" || c.Title != "LogP vs MW" {
		t.Errorf("Unexpected chart %+v", c)
	}
	if len(c.Series) != 1 || c.Series[0].XRange != "Sheet1!$C$2:$C$4" || c.Series[0].YRange != "Sheet1!$D$2:$D$4" {
		t.Fatalf("Unexpected series %+v", c.Series)
	}

	source, err := LoadXLSX(path, Options{Sheet: c.Sheet})
	if err != nil {
		t.Fatalf("LoadXLSX failed: %v", err)
	}
	fig, err := c.Figure(source, 500, 400)
	if err != nil {
		t.Fatalf("Figure failed: %v", err)
	}
	if fig.Title != "LogP vs MW" {
		t.Errorf("Expected title 'LogP vs MW', got %q", fig.Title)
	}
	if len(fig.Renderers) != 1 {
		t.Fatalf("Expected 1 glyph, got %d", len(fig.Renderers))
	}
	g := fig.Renderers[0]
	if g.X != "MW" || g.Y != "LogP" || g.Source != source {
		t.Errorf("Unexpected glyph %+v", g)
	}
}

func TestChartFigureErrors(t *testing.T) {
	source, err := ReadCSV(strings.NewReader("a,b\n1,2\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := (Chart{Name: "empty"}).Figure(source, 100, 100); err == nil {
		t.Error("Expected error for chart without series")
	}
	outside := Chart{Sheet: "Sheet1", Series: []ChartSeries{{XRange: "Sheet1!$A$2:$A$3", YRange: "Sheet1!$E$2:$E$3"}}}
	if _, err := outside.Figure(source, 100, 100); err == nil {
		t.Error("Expected error for range outside the table")
	}
	other := Chart{Sheet: "Sheet1", Series: []ChartSeries{{XRange: "Other!$A$2:$A$3", YRange: "Sheet1!$B$2:$B$3"}}}
	if _, err := other.Figure(source, 100, 100); err == nil {
		t.Error("Expected error for range on another sheet")
	}
}
