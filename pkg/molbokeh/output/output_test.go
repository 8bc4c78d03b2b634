package output

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
)

func sampleFigure(t *testing.T) (*models.Figure, *models.ColumnDataSource) {
	t.Helper()
	src := models.NewColumnDataSource()
	require.NoError(t, src.AddColumn("x", []any{int64(1), 2.5, "4"}))
	require.NoError(t, src.AddColumn("y", []any{0.5, 1.0, 3.0}))
	require.NoError(t, src.AddColumn("Name", []any{"a<b", "beta", "gamma"}))

	fig := models.NewFigure("Sample", 400, 300)
	fig.XAxisLabel = "x"
	fig.YAxisLabel = "y"
	fig.Scatter("x", "y", src, "#ff0000", 10)
	return fig, src
}

func TestToJSON(t *testing.T) {
	fig, src := sampleFigure(t)
	fig.AddTools(models.NewHoverTool("@Name"))
	fig.Scatter("y", "x", src, "", 0)

	data, err := ToJSON(fig, true)
	require.NoError(t, err)

	var doc struct {
		Figure struct {
			Title     string `json:"title"`
			Renderers []struct {
				ID string `json:"id"`
			} `json:"renderers"`
		} `json:"figure"`
		Tools []struct {
			Type     string `json:"type"`
			Tooltips string `json:"tooltips"`
		} `json:"tools"`
		Sources []struct {
			ID      string           `json:"id"`
			Columns []string         `json:"columns"`
			Data    map[string][]any `json:"data"`
		} `json:"sources"`
		Bindings map[string]string `json:"bindings"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "Sample", doc.Figure.Title)
	require.Len(t, doc.Tools, len(models.DefaultToolbar)+1)
	hovers := 0
	for _, tool := range doc.Tools {
		if tool.Type == models.ToolHover {
			hovers++
			assert.Equal(t, "@Name", tool.Tooltips)
		}
	}
	assert.Equal(t, 1, hovers)

	require.Len(t, doc.Sources, 1, "shared source is listed once")
	assert.Equal(t, src.ID, doc.Sources[0].ID)
	assert.Equal(t, []string{"x", "y", "Name"}, doc.Sources[0].Columns)
	require.Len(t, doc.Figure.Renderers, 2)
	for _, r := range doc.Figure.Renderers {
		assert.Equal(t, src.ID, doc.Bindings[r.ID])
	}
}

func TestToJSONCompact(t *testing.T) {
	fig, _ := sampleFigure(t)
	data, err := ToJSON(fig, false)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n")
}

func TestRenderPlotHotspots(t *testing.T) {
	fig, _ := sampleFigure(t)
	fig.AddTools(models.NewHoverTool(`<span class="name">@Name</span> #$index`))

	plot, hotspots, err := RenderPlot(fig)
	require.NoError(t, err)
	assert.Contains(t, string(plot), "<svg")
	assert.Contains(t, string(plot), `width="`+strconv.Itoa(fig.Width)+`"`)
	require.Len(t, hotspots, 3)

	for _, h := range hotspots {
		assert.True(t, h.X >= 0 && h.X <= fig.Width, "x %d inside plot", h.X)
		assert.True(t, h.Y >= 0 && h.Y <= fig.Height, "y %d inside plot", h.Y)
		assert.Equal(t, 10, h.Size)
	}
	// larger x is further right, larger y is further up
	assert.Less(t, hotspots[0].X, hotspots[1].X)
	assert.Less(t, hotspots[1].X, hotspots[2].X)
	assert.Greater(t, hotspots[0].Y, hotspots[2].Y)

	assert.Equal(t, `<span class="name">a&lt;b</span> #0`, string(hotspots[0].Tooltip))
	assert.Equal(t, `<span class="name">gamma</span> #2`, string(hotspots[2].Tooltip))
}

func TestRenderPlotNoHoverTool(t *testing.T) {
	fig, _ := sampleFigure(t)
	_, hotspots, err := RenderPlot(fig)
	require.NoError(t, err)
	require.Len(t, hotspots, 3)
	for _, h := range hotspots {
		assert.Empty(t, h.Tooltip)
	}
}

func TestRenderPlotErrors(t *testing.T) {
	src := models.NewColumnDataSource()
	require.NoError(t, src.AddColumn("x", []any{"one"}))
	require.NoError(t, src.AddColumn("y", []any{1}))

	fig := models.NewFigure("", 300, 300)
	fig.Scatter("x", "y", src, "", 0)
	_, _, err := RenderPlot(fig)
	assert.ErrorIs(t, err, ErrNotNumeric)

	fig = models.NewFigure("", 300, 300)
	fig.Scatter("x", "missing", src, "", 0)
	_, _, err = RenderPlot(fig)
	assert.ErrorContains(t, err, `"missing"`)
}

func TestToHTML(t *testing.T) {
	fig, _ := sampleFigure(t)
	fig.AddTools(models.NewHoverTool(`<div><img src="@img"><p>@Name</p></div>`))

	var buf bytes.Buffer
	require.NoError(t, ToHTML(&buf, fig))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Sample", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find(".plot svg").Length())
	assert.Equal(t, 3, doc.Find(".hotspot").Length())
	assert.Equal(t, 3, doc.Find(".hotspot .tooltip").Length())

	first := doc.Find(".hotspot .tooltip p").First().Text()
	assert.Equal(t, "a<b", first)
	style, _ := doc.Find(".hotspot").First().Attr("style")
	assert.True(t, strings.HasPrefix(style, "left: "), style)
}

func TestToHTMLEscapesDataValues(t *testing.T) {
	fig, src := sampleFigure(t)
	require.NoError(t, src.AddColumn("note", []any{`data:"><script>alert(1)</script>`, "data:,ok", "plain"}))
	fig.AddTools(models.NewHoverTool(`<p class="note">@note</p>`))

	var buf bytes.Buffer
	require.NoError(t, ToHTML(&buf, fig))
	assert.NotContains(t, buf.String(), "<script>")

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, `data:"><script>alert(1)</script>`, doc.Find(".tooltip p.note").First().Text())
}

func TestToHTMLEmpty(t *testing.T) {
	fig := models.NewFigure("Empty", 300, 300)

	var buf bytes.Buffer
	require.NoError(t, ToHTML(&buf, fig))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find("svg").Length())
	assert.Equal(t, 1, doc.Find("p.empty").Length())
}
