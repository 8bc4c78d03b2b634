package molbokeh

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
)

func newSource(t *testing.T, smiles []any, names []any) *models.ColumnDataSource {
	t.Helper()
	src := models.NewColumnDataSource()
	require.NoError(t, src.AddColumn("SMILES", smiles))
	require.NoError(t, src.AddColumn("Name", names))
	x := make([]any, len(smiles))
	for i := range x {
		x[i] = float64(i)
	}
	require.NoError(t, src.AddColumn("x", x))
	return src
}

func quietLogger() *log.Logger {
	return &log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: &bytes.Buffer{}}}
}

func TestAddMolecule(t *testing.T) {
	src := newSource(t,
		[]any{"CCO", "c1ccccc1", "CC(=O)O"},
		[]any{"ethanol", "benzene", "acetic acid"},
	)
	fig := models.NewFigure("test", 600, 400)
	glyph := fig.Scatter("x", "x", src, "", 0)

	mb := New(quietLogger())
	out, err := mb.AddMolecule(fig, src, "SMILES", Options{HoverAdditionalInfo: []string{"Name"}})
	require.NoError(t, err)
	assert.Same(t, fig, out)

	images, ok := src.Column(ImageColumn)
	require.True(t, ok, "caller's source receives the image column")
	require.Len(t, images, 3)
	for _, img := range images {
		s, ok := img.(string)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(s, SVGDataURIPrefix))
	}
	assert.Equal(t, []string{"SMILES", "Name", "x", ImageColumn}, src.Columns())

	// glyphs bound to the source see the update
	_, ok = glyph.Source.Column(ImageColumn)
	assert.True(t, ok)

	table := mb.Table()
	require.NotNil(t, table)
	assert.Equal(t, 3, table.Len())
	col, _ := table.Column(ImageColumn)
	assert.Equal(t, images, col)
}

func TestAddMoleculeReplacesHoverTools(t *testing.T) {
	for _, existing := range []int{0, 1, 3} {
		fig := models.NewFigure("", 300, 300)
		for i := 0; i < existing; i++ {
			fig.AddTools(models.NewHoverTool("@x"))
		}
		src := newSource(t, []any{"C"}, []any{"methane"})

		_, err := New(quietLogger()).AddMolecule(fig, src, "SMILES", DefaultOptions())
		require.NoError(t, err)

		hovers := fig.HoverTools()
		require.Len(t, hovers, 1, "existing hover tools: %d", existing)
		assert.Contains(t, hovers[0].Tooltips, "@"+ImageColumn)
		assert.Len(t, fig.Tools(), len(models.DefaultToolbar)+1)
	}
}

func TestAddMoleculeTooltipFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   []string
	}{
		{"none", nil, nil},
		{"empty", []string{}, nil},
		{"ordered", []string{"x", "Name"}, []string{"x:", "Name:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := models.NewFigure("", 300, 300)
			src := newSource(t, []any{"CCO"}, []any{"ethanol"})

			_, err := New(quietLogger()).AddMolecule(fig, src, "SMILES", Options{
				HoverAdditionalInfo: tt.fields,
				MolSize:             Size{Width: 120, Height: 90},
			})
			require.NoError(t, err)

			markup := fig.HoverTools()[0].Tooltips
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
			require.NoError(t, err)

			var got []string
			doc.Find("p strong").Each(func(_ int, s *goquery.Selection) {
				got = append(got, s.Text())
			})
			assert.Equal(t, tt.want, got)

			style, _ := doc.Find("img").Attr("style")
			assert.Equal(t, "width: 120px; height: 120px;", style)
		})
	}
}

func TestAddMoleculeRenderSize(t *testing.T) {
	fig := models.NewFigure("", 300, 300)
	src := newSource(t, []any{"CCO"}, []any{"ethanol"})

	_, err := New(quietLogger()).AddMolecule(fig, src, "SMILES", Options{MolSize: Size{Width: 200, Height: 100}})
	require.NoError(t, err)

	images, _ := src.Column(ImageColumn)
	svg := decodeDataURI(t, images[0].(string))
	assert.Contains(t, svg, `width="200"`)
	assert.Contains(t, svg, `height="100"`)
}

func TestAddMoleculeMissingColumn(t *testing.T) {
	fig := models.NewFigure("", 300, 300)
	src := newSource(t, []any{"CCO"}, []any{"ethanol"})
	before := fig.Tools()

	out, err := New(quietLogger()).AddMolecule(fig, src, "smiles", DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrColumnNotFound)

	assert.Equal(t, before, fig.Tools())
	_, ok := src.Column(ImageColumn)
	assert.False(t, ok)
}

func TestAddMoleculeInvalidRowIsAtomic(t *testing.T) {
	fig := models.NewFigure("", 300, 300)
	fig.AddTools(models.NewHoverTool("@Name"))
	src := newSource(t, []any{"CCO", "", "C"}, []any{"a", "b", "c"})
	mb := New(quietLogger())

	_, err := mb.AddMolecule(fig, src, "SMILES", DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSmiles)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
	assert.Equal(t, "SMILES", rowErr.Column)
	assert.Equal(t, "", rowErr.Value)

	_, ok := src.Column(ImageColumn)
	assert.False(t, ok)
	require.Len(t, fig.HoverTools(), 1)
	assert.Equal(t, "@Name", fig.HoverTools()[0].Tooltips)
	assert.Nil(t, mb.Table())
}

func TestAddMoleculeNonStringCell(t *testing.T) {
	fig := models.NewFigure("", 300, 300)
	src := newSource(t, []any{"CCO", 42}, []any{"a", "b"})

	_, err := New(quietLogger()).AddMolecule(fig, src, "SMILES", DefaultOptions())
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
}

func TestAddMoleculeInvalidOptions(t *testing.T) {
	fig := models.NewFigure("", 300, 300)
	src := newSource(t, []any{"CCO"}, []any{"a"})
	mb := New(quietLogger())

	_, err := mb.AddMolecule(fig, src, "SMILES", Options{MolSize: Size{Width: 0, Height: 10}})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = mb.AddMolecule(fig, src, "SMILES", Options{HoverAdditionalInfo: []string{""}})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = mb.AddMolecule(fig, src, "", DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestAddMoleculeRecomputes(t *testing.T) {
	fig := models.NewFigure("", 300, 300)
	src := newSource(t, []any{"CCO", "CCO"}, []any{"a", "b"})
	mb := New(quietLogger())

	_, err := mb.AddMolecule(fig, src, "SMILES", DefaultOptions())
	require.NoError(t, err)
	_, err = mb.AddMolecule(fig, src, "SMILES", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, src.Len())
	assert.Len(t, src.Columns(), 4, "image column is replaced, not duplicated")
	assert.Len(t, fig.HoverTools(), 1)
}

func TestAddMoleculeEmptySource(t *testing.T) {
	fig := models.NewFigure("", 300, 300)
	src := models.NewColumnDataSource()
	require.NoError(t, src.AddColumn("SMILES", []any{}))

	_, err := New(quietLogger()).AddMolecule(fig, src, "SMILES", DefaultOptions())
	require.NoError(t, err)
	images, ok := src.Column(ImageColumn)
	require.True(t, ok)
	assert.Empty(t, images)
}
