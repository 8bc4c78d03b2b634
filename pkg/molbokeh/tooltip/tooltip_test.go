package tooltip

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestBuildImageOnly(t *testing.T) {
	markup := Build("Mol_IMGSVG", nil, 150)
	doc := parse(t, markup)

	img := doc.Find("div > img")
	require.Equal(t, 1, img.Length())
	src, _ := img.Attr("src")
	assert.Equal(t, "@Mol_IMGSVG", src)
	style, _ := img.Attr("style")
	assert.Equal(t, "width: 150px; height: 150px;", style)
	assert.Equal(t, 0, doc.Find("p").Length())
}

func TestBuildFieldsInOrder(t *testing.T) {
	fields := []string{"Name", "MolWt", "LogP"}
	doc := parse(t, Build("Mol_IMGSVG", fields, 200))

	var labels []string
	doc.Find("div > p").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		assert.Equal(t, "text-align: center;", style)
		labels = append(labels, s.Find("strong").Text())
	})
	assert.Equal(t, []string{"Name:", "MolWt:", "LogP:"}, labels)
	assert.Contains(t, doc.Find("p").First().Text(), "@Name")
}

func TestBuildUsesWidthForHeight(t *testing.T) {
	markup := Build("img", nil, 120)
	assert.Contains(t, markup, "width: 120px; height: 120px;")
}

func TestBuildEmptyFields(t *testing.T) {
	assert.Equal(t, Build("img", nil, 10), Build("img", []string{}, 10))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "@name", Placeholder("name"))
	assert.Equal(t, "@{mol weight}", Placeholder("mol weight"))
	assert.Equal(t, "@{}", Placeholder(""))
}

func TestExpand(t *testing.T) {
	row := map[string]any{
		"Name":       "<b>ethanol</b>",
		"MolWt":      46.07,
		"mol weight": 46,
		"Mol_IMGSVG": "data:image/svg+xml;base64,PHN2Zz4=",
		"note":       `data:"><script>alert(1)</script>`,
	}

	tests := []struct {
		template string
		want     string
	}{
		{"@Name", "&lt;b&gt;ethanol&lt;/b&gt;"},
		{"@MolWt g/mol", "46.07 g/mol"},
		{"@{mol weight}", "46"},
		{`<img src="@Mol_IMGSVG">`, `<img src="data:image/svg+xml;base64,PHN2Zz4=">`},
		{`<p>@note</p>`, `<p>data:&#34;&gt;&lt;script&gt;alert(1)&lt;/script&gt;</p>`},
		{"row $index", "row 3"},
		{"@missing", Unknown},
		{"a@ b", "a@ b"},
		{"@{unterminated", "@{unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.template, row, 3))
		})
	}
}

func TestExpandBuiltTemplate(t *testing.T) {
	markup := Build("Mol_IMGSVG", []string{"Name"}, 150)
	out := Expand(markup, map[string]any{
		"Mol_IMGSVG": "data:image/svg+xml;base64,AAAA",
		"Name":       "aspirin",
	}, 0)

	doc := parse(t, out)
	src, _ := doc.Find("img").Attr("src")
	assert.Equal(t, "data:image/svg+xml;base64,AAAA", src)
	assert.Equal(t, "Name: aspirin", doc.Find("p").Text())
}
