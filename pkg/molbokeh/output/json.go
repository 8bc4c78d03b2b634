// Package output serializes figures to JSON and renders them as standalone
// interactive HTML pages.
package output

import (
	"encoding/json"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
)

// Document is the JSON form of a figure with its tools and data sources.
type Document struct {
	// Figure holds the plot attributes and glyph renderers.
	Figure *models.Figure `json:"figure"`
	// Tools lists the attached tools in order, each tagged with its type.
	Tools []models.Tool `json:"tools"`
	// Sources lists every data source referenced by a glyph, once each.
	Sources []*models.ColumnDataSource `json:"sources"`
	// Bindings maps glyph renderer id to data source id.
	Bindings map[string]string `json:"bindings"`
}

// NewDocument collects the figure's tools and referenced sources.
func NewDocument(fig *models.Figure) *Document {
	doc := &Document{
		Figure:   fig,
		Tools:    fig.Tools(),
		Sources:  []*models.ColumnDataSource{},
		Bindings: make(map[string]string),
	}
	seen := make(map[*models.ColumnDataSource]bool)
	for _, g := range fig.Renderers {
		if g.Source == nil {
			continue
		}
		doc.Bindings[g.ID] = g.Source.ID
		if !seen[g.Source] {
			seen[g.Source] = true
			doc.Sources = append(doc.Sources, g.Source)
		}
	}
	return doc
}

// ToJSON serializes a figure document.
func ToJSON(fig *models.Figure, pretty bool) ([]byte, error) {
	doc := NewDocument(fig)
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
