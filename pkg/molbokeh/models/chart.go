package models

import "github.com/google/uuid"

// GlyphRenderer draws one marker per row of a data source.
type GlyphRenderer struct {
	// ID is the unique model id.
	ID string `json:"id"`
	// Glyph is the marker kind; only "circle" is drawn.
	Glyph string `json:"glyph"`
	// X is the column holding x values.
	X string `json:"x"`
	// Y is the column holding y values.
	Y string `json:"y"`
	// Color is the hex fill color of the markers (e.g., #1f77b4).
	Color string `json:"color"`
	// Size is the marker diameter in pixels.
	Size float64 `json:"size"`
	// Source is the data source the glyph reads from.
	Source *ColumnDataSource `json:"-"`
}

// Figure is a plot with glyph renderers and a toolbar.
type Figure struct {
	// ID is the unique model id.
	ID string `json:"id"`
	// Title is the plot title.
	Title string `json:"title,omitempty"`
	// XAxisLabel is the x-axis label.
	XAxisLabel string `json:"x_axis_label,omitempty"`
	// YAxisLabel is the y-axis label.
	YAxisLabel string `json:"y_axis_label,omitempty"`
	// Width is the plot width in pixels.
	Width int `json:"width"`
	// Height is the plot height in pixels.
	Height int `json:"height"`
	// Renderers holds the glyphs drawn on the plot.
	Renderers []GlyphRenderer `json:"renderers"`

	tools []Tool
}

// NewFigure creates a figure with the default toolbar.
func NewFigure(title string, width, height int) *Figure {
	f := &Figure{
		ID:     uuid.New().String(),
		Title:  title,
		Width:  width,
		Height: height,
	}
	for _, t := range DefaultToolbar {
		f.tools = append(f.tools, NewActionTool(t))
	}
	return f
}

// Tools returns the attached tools in attachment order.
func (f *Figure) Tools() []Tool {
	out := make([]Tool, len(f.tools))
	copy(out, f.tools)
	return out
}

// AddTools attaches tools to the figure.
func (f *Figure) AddTools(tools ...Tool) {
	f.tools = append(f.tools, tools...)
}

// RemoveTools detaches every tool matching pred and returns how many were removed.
func (f *Figure) RemoveTools(pred func(Tool) bool) int {
	kept := f.tools[:0]
	removed := 0
	for _, t := range f.tools {
		if pred(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(f.tools); i++ {
		f.tools[i] = nil
	}
	f.tools = kept
	return removed
}

// HoverTools returns the attached hover tools.
func (f *Figure) HoverTools() []*HoverTool {
	var out []*HoverTool
	for _, t := range f.tools {
		if h, ok := t.(*HoverTool); ok {
			out = append(out, h)
		}
	}
	return out
}

// Scatter adds a circle glyph plotting column y against column x.
func (f *Figure) Scatter(x, y string, source *ColumnDataSource, color string, size float64) *GlyphRenderer {
	if color == "" {
		color = "#1f77b4"
	}
	if size <= 0 {
		size = 8
	}
	f.Renderers = append(f.Renderers, GlyphRenderer{
		ID:     uuid.New().String(),
		Glyph:  "circle",
		X:      x,
		Y:      y,
		Color:  color,
		Size:   size,
		Source: source,
	})
	return &f.Renderers[len(f.Renderers)-1]
}
