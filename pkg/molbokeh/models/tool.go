package models

import "github.com/google/uuid"

// Tool type names, matching the toolbar names used by Bokeh.
const (
	ToolHover     = "hover"
	ToolPan       = "pan"
	ToolWheelZoom = "wheel_zoom"
	ToolBoxZoom   = "box_zoom"
	ToolReset     = "reset"
	ToolSave      = "save"
)

// DefaultToolbar is the tool set attached by NewFigure.
var DefaultToolbar = []string{ToolPan, ToolWheelZoom, ToolBoxZoom, ToolReset, ToolSave}

// Tool is an interactive element attached to a figure.
type Tool interface {
	ToolID() string
	ToolType() string
}

// ToolBase carries the fields shared by every tool.
type ToolBase struct {
	// ID is the unique model id.
	ID string `json:"id"`
	// Type is the tool type name (e.g., hover, pan).
	Type string `json:"type"`
}

// ToolID returns the model id.
func (b ToolBase) ToolID() string { return b.ID }

// ToolType returns the tool type name.
func (b ToolBase) ToolType() string { return b.Type }

// ActionTool is a toolbar tool with no configuration (pan, zoom, reset, save).
type ActionTool struct {
	ToolBase
}

// NewActionTool creates a configuration-free tool of the given type.
func NewActionTool(toolType string) *ActionTool {
	return &ActionTool{ToolBase: ToolBase{ID: uuid.New().String(), Type: toolType}}
}

// HoverTool shows tooltip markup when the pointer is over a glyph.
type HoverTool struct {
	ToolBase
	// Tooltips is the tooltip markup with @column placeholders.
	Tooltips string `json:"tooltips"`
}

// NewHoverTool creates a hover tool with the given tooltip markup.
func NewHoverTool(tooltips string) *HoverTool {
	return &HoverTool{
		ToolBase: ToolBase{ID: uuid.New().String(), Type: ToolHover},
		Tooltips: tooltips,
	}
}

// IsHover reports whether t is a hover tool.
func IsHover(t Tool) bool {
	_, ok := t.(*HoverTool)
	return ok
}
