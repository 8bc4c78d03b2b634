// Package molbokeh adds molecule structure images to chart hover tooltips.
package molbokeh

import (
	"github.com/go-playground/validator/v10"
	"github.com/phuslu/log"
)

// ImageColumn is the column that receives the rendered structure images.
const ImageColumn = "Mol_IMGSVG"

// Size is a pixel width and height.
type Size struct {
	Width  int `json:"width" toml:"width" validate:"gt=0"`
	Height int `json:"height" toml:"height" validate:"gt=0"`
}

// DefaultMolSize is the tooltip image size used by AddMolecule.
var DefaultMolSize = Size{Width: 150, Height: 150}

// DefaultRenderSize is the image size used by SmiToSVG.
var DefaultRenderSize = Size{Width: 320, Height: 320}

// Options configures AddMolecule.
type Options struct {
	// HoverAdditionalInfo lists extra columns shown under the image, in order.
	HoverAdditionalInfo []string `json:"hover_additional_info,omitempty" toml:"hover_additional_info" validate:"dive,required"`
	// MolSize is the rendered and displayed image size. Zero means DefaultMolSize.
	MolSize Size `json:"mol_size" toml:"mol_size"`
}

// DefaultOptions returns default overlay options.
func DefaultOptions() Options {
	return Options{
		MolSize: DefaultMolSize,
	}
}

// molSize returns the configured size, or the default when unset.
func (o Options) molSize() Size {
	if o.MolSize == (Size{}) {
		return DefaultMolSize
	}
	return o.MolSize
}

// Validate checks option values.
func (o Options) Validate() error {
	o.MolSize = o.molSize()
	if err := validate.Struct(o); err != nil {
		return NewOptionsError(err)
	}
	return nil
}

// RenderOptions configures SmiToSVG.
type RenderOptions struct {
	// MolSize is the image size. Zero means DefaultRenderSize.
	MolSize Size `json:"mol_size" toml:"mol_size"`
	// Kekulize requests an alternating single/double bond drawing of
	// aromatic rings. If nil, defaults to true.
	Kekulize *bool `json:"kekulize,omitempty" toml:"kekulize"`
	// HTML wraps the data URI in an <img> tag.
	HTML bool `json:"html,omitempty" toml:"html"`
	// Logger receives kekulization fallback warnings. If nil, log.DefaultLogger is used.
	Logger *log.Logger `json:"-" toml:"-"`
}

// ShouldKekulize returns whether aromatic rings are kekulized before drawing.
func (o RenderOptions) ShouldKekulize() bool {
	if o.Kekulize != nil {
		return *o.Kekulize
	}
	return true
}

func (o RenderOptions) molSize() Size {
	if o.MolSize == (Size{}) {
		return DefaultRenderSize
	}
	return o.MolSize
}

func (o RenderOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return &log.DefaultLogger
}

var validate = validator.New()
