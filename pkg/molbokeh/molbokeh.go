package molbokeh

import (
	"fmt"

	"github.com/phuslu/log"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/tooltip"
)

// MolBokeh adds molecule images to figure tooltips and keeps the last
// augmented table.
type MolBokeh struct {
	// Logger receives progress and warnings. If nil, log.DefaultLogger is used.
	Logger *log.Logger

	table *models.ColumnDataSource
}

// New creates a MolBokeh that logs to logger.
func New(logger *log.Logger) *MolBokeh {
	return &MolBokeh{Logger: logger}
}

func (m *MolBokeh) logger() *log.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return &log.DefaultLogger
}

// Table returns a copy of the table computed by the last successful
// AddMolecule call, or nil.
func (m *MolBokeh) Table() *models.ColumnDataSource {
	if m.table == nil {
		return nil
	}
	return m.table.Clone()
}

// AddMolecule renders the structure in smilesColName for every row of
// source into ImageColumn, replaces source's data with the augmented
// table, and swaps every hover tool on fig for one showing the image and
// the columns in opts.HoverAdditionalInfo. fig is returned.
//
// A missing column or any unparseable row aborts the call before fig or
// source are modified.
func (m *MolBokeh) AddMolecule(fig *models.Figure, source *models.ColumnDataSource, smilesColName string, opts Options) (*models.Figure, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Var(smilesColName, "required"); err != nil {
		return nil, NewOptionsError(fmt.Errorf("smiles column: %w", err))
	}
	size := opts.molSize()

	working := source.Clone()
	smiles, ok := working.Column(smilesColName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, smilesColName)
	}

	images, err := m.makeMoleculeImages(smiles, smilesColName, size)
	if err != nil {
		return nil, err
	}
	if err := working.AddColumn(ImageColumn, images); err != nil {
		return nil, err
	}

	removed := fig.RemoveTools(models.IsHover)
	source.SetData(working)
	hover := models.NewHoverTool(tooltip.Build(ImageColumn, opts.HoverAdditionalInfo, size.Width))
	fig.AddTools(hover)
	m.table = working.Clone()

	m.logger().Info().
		Int("rows", len(images)).
		Int("hover_tools_removed", removed).
		Strs("hover_fields", opts.HoverAdditionalInfo).
		Msg("added molecule images to figure")
	return fig, nil
}

// makeMoleculeImages renders one data URI per SMILES value.
func (m *MolBokeh) makeMoleculeImages(smiles []any, column string, size Size) ([]any, error) {
	images := make([]any, len(smiles))
	ropts := RenderOptions{MolSize: size, Logger: m.logger()}
	for i, v := range smiles {
		s, ok := v.(string)
		if !ok {
			return nil, NewRowError(i, column, v, fmt.Errorf("%w: expected a string, got %T", ErrInvalidSmiles, v))
		}
		img, err := SmiToSVG(s, ropts)
		if err != nil {
			return nil, NewRowError(i, column, v, err)
		}
		images[i] = img
	}
	return images, nil
}
