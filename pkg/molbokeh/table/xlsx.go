package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
)

// LoadXLSX reads one worksheet of an Excel workbook.
func LoadXLSX(path string, opts Options) (*models.ColumnDataSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return buildSource(rows, opts)
}

// WriteXLSX writes source to a new workbook with a header row followed by
// one row per record. An empty sheet name means "Sheet1".
func WriteXLSX(path string, source *models.ColumnDataSource, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}

	columns := source.Columns()
	header := make([]any, len(columns))
	for i, name := range columns {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r := 0; r < source.Len(); r++ {
		row := make([]any, len(columns))
		for c, name := range columns {
			values, _ := source.Column(name)
			row[c] = values[r]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
	}

	return f.SaveAs(path)
}
