// Package table loads column data sources from spreadsheets and writes
// augmented sources back out.
package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
)

// ErrUnsupportedFormat indicates a file extension Load cannot read.
var ErrUnsupportedFormat = errors.New("unsupported table format")

var validate = validator.New()

// Options configures Load.
type Options struct {
	// Sheet is the worksheet to read from .xlsx files. Empty means the first sheet.
	Sheet string `toml:"sheet"`
	// HeaderRow is the 1-based row holding column names. Zero means 1.
	HeaderRow int `toml:"header_row" validate:"gte=0"`
	// ParseNumbers converts numeric cells to int64 or float64.
	// If nil, defaults to true.
	ParseNumbers *bool `toml:"parse_numbers"`
}

// DefaultOptions returns default load options.
func DefaultOptions() Options {
	return Options{HeaderRow: 1}
}

// ShouldParseNumbers returns whether numeric cells are converted.
func (o Options) ShouldParseNumbers() bool {
	if o.ParseNumbers != nil {
		return *o.ParseNumbers
	}
	return true
}

func (o Options) headerRow() int {
	if o.HeaderRow <= 0 {
		return 1
	}
	return o.HeaderRow
}

// Load reads a table by file extension: .xlsx, .xlsm or .csv.
func Load(path string, opts Options) (*models.ColumnDataSource, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid table options: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, opts)
	case ".csv":
		return LoadCSV(path, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// buildSource turns raw string rows into a data source. Rows above the
// header are skipped, short rows are padded with empty strings and rows
// with no data are dropped.
func buildSource(rows [][]string, opts Options) (*models.ColumnDataSource, error) {
	header := opts.headerRow()
	if len(rows) < header {
		return nil, fmt.Errorf("header row %d not found", header)
	}

	names := make([]string, len(rows[header-1]))
	seen := make(map[string]bool, len(names))
	for i, name := range rows[header-1] {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "Column" + strconv.Itoa(i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		seen[name] = true
		names[i] = name
	}

	columns := make([][]any, len(names))
	for _, row := range rows[header:] {
		if !hasData(row) {
			continue
		}
		for i := range names {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if opts.ShouldParseNumbers() {
				columns[i] = append(columns[i], parseValue(cell))
			} else {
				columns[i] = append(columns[i], cell)
			}
		}
	}

	source := models.NewColumnDataSource()
	for i, name := range names {
		values := columns[i]
		if values == nil {
			values = []any{}
		}
		if err := source.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return source, nil
}

func hasData(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return true
		}
	}
	return false
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
