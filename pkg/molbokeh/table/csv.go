package table

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
)

// LoadCSV reads a comma-separated file.
func LoadCSV(path string, opts Options) (*models.ColumnDataSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, opts)
}

// ReadCSV reads comma-separated records from r. Records may have
// differing field counts.
func ReadCSV(r io.Reader, opts Options) (*models.ColumnDataSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return buildSource(rows, opts)
}
