// Package models defines the chart and data-source structures that molecule
// overlays are applied to.
package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ColumnDataSource holds tabular data as named columns of equal length.
// It is shared by pointer between a figure's glyphs and the caller, so
// replacing its data is visible to every holder.
type ColumnDataSource struct {
	// ID is the unique model id.
	ID string `json:"id"`
	// Data maps column name to row values.
	Data map[string][]any `json:"data"`
	// Order lists column names in insertion order.
	Order []string `json:"columns"`
}

// NewColumnDataSource creates an empty data source.
func NewColumnDataSource() *ColumnDataSource {
	return &ColumnDataSource{
		ID:   uuid.New().String(),
		Data: make(map[string][]any),
	}
}

// Columns returns the column names in insertion order.
func (s *ColumnDataSource) Columns() []string {
	out := make([]string, len(s.Order))
	copy(out, s.Order)
	return out
}

// Column returns the values of the named column.
func (s *ColumnDataSource) Column(name string) ([]any, bool) {
	values, ok := s.Data[name]
	return values, ok
}

// Len returns the number of rows. An empty source has zero rows.
func (s *ColumnDataSource) Len() int {
	if len(s.Order) == 0 {
		return 0
	}
	return len(s.Data[s.Order[0]])
}

// AddColumn appends a column, or replaces it in place if the name exists.
// The value count must match the current row count unless the source is empty.
func (s *ColumnDataSource) AddColumn(name string, values []any) error {
	if s.Data == nil {
		s.Data = make(map[string][]any)
	}
	_, exists := s.Data[name]
	others := len(s.Order)
	if exists {
		others--
	}
	if others > 0 && len(values) != s.Len() {
		return fmt.Errorf("column %q has %d values, source has %d rows", name, len(values), s.Len())
	}
	if !exists {
		s.Order = append(s.Order, name)
	}
	s.Data[name] = values
	return nil
}

// Row returns a single row keyed by column name.
func (s *ColumnDataSource) Row(i int) map[string]any {
	row := make(map[string]any, len(s.Order))
	for _, name := range s.Order {
		if values := s.Data[name]; i >= 0 && i < len(values) {
			row[name] = values[i]
		}
	}
	return row
}

// Clone returns an independent copy with a fresh id. Column slices are
// copied; cell values are shared.
func (s *ColumnDataSource) Clone() *ColumnDataSource {
	c := &ColumnDataSource{
		ID:    uuid.New().String(),
		Data:  make(map[string][]any, len(s.Data)),
		Order: make([]string, len(s.Order)),
	}
	copy(c.Order, s.Order)
	for name, values := range s.Data {
		cp := make([]any, len(values))
		copy(cp, values)
		c.Data[name] = cp
	}
	return c
}

// SetData replaces the columns wholesale with a copy of other's columns.
// The source keeps its own id.
func (s *ColumnDataSource) SetData(other *ColumnDataSource) {
	c := other.Clone()
	s.Data = c.Data
	s.Order = c.Order
}
