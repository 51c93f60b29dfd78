// Package grid is a small data grid over car records: declarative columns,
// pure cell renderers, sorting, filtering, paging and CSV export.
package grid

import (
	"github.com/autopeer-io/carstock/internal/inventory/model"
)

// Kind selects sorting and filtering semantics of a column.
type Kind int

const (
	// KindText columns sort lexically and filter by substring.
	KindText Kind = iota
	// KindNumber columns sort numerically and filter by numeric comparison.
	KindNumber
	// KindAction columns carry row affordances; they never sort, filter or export.
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindAction:
		return "action"
	}
	return "unknown"
}

// Column ids of the two action columns.
const (
	ColumnEdit   = "edit"
	ColumnDelete = "delete"
)

// Column describes one grid column.
type Column struct {
	// ID is unique within a grid; it keys renderers, sorts, filters and export.
	ID string
	// Header is the title shown above the column and written as CSV header.
	Header string
	// Field is the record attribute the column reads, see model.Record.Field.
	Field string
	Kind  Kind
	// Width is a rendering hint in pixels, 0 means flexible.
	Width int
}

// Sortable reports whether the column takes part in sorting.
func (c Column) Sortable() bool { return c.Kind != KindAction }

// Filterable reports whether the column accepts a filter.
func (c Column) Filterable() bool { return c.Kind != KindAction }

// Exportable reports whether the column is written by CSV export.
func (c Column) Exportable() bool { return c.Kind != KindAction }

// DefaultColumns returns the inventory layout: six data columns followed by
// the edit and delete affordances.
func DefaultColumns() []Column {
	return []Column{
		{ID: model.FieldBrand, Header: "Brand", Field: model.FieldBrand, Kind: KindText},
		{ID: model.FieldModel, Header: "Model", Field: model.FieldModel, Kind: KindText},
		{ID: model.FieldColor, Header: "Color", Field: model.FieldColor, Kind: KindText},
		{ID: model.FieldFuel, Header: "Fuel", Field: model.FieldFuel, Kind: KindText},
		{ID: model.FieldYear, Header: "Year", Field: model.FieldYear, Kind: KindNumber},
		{ID: model.FieldPrice, Header: "Price (€)", Field: model.FieldPrice, Kind: KindNumber, Width: 120},
		{ID: ColumnEdit, Header: "", Field: model.FieldSelf, Kind: KindAction, Width: 80},
		{ID: ColumnDelete, Header: "", Field: model.FieldSelf, Kind: KindAction, Width: 80},
	}
}

// DefaultSort is the initial ordering: brand ascending.
func DefaultSort() []SortKey {
	return []SortKey{{Column: model.FieldBrand}}
}

// ExportColumns is the fixed CSV column order.
func ExportColumns() []string {
	return append([]string(nil), model.Fields...)
}
