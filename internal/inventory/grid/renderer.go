package grid

import (
	"fmt"
	"strconv"

	"github.com/autopeer-io/carstock/internal/inventory/model"
)

// Action is a row affordance produced by an action column.
type Action struct {
	// Kind is the column id that produced it: ColumnEdit or ColumnDelete.
	Kind    string
	Link    string
	Label   string
	Tooltip string
}

// Cell is the display output of one column for one row.
type Cell struct {
	Text   string
	Action *Action
}

// CellRenderer turns row data into a cell. Renderers must be pure.
type CellRenderer func(row model.Record, col Column) Cell

// Renderers maps column ids to renderers. Columns without an entry use TextRenderer.
type Renderers map[string]CellRenderer

// DefaultRenderers wires the edit and delete affordances.
func DefaultRenderers() Renderers {
	return Renderers{
		ColumnEdit:   ActionRenderer("Edit", "Edit car"),
		ColumnDelete: ActionRenderer("Delete", "Delete"),
	}
}

// Render picks the renderer for col.
func (r Renderers) Render(row model.Record, col Column) Cell {
	if fn, ok := r[col.ID]; ok && fn != nil {
		return fn(row, col)
	}
	return TextRenderer(row, col)
}

// TextRenderer formats the column's field as plain text.
func TextRenderer(row model.Record, col Column) Cell {
	v, ok := row.Field(col.Field)
	if !ok {
		return Cell{}
	}
	return Cell{Text: formatValue(v)}
}

// ActionRenderer builds an affordance bound to the field value, normally the self link.
func ActionRenderer(label, tooltip string) CellRenderer {
	return func(row model.Record, col Column) Cell {
		v, _ := row.Field(col.Field)
		link, _ := v.(string)
		return Cell{Action: &Action{Kind: col.ID, Link: link, Label: label, Tooltip: tooltip}}
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
