package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/autopeer-io/carstock/internal/inventory/model"
)

// DefaultPageSize is used when New is given a non-positive page size.
const DefaultPageSize = 10

// Query is the user controlled part of the grid state.
type Query struct {
	Sort []SortKey
	// Filters is keyed by column id.
	Filters map[string]Filter
	// Page is 1-based. Out of range values are clamped.
	Page int
}

// Row is one rendered grid row.
type Row struct {
	Link  string
	Cells []Cell
}

// PageView is the current page ready for display.
type PageView struct {
	Columns []Column
	Rows    []Row
	Query   Query
	// Page and Pages are 1-based; an empty grid still has one page.
	Page  int
	Pages int
	// Total counts the redrawn rows, Filtered those that pass the filters.
	Total    int
	Filtered int
}

// CSVOptions controls ExportCSV.
type CSVOptions struct {
	// Separator defaults to ';'.
	Separator rune
	// ColumnKeys lists the exported column ids in order; defaults to ExportColumns.
	ColumnKeys []string
}

// Handle is the explicit reference to a grid instance. It is not safe for
// concurrent use; owners serialise access.
type Handle struct {
	columns   []Column
	index     map[string]int
	renderers Renderers
	pageSize  int

	rows      []model.Record
	query     Query
	displayed []model.Record
}

// New builds a grid over columns. Column ids must be unique.
func New(columns []Column, renderers Renderers, pageSize int) (*Handle, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if renderers == nil {
		renderers = Renderers{}
	}

	h := &Handle{
		columns:   slices.Clone(columns),
		index:     make(map[string]int, len(columns)),
		renderers: renderers,
		pageSize:  pageSize,
		query:     Query{Sort: DefaultSort(), Page: 1},
	}
	for i, c := range columns {
		if c.ID == "" {
			return nil, fmt.Errorf("column %d has no id", i)
		}
		if _, dup := h.index[c.ID]; dup {
			return nil, fmt.Errorf("duplicate column id %q", c.ID)
		}
		h.index[c.ID] = i
	}

	// the default sort only applies when its column exists
	if err := h.checkQuery(h.query); err != nil {
		h.query.Sort = nil
	}
	return h, nil
}

// Columns returns a copy of the column descriptors.
func (h *Handle) Columns() []Column {
	return slices.Clone(h.columns)
}

// Column looks up a column by id.
func (h *Handle) Column(id string) (Column, bool) {
	i, ok := h.index[id]
	if !ok {
		return Column{}, false
	}
	return h.columns[i], true
}

// PageSize reports the number of rows per page.
func (h *Handle) PageSize() int { return h.pageSize }

// Redraw replaces the grid data and re-applies the current query.
func (h *Handle) Redraw(rows []model.Record) {
	h.rows = slices.Clone(rows)
	h.apply()
}

// Rows returns the redrawn rows in collection order.
func (h *Handle) Rows() []model.Record {
	return slices.Clone(h.rows)
}

// SetQuery validates and applies q. On error the previous query stays in effect.
func (h *Handle) SetQuery(q Query) error {
	if err := h.checkQuery(q); err != nil {
		return err
	}
	q.Sort = slices.Clone(q.Sort)
	filters := make(map[string]Filter, len(q.Filters))
	for k, f := range q.Filters {
		filters[k] = f
	}
	q.Filters = filters
	h.query = q
	h.apply()
	return nil
}

// Query returns the query in effect, with the page clamped.
func (h *Handle) Query() Query {
	q := h.query
	q.Sort = slices.Clone(q.Sort)
	return q
}

func (h *Handle) checkQuery(q Query) error {
	for _, k := range q.Sort {
		c, ok := h.Column(k.Column)
		if !ok {
			return fmt.Errorf("sort: unknown column %q", k.Column)
		}
		if !c.Sortable() {
			return fmt.Errorf("sort: column %q is not sortable", k.Column)
		}
	}
	for id, f := range q.Filters {
		c, ok := h.Column(id)
		if !ok {
			return fmt.Errorf("filter: unknown column %q", id)
		}
		if !c.Filterable() {
			return fmt.Errorf("filter: column %q is not filterable", id)
		}
		if c.Kind == KindNumber {
			if err := f.validateNumbers(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Handle) apply() {
	out := make([]model.Record, 0, len(h.rows))
	for _, r := range h.rows {
		if h.keep(r) {
			out = append(out, r)
		}
	}

	if len(h.query.Sort) > 0 {
		slices.SortStableFunc(out, func(a, b model.Record) int {
			for _, k := range h.query.Sort {
				c := h.columns[h.index[k.Column]]
				va, _ := a.Field(c.Field)
				vb, _ := b.Field(c.Field)
				n := compareValues(c.Kind, va, vb)
				if k.Desc {
					n = -n
				}
				if n != 0 {
					return n
				}
			}
			return 0
		})
	}

	h.displayed = out
	h.query.Page = min(max(h.query.Page, 1), h.pages())
}

func (h *Handle) keep(r model.Record) bool {
	for id, f := range h.query.Filters {
		c := h.columns[h.index[id]]
		v, _ := r.Field(c.Field)
		if !f.Match(c.Kind, v) {
			return false
		}
	}
	return true
}

func (h *Handle) pages() int {
	n := (len(h.displayed) + h.pageSize - 1) / h.pageSize
	return max(n, 1)
}

// Displayed returns the filtered and sorted rows across all pages.
func (h *Handle) Displayed() []model.Record {
	return slices.Clone(h.displayed)
}

// Page renders the current page.
func (h *Handle) Page() PageView {
	start := (h.query.Page - 1) * h.pageSize
	end := min(start+h.pageSize, len(h.displayed))

	rows := make([]Row, 0, max(end-start, 0))
	for _, r := range h.displayed[start:end] {
		cells := make([]Cell, len(h.columns))
		for i, c := range h.columns {
			cells[i] = h.renderers.Render(r, c)
		}
		rows = append(rows, Row{Link: r.Self(), Cells: cells})
	}

	return PageView{
		Columns:  h.Columns(),
		Rows:     rows,
		Query:    h.Query(),
		Page:     h.query.Page,
		Pages:    h.pages(),
		Total:    len(h.rows),
		Filtered: len(h.displayed),
	}
}

// ExportCSV writes the displayed rows of every page with a header row of column headers.
// Action columns cannot be exported.
func (h *Handle) ExportCSV(w io.Writer, opts CSVOptions) error {
	if opts.Separator == 0 {
		opts.Separator = ';'
	}
	keys := opts.ColumnKeys
	if len(keys) == 0 {
		keys = ExportColumns()
	}

	cols := make([]Column, 0, len(keys))
	for _, k := range keys {
		c, ok := h.Column(k)
		if !ok {
			return fmt.Errorf("export: unknown column %q", k)
		}
		if !c.Exportable() {
			return fmt.Errorf("export: column %q is not exportable", k)
		}
		cols = append(cols, c)
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Separator

	record := make([]string, len(cols))
	for i, c := range cols {
		record[i] = c.Header
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, r := range h.displayed {
		for i, c := range cols {
			record[i] = TextRenderer(r, c).Text
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
