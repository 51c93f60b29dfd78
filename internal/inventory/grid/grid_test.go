package grid

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/carstock/internal/inventory/model"
)

func record(link, brand, modelName, color string, year int, fuel string, price float64) model.Record {
	return model.Record{
		Car: model.Car{Brand: brand, Model: modelName, Color: color, Year: year, Fuel: fuel, Price: price},
		Links: model.Links{
			"self": {Href: link},
		},
	}
}

func fixture() []model.Record {
	return []model.Record{
		record("/cars/1", "Toyota", "Corolla", "Silver", 2020, "Gasoline", 18000),
		record("/cars/2", "Ford", "Mustang", "Red", 2016, "Gasoline", 26000),
		record("/cars/3", "Nissan", "Leaf", "White", 2019, "Electric", 15000),
		record("/cars/4", "ford", "Focus", "Blue", 2012, "Diesel", 9000),
	}
}

func links(rows []model.Record) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Self())
	}
	return out
}

func newGrid(t *testing.T, pageSize int) *Handle {
	t.Helper()
	h, err := New(DefaultColumns(), DefaultRenderers(), pageSize)
	require.NoError(t, err)
	h.Redraw(fixture())
	return h
}

func TestNewRejectsDuplicateColumns(t *testing.T) {
	cols := []Column{{ID: "brand", Field: model.FieldBrand}, {ID: "brand", Field: model.FieldModel}}
	_, err := New(cols, nil, 10)
	assert.Error(t, err)

	_, err = New([]Column{{Field: model.FieldBrand}}, nil, 10)
	assert.Error(t, err)
}

func TestDefaultSortIsBrandAscending(t *testing.T) {
	h := newGrid(t, 10)
	assert.Equal(t, []string{"/cars/2", "/cars/4", "/cars/3", "/cars/1"}, links(h.Displayed()))
	assert.Equal(t, []SortKey{{Column: model.FieldBrand}}, h.Query().Sort)
}

func TestRedrawKeepsCollectionOrder(t *testing.T) {
	h := newGrid(t, 10)
	assert.Equal(t, []string{"/cars/1", "/cars/2", "/cars/3", "/cars/4"}, links(h.Rows()))
}

func TestSortIsStable(t *testing.T) {
	h := newGrid(t, 10)
	require.NoError(t, h.SetQuery(Query{Sort: ParseSort("fuel")}))
	assert.Equal(t, []string{"/cars/4", "/cars/3", "/cars/1", "/cars/2"}, links(h.Displayed()))
}

func TestMultiColumnSort(t *testing.T) {
	h := newGrid(t, 10)
	require.NoError(t, h.SetQuery(Query{Sort: ParseSort("fuel,-price")}))
	assert.Equal(t, []string{"/cars/4", "/cars/3", "/cars/2", "/cars/1"}, links(h.Displayed()))
}

func TestNumericSort(t *testing.T) {
	h := newGrid(t, 10)
	require.NoError(t, h.SetQuery(Query{Sort: []SortKey{{Column: model.FieldYear, Desc: true}}}))
	assert.Equal(t, []string{"/cars/1", "/cars/3", "/cars/2", "/cars/4"}, links(h.Displayed()))
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name   string
		column string
		expr   string
		want   []string
	}{
		{"text contains is case-insensitive", model.FieldBrand, "FORD", []string{"/cars/2", "/cars/4"}},
		{"text equals", model.FieldColor, "=red", []string{"/cars/2"}},
		{"text starts with", model.FieldModel, "^fo", []string{"/cars/4"}},
		{"text ends with", model.FieldModel, "$ng", []string{"/cars/2"}},
		{"text not contains", model.FieldFuel, "!gas", []string{"/cars/4", "/cars/3"}},
		{"number equals", model.FieldYear, "2019", []string{"/cars/3"}},
		{"number not equal", model.FieldYear, "!=2019", []string{"/cars/2", "/cars/4", "/cars/1"}},
		{"number less than", model.FieldPrice, "<10000", []string{"/cars/4"}},
		{"number greater or equal", model.FieldYear, ">=2019", []string{"/cars/3", "/cars/1"}},
		{"number range is inclusive", model.FieldYear, "2016..2020", []string{"/cars/2", "/cars/3", "/cars/1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newGrid(t, 10)
			col, ok := h.Column(tt.column)
			require.True(t, ok)

			f, ok, err := ParseFilter(col.Kind, tt.expr)
			require.NoError(t, err)
			require.True(t, ok)

			require.NoError(t, h.SetQuery(Query{Sort: DefaultSort(), Filters: map[string]Filter{tt.column: f}}))
			assert.Equal(t, tt.want, links(h.Displayed()))
			assert.Equal(t, 4, h.Page().Total)
			assert.Equal(t, len(tt.want), h.Page().Filtered)
		})
	}
}

func TestParseFilter(t *testing.T) {
	f, ok, err := ParseFilter(KindNumber, " >= 2015 ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Filter{Op: OpGreaterOrEq, Value: "2015"}, f)
	assert.Equal(t, ">=2015", f.String())

	_, ok, err = ParseFilter(KindText, "   ")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ParseFilter(KindNumber, "cheap")
	assert.Error(t, err)

	_, _, err = ParseFilter(KindNumber, "1..x")
	assert.Error(t, err)

	_, _, err = ParseFilter(KindAction, "x")
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	keys := ParseSort("brand, -price,,+year")
	assert.Equal(t, []SortKey{
		{Column: "brand"},
		{Column: "price", Desc: true},
		{Column: "year"},
	}, keys)
	assert.Equal(t, "brand,-price,year", FormatSort(keys))
}

func TestSetQueryRejectsInvalidInput(t *testing.T) {
	h := newGrid(t, 10)
	before := h.Query()

	assert.Error(t, h.SetQuery(Query{Sort: []SortKey{{Column: "mileage"}}}))
	assert.Error(t, h.SetQuery(Query{Sort: []SortKey{{Column: ColumnEdit}}}))
	assert.Error(t, h.SetQuery(Query{Filters: map[string]Filter{ColumnDelete: {Op: OpContains, Value: "x"}}}))
	assert.Error(t, h.SetQuery(Query{Filters: map[string]Filter{model.FieldYear: {Op: OpEquals, Value: "new"}}}))

	assert.Equal(t, before, h.Query())
}

func TestPaging(t *testing.T) {
	h := newGrid(t, 3)

	p := h.Page()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 2, p.Pages)
	require.Len(t, p.Rows, 3)

	require.NoError(t, h.SetQuery(Query{Sort: DefaultSort(), Page: 9}))
	p = h.Page()
	assert.Equal(t, 2, p.Page)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "/cars/1", p.Rows[0].Link)

	require.NoError(t, h.SetQuery(Query{Sort: DefaultSort(), Page: -1}))
	assert.Equal(t, 1, h.Page().Page)
}

func TestEmptyGridHasOnePage(t *testing.T) {
	h, err := New(DefaultColumns(), DefaultRenderers(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, h.PageSize())

	p := h.Page()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.Pages)
	assert.Empty(t, p.Rows)
}

func TestPageRendersCells(t *testing.T) {
	h := newGrid(t, 10)
	p := h.Page()
	require.Len(t, p.Columns, 8)

	first := p.Rows[0]
	require.Len(t, first.Cells, 8)
	assert.Equal(t, "Ford", first.Cells[0].Text)
	assert.Equal(t, "2016", first.Cells[4].Text)
	assert.Equal(t, "26000", first.Cells[5].Text)

	edit := first.Cells[6].Action
	require.NotNil(t, edit)
	assert.Equal(t, ColumnEdit, edit.Kind)
	assert.Equal(t, "/cars/2", edit.Link)
	assert.Equal(t, "Edit car", edit.Tooltip)

	del := first.Cells[7].Action
	require.NotNil(t, del)
	assert.Equal(t, ColumnDelete, del.Kind)
	assert.Equal(t, "/cars/2", del.Link)
}

func TestExportCSV(t *testing.T) {
	h := newGrid(t, 2)

	var buf bytes.Buffer
	require.NoError(t, h.ExportCSV(&buf, CSVOptions{}))

	want := "Brand;Model;Color;Year;Fuel;Price (€)\n" +
		"Ford;Mustang;Red;2016;Gasoline;26000\n" +
		"ford;Focus;Blue;2012;Diesel;9000\n" +
		"Nissan;Leaf;White;2019;Electric;15000\n" +
		"Toyota;Corolla;Silver;2020;Gasoline;18000\n"
	assert.Equal(t, want, buf.String())
}

func TestExportCSVHonoursFilterAndSort(t *testing.T) {
	h := newGrid(t, 1)
	f, _, err := ParseFilter(KindNumber, ">=2019")
	require.NoError(t, err)
	require.NoError(t, h.SetQuery(Query{
		Sort:    ParseSort("-price"),
		Filters: map[string]Filter{model.FieldYear: f},
	}))

	var buf bytes.Buffer
	require.NoError(t, h.ExportCSV(&buf, CSVOptions{Separator: ';'}))
	assert.Equal(t, "Brand;Model;Color;Year;Fuel;Price (€)\n"+
		"Toyota;Corolla;Silver;2020;Gasoline;18000\n"+
		"Nissan;Leaf;White;2019;Electric;15000\n", buf.String())
}

func TestExportCSVRejectsActionColumns(t *testing.T) {
	h := newGrid(t, 10)
	var buf bytes.Buffer
	assert.Error(t, h.ExportCSV(&buf, CSVOptions{ColumnKeys: []string{model.FieldBrand, ColumnDelete}}))
	assert.Error(t, h.ExportCSV(&buf, CSVOptions{ColumnKeys: []string{"vin"}}))
}
