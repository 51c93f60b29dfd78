package ui

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/autopeer-io/carstock/internal/inventory/grid"
)

const (
	paramSort = "sort"
	paramPage = "page"
)

func filterParam(column string) string { return "filter[" + column + "]" }

// hasGridParams reports whether the request addresses the grid state at all.
func hasGridParams(values url.Values, columns []grid.Column) bool {
	if values.Has(paramSort) || values.Has(paramPage) {
		return true
	}
	for _, c := range columns {
		if values.Has(filterParam(c.ID)) {
			return true
		}
	}
	return false
}

// parseQuery reads sort=brand,-price&filter[year]=2015..2020&page=2.
func parseQuery(values url.Values, columns []grid.Column) (grid.Query, error) {
	q := grid.Query{
		Sort:    grid.ParseSort(values.Get(paramSort)),
		Filters: map[string]grid.Filter{},
		Page:    1,
	}
	if !values.Has(paramSort) {
		q.Sort = grid.DefaultSort()
	}

	for _, c := range columns {
		if !c.Filterable() {
			continue
		}
		f, ok, err := grid.ParseFilter(c.Kind, values.Get(filterParam(c.ID)))
		if err != nil {
			return grid.Query{}, fmt.Errorf("%s: %w", c.ID, err)
		}
		if ok {
			q.Filters[c.ID] = f
		}
	}

	if p := values.Get(paramPage); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return grid.Query{}, fmt.Errorf("page: %q is not a number", p)
		}
		q.Page = n
	}
	return q, nil
}

// encodeQuery is the inverse of parseQuery.
func encodeQuery(q grid.Query) url.Values {
	values := url.Values{}
	values.Set(paramSort, grid.FormatSort(q.Sort))
	for id, f := range q.Filters {
		values.Set(filterParam(id), f.String())
	}
	if q.Page > 1 {
		values.Set(paramPage, strconv.Itoa(q.Page))
	}
	return values
}

// toggleSort cycles a column through ascending, descending and unsorted,
// keeping it as the primary key.
func toggleSort(keys []grid.SortKey, column string) []grid.SortKey {
	out := []grid.SortKey{}
	var current *grid.SortKey
	for i := range keys {
		if keys[i].Column == column {
			current = &keys[i]
			continue
		}
		out = append(out, keys[i])
	}

	switch {
	case current == nil:
		return append([]grid.SortKey{{Column: column}}, out...)
	case !current.Desc:
		return append([]grid.SortKey{{Column: column, Desc: true}}, out...)
	}
	return out
}

func pageHref(q grid.Query, page int) string {
	q.Page = page
	return "/?" + encodeQuery(q).Encode()
}
