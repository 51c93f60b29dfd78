package ui

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/carstock/internal/inventory/grid"
)

func TestParseQuery(t *testing.T) {
	cols := grid.DefaultColumns()

	values := url.Values{
		"sort":          {"fuel,-price"},
		"filter[year]":  {"2015..2020"},
		"filter[brand]": {""},
		"page":          {"2"},
	}
	require.True(t, hasGridParams(values, cols))

	q, err := parseQuery(values, cols)
	require.NoError(t, err)
	assert.Equal(t, []grid.SortKey{{Column: "fuel"}, {Column: "price", Desc: true}}, q.Sort)
	assert.Equal(t, map[string]grid.Filter{"year": {Op: grid.OpInRange, Value: "2015", To: "2020"}}, q.Filters)
	assert.Equal(t, 2, q.Page)

	back, err := parseQuery(encodeQuery(q), cols)
	require.NoError(t, err)
	assert.Equal(t, q, back)
}

func TestParseQueryDefaults(t *testing.T) {
	cols := grid.DefaultColumns()
	assert.False(t, hasGridParams(url.Values{"x": {"1"}}, cols))

	q, err := parseQuery(url.Values{"filter[model]": {"leaf"}}, cols)
	require.NoError(t, err)
	assert.Equal(t, grid.DefaultSort(), q.Sort)
	assert.Equal(t, 1, q.Page)

	_, err = parseQuery(url.Values{"page": {"two"}}, cols)
	assert.Error(t, err)
}
