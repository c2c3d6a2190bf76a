package usecase

import (
	"net/url"
	"testing"

	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQueryDefaults(t *testing.T) {
	lq, err := ParseListQuery(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, lq.Page)
	assert.Equal(t, DefaultPageSize, lq.Limit)
	assert.Empty(t, lq.Select)
	assert.Equal(t, []store.SortField{{Field: "createdAt", Desc: true}}, lq.Query.Sort)
	assert.Equal(t, 0, lq.Query.Offset)
	assert.Equal(t, DefaultPageSize, lq.Query.Limit)
}

func TestParseListQueryFiltersAndWindow(t *testing.T) {
	values, err := url.ParseQuery("select=name,description&sort=-averageCost,name&page=3&limit=10" +
		"&averageCost[lte]=10000&careers[in]=Business,UI/UX&housing=true")
	require.NoError(t, err)

	lq, err := ParseListQuery(values)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "description"}, lq.Select)
	assert.Equal(t, []store.SortField{{Field: "averageCost", Desc: true}, {Field: "name"}}, lq.Query.Sort)
	assert.Equal(t, 20, lq.Query.Offset)
	assert.Equal(t, 10, lq.Query.Limit)
	assert.Equal(t, []store.Condition{
		{Field: "averageCost", Op: store.OpLte, Values: []string{"10000"}},
		{Field: "careers", Op: store.OpIn, Values: []string{"Business", "UI/UX"}},
		{Field: "housing", Op: store.OpEq, Values: []string{"true"}},
	}, lq.Query.Conditions)
}

func TestParseListQueryCapsLimit(t *testing.T) {
	lq, err := ParseListQuery(url.Values{"limit": {"5000"}})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, lq.Limit)
}

func TestParseListQueryRejects(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "page not a number", query: "page=abc"},
		{name: "page zero", query: "page=0"},
		{name: "negative limit", query: "limit=-1"},
		{name: "unknown operator", query: "averageCost[regex]=1"},
		{name: "bad field", query: "a..b=1"},
		{name: "bad sort", query: "sort=na$me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			_, err = ParseListQuery(values)
			assert.Error(t, err)
		})
	}
}

func TestPaginate(t *testing.T) {
	lq := ListQuery{Page: 2, Limit: 10, Query: store.Query{Offset: 10, Limit: 10}}

	p := paginate(lq, 35)
	assert.Equal(t, &PageRef{Page: 3, Limit: 10}, p.Next)
	assert.Equal(t, &PageRef{Page: 1, Limit: 10}, p.Prev)

	p = paginate(lq, 20)
	assert.Nil(t, p.Next)

	p = paginate(ListQuery{Page: 1}, 100)
	assert.Nil(t, p.Next)
	assert.Nil(t, p.Prev)
}

func TestForParentDropsPaging(t *testing.T) {
	lq, err := ParseListQuery(url.Values{"page": {"2"}})
	require.NoError(t, err)

	lq = forParent(lq, "b1")
	assert.Zero(t, lq.Query.Offset)
	assert.Zero(t, lq.Query.Limit)
	assert.Contains(t, lq.Query.Conditions, store.Condition{Field: "bootcamp", Op: store.OpEq, Values: []string{"b1"}})
}
