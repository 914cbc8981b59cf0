//go:build unit

package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"comma separated", "realism, security ,  ,nato", []string{"realism", "security", "nato"}},
		{"json array", `["realism", " nato ", ""]`, []string{"realism", "nato"}},
		{"broken json falls back to commas", `[realism, nato`, []string{"[realism", "nato"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseList(tc.raw))
		})
	}
}

func TestNewPagination(t *testing.T) {
	testCases := []struct {
		name                  string
		page, size, limit     int
		wantOffset, wantTake  int
		wantPage, wantPerPage int
	}{
		{"defaults", 0, 0, 0, 0, 10, 1, 10},
		{"third page", 3, 20, 0, 40, 20, 3, 20},
		{"page size is capped", 1, 500, 0, 0, 100, 1, 100},
		{"limit overrides paging", 4, 10, 3, 0, 3, 4, 10},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.size, tc.limit, DefaultPageSize)
			assert.Equal(t, tc.wantOffset, p.offset())
			assert.Equal(t, tc.wantTake, p.take())
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantPerPage, p.size())
		})
	}
}

func TestNewPage_TotalPages(t *testing.T) {
	p := NewPagination(1, 12, 0, DefaultArticlePageSize)

	assert.Equal(t, 0, newPage[int](nil, 0, p).TotalPages)
	assert.Equal(t, 1, newPage[int](nil, 12, p).TotalPages)
	assert.Equal(t, 2, newPage[int](nil, 13, p).TotalPages)
	assert.NotNil(t, newPage[int](nil, 0, p).Items, "items encode as [] rather than null")
}

func TestListQuery_Options(t *testing.T) {
	draft := false

	anon := ListQuery{Published: &draft, Search: "  realism "}.options()
	require.NotNil(t, anon.Published)
	assert.True(t, *anon.Published, "anonymous callers only ever see published rows")
	assert.Equal(t, "realism", anon.Search)

	admin := ListQuery{Admin: true}.options()
	assert.Nil(t, admin.Published, "admins see everything by default")

	narrowed := ListQuery{Admin: true, Published: &draft}.options()
	require.NotNil(t, narrowed.Published)
	assert.False(t, *narrowed.Published)
}

func TestBaseCheck_ReportsJSONFieldNames(t *testing.T) {
	b := newBase(nil)
	err := b.check(ArticleInput{Title: "   ", Authors: "A", Summary: "S"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "title is required", verr.Message)
}
