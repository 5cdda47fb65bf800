package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(t *testing.T, query string) PageParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPageParams(c)
}

func TestGetPageParams(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"page=3&limit=25", 3, 25},
		{"page=0&limit=0", 1, 10},
		{"page=-2", 1, 10},
		{"page=abc&limit=xyz", 1, 10},
		{"limit=5000", 1, 100},
	}
	for _, tt := range tests {
		p := paramsForQuery(t, tt.query)
		assert.Equalf(t, tt.wantPage, p.Page, "query %q", tt.query)
		assert.Equalf(t, tt.wantLimit, p.Limit, "query %q", tt.query)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, PageParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, PageParams{Page: 3, Limit: 10}.Offset())
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int64
		want  Pagination
	}{
		{"empty", 1, 10, 0, Pagination{CurrentPage: 1, TotalPages: 0, TotalItems: 0, HasNextPage: false, HasPrevPage: false}},
		{"single page", 1, 10, 7, Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 7, HasNextPage: false, HasPrevPage: false}},
		{"first of many", 1, 10, 35, Pagination{CurrentPage: 1, TotalPages: 4, TotalItems: 35, HasNextPage: true, HasPrevPage: false}},
		{"middle", 2, 10, 35, Pagination{CurrentPage: 2, TotalPages: 4, TotalItems: 35, HasNextPage: true, HasPrevPage: true}},
		{"last", 4, 10, 35, Pagination{CurrentPage: 4, TotalPages: 4, TotalItems: 35, HasNextPage: false, HasPrevPage: true}},
		{"exact multiple", 2, 10, 20, Pagination{CurrentPage: 2, TotalPages: 2, TotalItems: 20, HasNextPage: false, HasPrevPage: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagination(PageParams{Page: tt.page, Limit: tt.limit}, tt.total)
			assert.Equal(t, tt.want, got)
		})
	}
}
