package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PageParams carries the page/limit query parameters of a list request.
type PageParams struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the current page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// GetPageParams reads page/limit from the query string, clamping to sane bounds.
func GetPageParams(c *gin.Context) PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return PageParams{Page: page, Limit: limit}
}

// Pagination is the page metadata returned alongside list results.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination builds the page metadata for a total row count.
func NewPagination(params PageParams, total int64) Pagination {
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return Pagination{
		CurrentPage: params.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: params.Page < totalPages,
		HasPrevPage: params.Page > 1,
	}
}

// Paginated wraps list items together with their pagination metadata.
type Paginated struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}
