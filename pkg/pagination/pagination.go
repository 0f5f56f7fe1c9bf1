package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 200
)

// Params are the page/limit query values every list endpoint accepts. Limit
// is capped so one request cannot drag a whole store's history over the wire.
type Params struct {
	Page  int
	Limit int
}

// Offset converts the page number to a row offset.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages returns the page count for a total row count.
func (p Params) Pages(total int64) int64 {
	if p.Limit <= 0 {
		return 0
	}
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return pages
}

// Parse reads page and limit from the query string, falling back to defaults
// on anything missing or out of range.
func Parse(c *gin.Context) Params {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Params{Page: page, Limit: limit}
}
