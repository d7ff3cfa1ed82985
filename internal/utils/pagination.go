package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PaginationMeta represents pagination metadata
type PaginationMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// CalculatePagination calculates pagination metadata
func CalculatePagination(total int64, page, limit int) PaginationMeta {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return PaginationMeta{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}

// ParsePagination reads ?page=&limit= with defaults; bad values fall back silently.
func ParsePagination(c *gin.Context) (page, limit int) {
	page = 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}

	limit = DefaultPageLimit
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return page, limit
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}

// ParseLimit reads ?limit= for the short "top N" lists.
func ParseLimit(c *gin.Context, fallback int) int {
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		if l > MaxPageLimit {
			return MaxPageLimit
		}
		return l
	}
	return fallback
}
