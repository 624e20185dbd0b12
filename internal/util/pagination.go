// Package util holds small helpers shared by the HTTP and service layers.
package util

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*MaxPageSize inside int32.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Calculate turns a 1-based page and size into an offset and limit. Out of
// range values fall back to the first page and the default size.
func Calculate(page, size int) (offset, limit int) {
	page = NormalizePage(page)
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

func NormalizePage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
