package query

import (
	"github.com/web-source-dev/dealboard/internal/validation"
	"github.com/web-source-dev/dealboard/types"
)

// Page is one slice of a listing
type Page[T any] struct {
	Items      []T
	TotalPages int

	// PageIndex is the page actually sliced. Clamped is set when it is
	// lower than the requested index, so callers can update their own
	// page state.
	PageIndex int
	Clamped   bool
}

// Paginate slices items to the requested page. There is always at least
// one page; a page index past the end is clamped to the last page.
// A non-positive page size or negative page index is a configuration error.
func Paginate[T any](items []T, spec types.PaginationSpec) (Page[T], error) {
	if err := validation.ValidatePagination(spec); err != nil {
		return Page[T]{}, err
	}
	return paginate(items, spec), nil
}

// paginate assumes spec has been validated
func paginate[T any](items []T, spec types.PaginationSpec) Page[T] {
	totalPages := (len(items) + spec.PageSize - 1) / spec.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := Page[T]{TotalPages: totalPages, PageIndex: spec.PageIndex}
	if page.PageIndex >= totalPages {
		page.PageIndex = totalPages - 1
		page.Clamped = true
	}

	start := page.PageIndex * spec.PageSize
	end := min(start+spec.PageSize, len(items))
	if start > len(items) {
		start = len(items)
	}

	page.Items = make([]T, end-start)
	copy(page.Items, items[start:end])
	return page
}
