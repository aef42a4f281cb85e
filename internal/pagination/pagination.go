// Package pagination holds the request/response envelope shared by every
// paginated listing.
package pagination

import (
	"encoding/json"
	"math"

	"webblogger/internal/models"
)

// Request carries the page window, an optional search term and an optional
// sort option drawn from the closed set S.
type Request[S ~string] struct {
	PageNumber int    `json:"page_number"`
	PageSize   int    `json:"page_size"`
	SearchTerm string `json:"search_term,omitempty"`
	SortOption S      `json:"sort_option,omitempty"`
}

// Unsorted is the sort parameter of listings that have one fixed order.
type Unsorted string

// NewRequest builds a request without search term or sort option.
func NewRequest[S ~string](pageNumber, pageSize int) Request[S] {
	return Request[S]{PageNumber: pageNumber, PageSize: pageSize}
}

// Offset is the number of rows to skip for this page.
func (r Request[S]) Offset() int {
	if r.PageNumber < 1 || r.PageSize < 1 || r.offsetOverflows() {
		return 0
	}
	return (r.PageNumber - 1) * r.PageSize
}

func (r Request[S]) offsetOverflows() bool {
	return r.PageSize > 0 && r.PageNumber-1 > math.MaxInt/r.PageSize
}

// Validate reports every window violation at once.
func (r Request[S]) Validate() error {
	var failures []models.FieldFailure
	if r.PageNumber < 1 {
		failures = append(failures, models.FieldFailure{Field: "PageNumber", Message: "Page number must be at least 1."})
	}
	if r.PageSize < 1 {
		failures = append(failures, models.FieldFailure{Field: "PageSize", Message: "Page size must be at least 1."})
	}
	if r.offsetOverflows() {
		failures = append(failures, models.FieldFailure{Field: "PageNumber", Message: "Page number is out of range."})
	}
	if len(failures) > 0 {
		return models.NewValidationFailedError(failures)
	}
	return nil
}

// Normalize caps the page size at maxSize. A non-positive maxSize disables the cap.
func (r Request[S]) Normalize(maxSize int) Request[S] {
	if maxSize > 0 && r.PageSize > maxSize {
		r.PageSize = maxSize
	}
	return r
}

// Page is one window of a listing plus the total size of the filtered set.
type Page[T any] struct {
	TotalCount int64
	PageNumber int
	PageSize   int
	Items      []T
}

// New builds a page. A nil items slice is replaced by an empty one.
func New[T any](totalCount int64, pageNumber, pageSize int, items []T) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		TotalCount: totalCount,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		Items:      items,
	}
}

// Empty returns the canonical empty page: zero total and no items.
func Empty[T any](pageNumber, pageSize int) *Page[T] {
	return New[T](0, pageNumber, pageSize, nil)
}

// TotalPages is ceil(TotalCount / PageSize), or 0 when PageSize is not positive.
func (p *Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 0
	}
	size := int64(p.PageSize)
	return int((p.TotalCount + size - 1) / size)
}

// HasPreviousPage reports whether a page precedes this one.
func (p *Page[T]) HasPreviousPage() bool {
	return p.PageNumber > 1
}

// HasNextPage reports whether a page follows this one.
func (p *Page[T]) HasNextPage() bool {
	return p.PageNumber >= 1 && p.PageNumber < p.TotalPages()
}

type pageJSON[T any] struct {
	TotalCount      int64 `json:"total_count"`
	PageNumber      int   `json:"page_number"`
	PageSize        int   `json:"page_size"`
	TotalPages      int   `json:"total_pages"`
	HasPreviousPage bool  `json:"has_previous_page"`
	HasNextPage     bool  `json:"has_next_page"`
	Items           []T   `json:"items"`
}

// MarshalJSON includes the derived paging fields.
func (p *Page[T]) MarshalJSON() ([]byte, error) {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(pageJSON[T]{
		TotalCount:      p.TotalCount,
		PageNumber:      p.PageNumber,
		PageSize:        p.PageSize,
		TotalPages:      p.TotalPages(),
		HasPreviousPage: p.HasPreviousPage(),
		HasNextPage:     p.HasNextPage(),
		Items:           items,
	})
}
