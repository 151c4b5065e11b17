// Package pagination provides the page request/result types shared by the
// paginated read paths of the bounded contexts.
package pagination

// DefaultSize caps result sets when the caller does not ask for a size.
const DefaultSize = 20

// MaxSize bounds a single page regardless of what the caller asks for.
const MaxSize = 200

// Direction indicates sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Request describes the slice of a collection a caller wants back.
// Page is zero-based.
type Request struct {
	Page      int
	Size      int
	SortBy    string
	Direction Direction
}

// NewRequest normalizes raw paging parameters into a bounded request.
func NewRequest(page, size int) Request {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Request{Page: page, Size: size, Direction: Ascending}
}

// WithSort returns a copy of the request sorted by the given column.
func (r Request) WithSort(sortBy string, direction Direction) Request {
	r.SortBy = sortBy
	if direction != Descending {
		direction = Ascending
	}
	r.Direction = direction
	return r
}

// Offset converts the page number into a row offset.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Page is one slice of a collection together with the collection total.
type Page[T any] struct {
	Items      []T
	TotalItems int64
	Number     int
	Size       int
}

// NewPage assembles a page result from a fetched slice and the overall count.
func NewPage[T any](items []T, total int64, req Request) Page[T] {
	return Page[T]{Items: items, TotalItems: total, Number: req.Page, Size: req.Size}
}

// TotalPages derives the page count from the collection total.
func (p Page[T]) TotalPages() int64 {
	if p.Size <= 0 {
		return 0
	}
	pages := p.TotalItems / int64(p.Size)
	if p.TotalItems%int64(p.Size) != 0 {
		pages++
	}
	return pages
}
