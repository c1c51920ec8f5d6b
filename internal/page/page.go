// Package page provides 1-based fixed-size pagination over slices. Pages
// outside the valid range clamp instead of erroring: below 1 clamps to the
// first page, beyond the end clamps to the last. Even an empty list has one
// (empty) page.
package page

// DefaultSize is the reference page size for style menus.
const DefaultSize = 10

// Info describes the resolved position of a page within its list.
type Info struct {
	Page    int // 1-based, after clamping
	Total   int // total page count, always >= 1
	HasPrev bool
	HasNext bool
}

// Total returns the page count for itemCount items: ceil(itemCount/size),
// never less than 1.
func Total(itemCount, size int) int {
	if size < 1 {
		size = 1
	}
	if itemCount <= 0 {
		return 1
	}
	return (itemCount + size - 1) / size
}

// Clamp forces a requested page into [1, total].
func Clamp(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Paginate returns the items of the requested page plus its resolved Info.
func Paginate[T any](items []T, requested, size int) ([]T, Info) {
	if size < 1 {
		size = 1
	}
	total := Total(len(items), size)
	p := Clamp(requested, total)

	start := (p - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], Info{
		Page:    p,
		Total:   total,
		HasPrev: p > 1,
		HasNext: p < total,
	}
}
