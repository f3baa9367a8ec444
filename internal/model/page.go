package model

import "math"

// Page is a 1-based page request. Construct it with NewPage so that the
// bounds are already clamped when it reaches storage.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number to at least 1 and size to [1, maxSize]; maxSize <= 0
// means no upper bound. number is also capped so Offset cannot overflow.
func NewPage(number, size, maxSize int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 1
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	if limit := math.MaxInt / size; number-1 > limit {
		number = limit + 1
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Limit is the page size.
func (p Page) Limit() int {
	return p.Size
}
