package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPageNumber keeps Offset within an int32 for every page size.
	MaxPageNumber = math.MaxInt32 / MaxPageSize
)

// PageRequest is 1-based.
type PageRequest struct {
	Number int
	Size   int
}

func (p PageRequest) Normalize(defaultSize int) PageRequest {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

type Page[T any] struct {
	Items      []T
	TotalCount int
	Number     int
	Size       int
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.TotalCount + p.Size - 1) / p.Size
}
