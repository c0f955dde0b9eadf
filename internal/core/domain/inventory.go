package domain

import "time"

// Item is a stock-ledger row. Quantity is mutated incrementally by the
// issuance engine and never recomputed from issuance history.
type Item struct {
	ID           int64
	Name         string
	Description  string
	Quantity     int
	CategoryID   int64
	CategoryName string
	MinimumStock int
	Version      int // optimistic locking
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (i Item) IsLowStock() bool {
	return i.Quantity <= i.MinimumStock
}

func (i Item) IsOutOfStock() bool {
	return i.Quantity == 0
}

// HasQuantity reports whether amount units can be taken without going negative.
func (i Item) HasQuantity(amount int) bool {
	return i.Quantity >= amount
}

// ItemInput carries the admin-editable fields of an item.
type ItemInput struct {
	Name         string `validate:"required,max=200"`
	Description  string `validate:"max=1000"`
	Quantity     int    `validate:"min=0"`
	CategoryID   int64  `validate:"required,gt=0"`
	MinimumStock int    `validate:"min=0"`
}

type ItemFilter struct {
	Term           string
	CategoryID     int64
	LowStockOnly   bool
	OutOfStockOnly bool
}

type Category struct {
	ID          int64
	Name        string
	Description string
	ItemCount   int
	CreatedAt   time.Time
}

type CategoryInput struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
}
