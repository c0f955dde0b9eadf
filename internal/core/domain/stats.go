package domain

type IssuanceStats struct {
	Total   int
	Active  int
	Overdue int
}

type StockStats struct {
	TotalItems int
	LowStock   int // low but not out of stock
	OutOfStock int
}

type Statistics struct {
	IssuanceStats
	StockStats
}

type AdminDashboard struct {
	Statistics
	TotalUsers      int
	RecentIssuances []Issuance
	LowStockItems   []Item
}

type UserDashboard struct {
	UserName         string
	TotalIssuances   int
	CurrentlyHolding int
	Overdue          int
	ActiveIssuances  []Issuance
	RecentIssuances  []Issuance
}
