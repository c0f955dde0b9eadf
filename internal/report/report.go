// Package report renders inventory and issuance reports as PDF and CSV.
package report

import (
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
)

const (
	timeLayout = "2006-01-02 15:04"
	dateLayout = "2006-01-02"
)

// StockStatus is the label shown for an item's stock level.
func StockStatus(it domain.Item) string {
	switch {
	case it.IsOutOfStock():
		return "Out of Stock"
	case it.IsLowStock():
		return "Low Stock"
	default:
		return "In Stock"
	}
}

// Filename names a download, e.g. inventory-20260310.pdf.
func Filename(name, ext string, now time.Time) string {
	return name + "-" + now.UTC().Format("20060102") + "." + ext
}
