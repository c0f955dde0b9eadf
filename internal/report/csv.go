package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
)

// cell neutralises values a spreadsheet would evaluate as a formula.
func cell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func InventoryCSV(w io.Writer, items []domain.Item) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"ID", "Name", "Category", "Quantity", "Minimum Stock", "Status", "Updated"})
	for _, it := range items {
		cw.Write([]string{
			strconv.FormatInt(it.ID, 10),
			cell(it.Name),
			cell(it.CategoryName),
			strconv.Itoa(it.Quantity),
			strconv.Itoa(it.MinimumStock),
			StockStatus(it),
			it.UpdatedAt.Format(timeLayout),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write inventory csv: %w", err)
	}
	return nil
}

func IssuanceCSV(w io.Writer, recs []domain.Issuance, now time.Time) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"ID", "Item", "User", "Email", "Quantity", "Issued", "Return Date", "Status", "Notes"})
	for _, rec := range recs {
		returnDate := ""
		if rec.ReturnDate != nil {
			returnDate = rec.ReturnDate.Format(timeLayout)
		}
		cw.Write([]string{
			strconv.FormatInt(rec.ID, 10),
			cell(rec.ItemName),
			cell(rec.UserName),
			cell(rec.UserEmail),
			strconv.Itoa(rec.QuantityIssued),
			rec.IssuedDate.Format(timeLayout),
			returnDate,
			string(rec.DisplayStatus(now)),
			cell(rec.Notes),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write issuance csv: %w", err)
	}
	return nil
}
