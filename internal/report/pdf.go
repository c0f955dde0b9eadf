package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/rl1809/invenedu/internal/core/domain"
)

type rgb struct{ r, g, b int }

var (
	headerColor  = rgb{54, 116, 181}
	dangerColor  = rgb{220, 53, 69}
	warningColor = rgb{255, 193, 7}
	infoColor    = rgb{23, 162, 184}
	successColor = rgb{40, 167, 69}
)

const (
	rowHeight     = 7.0
	headerHeight  = 9.0
	pageMarginMM  = 10.0
	cellPaddingMM = 1.5
)

type column struct {
	title string
	width float64 // relative
	align string
}

// table lays out a titled, paginated table. Column headers repeat on every page.
type table struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	columns []column
	widths  []float64
}

func newTable(title string, generated time.Time, columns []column) *table {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(false, pageMarginMM)
	pdf.SetTitle(title, true)
	pdf.SetCreator("invenedu", true)
	pdf.SetCreationDate(generated)

	t := &table{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		columns: columns,
	}

	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pageMarginMM
	var total float64
	for _, c := range columns {
		total += c.width
	}
	for _, c := range columns {
		t.widths = append(t.widths, usable*c.width/total)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, t.tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated: "+generated.Format(timeLayout), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	t.header()
	return t
}

func (t *table) header() {
	t.pdf.SetFont("Helvetica", "B", 11)
	t.pdf.SetFillColor(headerColor.r, headerColor.g, headerColor.b)
	t.pdf.SetTextColor(255, 255, 255)
	for i, c := range t.columns {
		t.pdf.CellFormat(t.widths[i], headerHeight, c.title, "1", 0, "C", true, 0, "")
	}
	t.pdf.Ln(-1)
	t.pdf.SetTextColor(0, 0, 0)
	t.pdf.SetFont("Helvetica", "", 9)
}

// row writes one line. The last cell is filled with fill when it is set.
func (t *table) row(cells []string, fill *rgb) {
	_, pageH := t.pdf.GetPageSize()
	if t.pdf.GetY()+rowHeight > pageH-pageMarginMM {
		t.pdf.AddPage()
		t.header()
	}

	last := len(cells) - 1
	for i, text := range cells {
		filled := i == last && fill != nil
		if filled {
			t.pdf.SetFillColor(fill.r, fill.g, fill.b)
		}
		t.pdf.CellFormat(t.widths[i], rowHeight, t.fit(text, t.widths[i]), "1", 0, t.columns[i].align, filled, 0, "")
	}
	t.pdf.Ln(-1)
}

// fit truncates text with an ellipsis so it stays inside the cell.
func (t *table) fit(text string, width float64) string {
	s := t.tr(text)
	limit := width - 2*cellPaddingMM
	if t.pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && t.pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func (t *table) finish(w io.Writer, summary string) error {
	t.pdf.Ln(4)
	t.pdf.SetFont("Helvetica", "B", 12)
	t.pdf.CellFormat(0, 8, summary, "", 1, "L", false, 0, "")
	return t.pdf.Output(w)
}

// InventoryPDF writes the stock report: one row per item with its stock status.
func InventoryPDF(w io.Writer, items []domain.Item, generated time.Time) error {
	t := newTable("InvenEdu - Inventory Report", generated, []column{
		{"Item Name", 3, "L"},
		{"Category", 2, "L"},
		{"Quantity", 1.5, "C"},
		{"Min Stock", 1.5, "C"},
		{"Status", 1.5, "C"},
	})

	for _, it := range items {
		var fill *rgb
		switch {
		case it.IsOutOfStock():
			fill = &dangerColor
		case it.IsLowStock():
			fill = &warningColor
		}
		t.row([]string{
			it.Name,
			orNA(it.CategoryName),
			strconv.Itoa(it.Quantity),
			strconv.Itoa(it.MinimumStock),
			StockStatus(it),
		}, fill)
	}

	if err := t.finish(w, fmt.Sprintf("Total Items: %d", len(items))); err != nil {
		return fmt.Errorf("render inventory pdf: %w", err)
	}
	return nil
}

// IssuancePDF writes the issuance ledger. Statuses are evaluated at now so
// late open records show as Overdue.
func IssuancePDF(w io.Writer, recs []domain.Issuance, now time.Time) error {
	t := newTable("InvenEdu - Issuance Report", now, []column{
		{"Item", 2.5, "L"},
		{"User", 2.5, "L"},
		{"Quantity", 1.2, "C"},
		{"Issued Date", 1.6, "C"},
		{"Return Date", 1.6, "C"},
		{"Status", 1.4, "C"},
	})

	for _, rec := range recs {
		var fill *rgb
		switch {
		case rec.IsOverdue(now):
			fill = &dangerColor
		case rec.Status == domain.IssuanceStatusIssued:
			fill = &infoColor
		case rec.Status == domain.IssuanceStatusReturned:
			fill = &successColor
		}

		returnDate := "N/A"
		if rec.ReturnDate != nil {
			returnDate = rec.ReturnDate.Format(dateLayout)
		}
		t.row([]string{
			orNA(rec.ItemName),
			orNA(rec.UserName),
			strconv.Itoa(rec.QuantityIssued),
			rec.IssuedDate.Format(dateLayout),
			returnDate,
			string(rec.DisplayStatus(now)),
		}, fill)
	}

	if err := t.finish(w, fmt.Sprintf("Total Issuances: %d", len(recs))); err != nil {
		return fmt.Errorf("render issuance pdf: %w", err)
	}
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
