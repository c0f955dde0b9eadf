package storage

import (
	"context"
	"strings"
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
)

const (
	overdueCond  = "r.status = 'Issued' AND r.return_date IS NOT NULL AND r.return_date < ?"
	lowStockCond = "i.quantity <= i.minimum_stock AND i.quantity > 0"
)

func itemConditions(f domain.ItemFilter) ([]string, []any) {
	var (
		conds []string
		args  []any
	)
	if term := strings.TrimSpace(f.Term); term != "" {
		conds = append(conds, `(LOWER(i.name) LIKE ? ESCAPE '!' OR LOWER(i.description) LIKE ? ESCAPE '!')`)
		p := likePattern(term)
		args = append(args, p, p)
	}
	if f.CategoryID > 0 {
		conds = append(conds, "i.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.LowStockOnly {
		conds = append(conds, lowStockCond)
	}
	if f.OutOfStockOnly {
		conds = append(conds, "i.quantity = 0")
	}
	return conds, args
}

func issuanceConditions(f domain.IssuanceFilter) ([]string, []any) {
	var (
		conds []string
		args  []any
	)
	if term := strings.TrimSpace(f.Term); term != "" {
		conds = append(conds, `(LOWER(i.name) LIKE ? ESCAPE '!' OR LOWER(u.first_name) LIKE ? ESCAPE '!'
			OR LOWER(u.last_name) LIKE ? ESCAPE '!' OR LOWER(u.email) LIKE ? ESCAPE '!')`)
		p := likePattern(term)
		args = append(args, p, p, p, p)
	}
	switch f.Status {
	case "":
	case domain.IssuanceStatusOverdue:
		asOf := f.AsOf
		if asOf.IsZero() {
			asOf = time.Now()
		}
		conds = append(conds, overdueCond)
		args = append(args, dbTime(asOf))
	default:
		conds = append(conds, "r.status = ?")
		args = append(args, string(f.Status))
	}
	if f.UserID != "" {
		conds = append(conds, "r.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.From != nil {
		conds = append(conds, "r.issued_date >= ?")
		args = append(args, dbTime(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "r.issued_date <= ?")
		args = append(args, dbTime(*f.To))
	}
	return conds, args
}

func (r *repo) SearchItems(ctx context.Context, f domain.ItemFilter, p domain.PageRequest) (domain.Page[domain.Item], error) {
	p = p.Normalize(domain.DefaultPageSize)
	conds, args := itemConditions(f)
	where := whereClause(conds)

	page := domain.Page[domain.Item]{Number: p.Number, Size: p.Size}

	total, err := r.count(ctx, "count items", `SELECT COUNT(*) FROM inventory_items i`+where, args...)
	if err != nil {
		return page, err
	}
	page.TotalCount = total

	items, err := r.listItems(ctx, "search items",
		selectItems+where+" ORDER BY i.name, i.id LIMIT ? OFFSET ?",
		append(args, p.Size, p.Offset())...)
	if err != nil {
		return page, err
	}
	page.Items = items
	return page, nil
}

func (r *repo) SearchIssuances(ctx context.Context, f domain.IssuanceFilter, p domain.PageRequest) (domain.Page[domain.Issuance], error) {
	p = p.Normalize(domain.DefaultPageSize)
	conds, args := issuanceConditions(f)
	where := whereClause(conds)

	page := domain.Page[domain.Issuance]{Number: p.Number, Size: p.Size}

	total, err := r.count(ctx, "count issuances", `
		SELECT COUNT(*) FROM issuance_records r
		JOIN inventory_items i ON i.id = r.item_id
		JOIN users u ON u.id = r.user_id`+where, args...)
	if err != nil {
		return page, err
	}
	page.TotalCount = total

	recs, err := r.listIssuances(ctx, "search issuances",
		selectIssuances+where+" ORDER BY r.issued_date DESC, r.id DESC LIMIT ? OFFSET ?",
		append(args, p.Size, p.Offset())...)
	if err != nil {
		return page, err
	}
	page.Items = recs
	return page, nil
}

func (r *repo) AllItems(ctx context.Context) ([]domain.Item, error) {
	return r.listItems(ctx, "all items", selectItems+" ORDER BY c.name, i.name, i.id")
}

func (r *repo) AllIssuances(ctx context.Context) ([]domain.Issuance, error) {
	return r.listIssuances(ctx, "all issuances", selectIssuances+" ORDER BY r.issued_date DESC, r.id DESC")
}

// LowStockItems returns low but not empty items, scarcest first. limit <= 0 means all.
func (r *repo) LowStockItems(ctx context.Context, limit int) ([]domain.Item, error) {
	query := selectItems + " WHERE " + lowStockCond + " ORDER BY i.quantity, i.name, i.id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.listItems(ctx, "low stock items", query, args...)
}

func (r *repo) OutOfStockItems(ctx context.Context) ([]domain.Item, error) {
	return r.listItems(ctx, "out of stock items", selectItems+" WHERE i.quantity = 0 ORDER BY i.name, i.id")
}

func (r *repo) OverdueIssuances(ctx context.Context, now time.Time) ([]domain.Issuance, error) {
	return r.listIssuances(ctx, "overdue issuances",
		selectIssuances+" WHERE "+overdueCond+" ORDER BY r.return_date, r.id", dbTime(now))
}

// RecentIssuances lists the newest records, optionally for one user.
func (r *repo) RecentIssuances(ctx context.Context, userID string, limit int) ([]domain.Issuance, error) {
	var (
		conds []string
		args  []any
	)
	if userID != "" {
		conds = append(conds, "r.user_id = ?")
		args = append(args, userID)
	}
	args = append(args, limit)
	return r.listIssuances(ctx, "recent issuances",
		selectIssuances+whereClause(conds)+" ORDER BY r.issued_date DESC, r.id DESC LIMIT ?", args...)
}

func (r *repo) IssuanceStats(ctx context.Context, now time.Time, userID string) (domain.IssuanceStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN r.status = 'Issued' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN ` + overdueCond + ` THEN 1 ELSE 0 END), 0)
		FROM issuance_records r`
	args := []any{dbTime(now)}
	if userID != "" {
		query += " WHERE r.user_id = ?"
		args = append(args, userID)
	}

	var s domain.IssuanceStats
	if err := r.queryRow(ctx, query, args...).Scan(&s.Total, &s.Active, &s.Overdue); err != nil {
		return s, storeErr("issuance stats", err)
	}
	return s, nil
}

func (r *repo) StockStats(ctx context.Context) (domain.StockStats, error) {
	var s domain.StockStats
	err := r.queryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN `+lowStockCond+` THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN i.quantity = 0 THEN 1 ELSE 0 END), 0)
		FROM inventory_items i`,
	).Scan(&s.TotalItems, &s.LowStock, &s.OutOfStock)
	if err != nil {
		return s, storeErr("stock stats", err)
	}
	return s, nil
}

func (r *repo) listItems(ctx context.Context, op, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return items, nil
}

func (r *repo) listIssuances(ctx context.Context, op, query string, args ...any) ([]domain.Issuance, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	recs := []domain.Issuance{}
	for rows.Next() {
		rec, err := scanIssuance(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return recs, nil
}
