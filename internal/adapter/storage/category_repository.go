package storage

import (
	"context"
	"strings"
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
)

const selectCategories = `
	SELECT c.id, c.name, c.description, c.created_at,
	       (SELECT COUNT(*) FROM inventory_items i WHERE i.category_id = c.id)
	FROM categories c`

func scanCategory(s scanner) (domain.Category, error) {
	var c domain.Category
	err := s.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.ItemCount)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, err
}

func (r *repo) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := scanCategory(r.queryRow(ctx, selectCategories+" WHERE c.id = ?", id))
	if isNoRows(err) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, storeErr("get category", err)
	}
	return &c, nil
}

func (r *repo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.query(ctx, selectCategories+" ORDER BY LOWER(c.name), c.id")
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, storeErr("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list categories", err)
	}
	return categories, nil
}

// CategoryNameExists compares names case-insensitively, ignoring excludeID.
func (r *repo) CategoryNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.exists(ctx, "category name",
		`SELECT COUNT(*) FROM categories WHERE LOWER(name) = ? AND id <> ?`,
		strings.ToLower(strings.TrimSpace(name)), excludeID,
	)
}

func (r *repo) CreateCategory(ctx context.Context, c *domain.Category) error {
	c.CreatedAt = dbTime(time.Now())

	id, err := r.insert(ctx, `INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)`,
		c.Name, c.Description, c.CreatedAt,
	)
	if err != nil {
		return storeErr("insert category", err)
	}
	c.ID = id
	return nil
}

func (r *repo) UpdateCategory(ctx context.Context, c *domain.Category) error {
	result, err := r.exec(ctx, `UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		c.Name, c.Description, c.ID,
	)
	if err != nil {
		return storeErr("update category", err)
	}

	// MySQL reports zero affected rows for unchanged values, so confirm
	// existence instead of trusting RowsAffected.
	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("update category", err)
	}
	if rows == 0 {
		found, err := r.exists(ctx, "update category", `SELECT COUNT(*) FROM categories WHERE id = ?`, c.ID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCategoryNotFound
		}
	}
	return nil
}

func (r *repo) DeleteCategory(ctx context.Context, id int64) error {
	result, err := r.exec(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete category", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("delete category", err)
	}
	if rows == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *repo) CategoryHasItems(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "category items", `SELECT COUNT(*) FROM inventory_items WHERE category_id = ?`, id)
}
