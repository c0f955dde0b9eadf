package storage

import (
	"context"
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
)

const selectItems = `
	SELECT i.id, i.name, i.description, i.quantity, i.category_id, c.name,
	       i.minimum_stock, i.version, i.created_at, i.updated_at
	FROM inventory_items i
	JOIN categories c ON c.id = i.category_id`

func scanItem(s scanner) (domain.Item, error) {
	var it domain.Item
	err := s.Scan(&it.ID, &it.Name, &it.Description, &it.Quantity, &it.CategoryID, &it.CategoryName,
		&it.MinimumStock, &it.Version, &it.CreatedAt, &it.UpdatedAt)
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	return it, err
}

func (r *repo) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	it, err := scanItem(r.queryRow(ctx, selectItems+" WHERE i.id = ?", id))
	if isNoRows(err) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, storeErr("get item", err)
	}
	return &it, nil
}

// LockItem skips the category join so FOR UPDATE only locks the item row.
func (r *repo) LockItem(ctx context.Context, id int64) (*domain.Item, error) {
	var it domain.Item
	err := r.queryRow(ctx, `
		SELECT id, name, description, quantity, category_id, minimum_stock, version, created_at, updated_at
		FROM inventory_items WHERE id = ?`+r.forUpdate(), id,
	).Scan(&it.ID, &it.Name, &it.Description, &it.Quantity, &it.CategoryID,
		&it.MinimumStock, &it.Version, &it.CreatedAt, &it.UpdatedAt)
	if isNoRows(err) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, storeErr("lock item", err)
	}
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	return &it, nil
}

func (r *repo) HasSufficientQuantity(ctx context.Context, itemID int64, amount int) (bool, error) {
	var quantity int
	err := r.queryRow(ctx, `SELECT quantity FROM inventory_items WHERE id = ?`+r.forUpdate(), itemID).Scan(&quantity)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("check quantity", err)
	}
	return quantity >= amount, nil
}

func (r *repo) AdjustQuantity(ctx context.Context, itemID int64, delta int) error {
	result, err := r.exec(ctx, `
		UPDATE inventory_items
		SET quantity = quantity + ?, version = version + 1, updated_at = ?
		WHERE id = ?`,
		delta, dbTime(time.Now()), itemID,
	)
	if err != nil {
		return storeErr("adjust quantity", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("adjust quantity", err)
	}
	if rows == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *repo) CreateItem(ctx context.Context, item *domain.Item) error {
	now := dbTime(time.Now())
	item.Version = 1
	item.CreatedAt = now
	item.UpdatedAt = now

	id, err := r.insert(ctx, `
		INSERT INTO inventory_items (name, description, quantity, category_id, minimum_stock, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Description, item.Quantity, item.CategoryID, item.MinimumStock,
		item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return storeErr("insert item", err)
	}
	item.ID = id
	return nil
}

func (r *repo) UpdateItem(ctx context.Context, item *domain.Item) error {
	now := dbTime(time.Now())
	result, err := r.exec(ctx, `
		UPDATE inventory_items
		SET name = ?, description = ?, quantity = ?, category_id = ?, minimum_stock = ?,
		    version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		item.Name, item.Description, item.Quantity, item.CategoryID, item.MinimumStock,
		now, item.ID, item.Version,
	)
	if err != nil {
		return storeErr("update item", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("update item", err)
	}
	if rows == 0 {
		found, err := r.exists(ctx, "update item", `SELECT COUNT(*) FROM inventory_items WHERE id = ?`, item.ID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrItemNotFound
		}
		return domain.ErrVersionConflict
	}

	item.Version++
	item.UpdatedAt = now
	return nil
}

func (r *repo) DeleteItem(ctx context.Context, id int64) error {
	result, err := r.exec(ctx, `DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete item", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("delete item", err)
	}
	if rows == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *repo) ItemHasIssuances(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "item issuances", `SELECT COUNT(*) FROM issuance_records WHERE item_id = ?`, id)
}
