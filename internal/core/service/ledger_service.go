package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/logger"
	"github.com/rl1809/invenedu/internal/port"
)

// LedgerService owns inventory items and their quantities.
type LedgerService struct {
	store port.Store
}

func NewLedgerService(store port.Store) *LedgerService {
	return &LedgerService{store: store}
}

func (s *LedgerService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	return s.store.GetItem(ctx, id)
}

// HasSufficientQuantity reports false for a missing item.
func (s *LedgerService) HasSufficientQuantity(ctx context.Context, itemID int64, amount int) (bool, error) {
	return s.store.HasSufficientQuantity(ctx, itemID, amount)
}

func (s *LedgerService) CreateItem(ctx context.Context, in domain.ItemInput) (*domain.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	item := &domain.Item{
		Name:         in.Name,
		Description:  in.Description,
		Quantity:     in.Quantity,
		CategoryID:   in.CategoryID,
		MinimumStock: in.MinimumStock,
	}

	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		cat, err := requireCategory(ctx, tx, in.CategoryID)
		if err != nil {
			return err
		}
		item.CategoryName = cat.Name
		return tx.CreateItem(ctx, item)
	})
	if err != nil {
		logFailure(ctx, "create item failed", err, "name", in.Name)
		return nil, err
	}

	logger.FromContext(ctx).Info("item created", "item_id", item.ID, "quantity", item.Quantity)
	return item, nil
}

// UpdateItem replaces the editable fields. version must match the stored
// version or ErrVersionConflict is returned.
func (s *LedgerService) UpdateItem(ctx context.Context, id int64, version int, in domain.ItemInput) (*domain.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	var item *domain.Item
	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		cat, err := requireCategory(ctx, tx, in.CategoryID)
		if err != nil {
			return err
		}

		item, err = tx.GetItem(ctx, id)
		if err != nil {
			return err
		}

		item.Name = in.Name
		item.Description = in.Description
		item.Quantity = in.Quantity
		item.CategoryID = in.CategoryID
		item.CategoryName = cat.Name
		item.MinimumStock = in.MinimumStock
		item.Version = version
		return tx.UpdateItem(ctx, item)
	})
	if err != nil {
		logFailure(ctx, "update item failed", err, "item_id", id)
		return nil, err
	}

	logger.FromContext(ctx).Info("item updated", "item_id", id, "version", item.Version)
	return item, nil
}

// DeleteItem refuses to remove items referenced by any issuance.
func (s *LedgerService) DeleteItem(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		if _, err := tx.LockItem(ctx, id); err != nil {
			return err
		}

		used, err := tx.ItemHasIssuances(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return domain.ErrItemHasIssuances
		}

		return tx.DeleteItem(ctx, id)
	})
	if err != nil {
		logFailure(ctx, "delete item failed", err, "item_id", id)
		return err
	}

	logger.FromContext(ctx).Info("item deleted", "item_id", id)
	return nil
}

// AdjustQuantity is the administrative stock correction. Negative deltas
// are checked for sufficiency under the item lock.
func (s *LedgerService) AdjustQuantity(ctx context.Context, itemID int64, delta int) (*domain.Item, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.AdjustQuantity")
	span.SetAttributes(attribute.Int64("item.id", itemID), attribute.Int("delta", delta))

	var item *domain.Item
	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		locked, err := tx.LockItem(ctx, itemID)
		if err != nil {
			return err
		}
		if delta < 0 && !locked.HasQuantity(-delta) {
			return domain.ErrInsufficientStock
		}

		if err := tx.AdjustQuantity(ctx, itemID, delta); err != nil {
			return err
		}

		item, err = tx.GetItem(ctx, itemID)
		return err
	})
	finishSpan(span, err)
	if err != nil {
		logFailure(ctx, "adjust quantity failed", err, "item_id", itemID, "delta", delta)
		return nil, err
	}

	logger.FromContext(ctx).Info("quantity adjusted", "item_id", itemID, "delta", delta, "quantity", item.Quantity)
	return item, nil
}

func requireCategory(ctx context.Context, tx port.Tx, id int64) (*domain.Category, error) {
	cat, err := tx.GetCategory(ctx, id)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, domain.NewValidationError("category_id", "category does not exist")
	}
	return cat, err
}
