package service

import (
	"context"
	"strings"

	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/logger"
	"github.com/rl1809/invenedu/internal/port"
)

type CategoryService struct {
	store port.Store
}

func NewCategoryService(store port.Store) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	c := &domain.Category{Name: in.Name, Description: in.Description}
	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		taken, err := tx.CategoryNameExists(ctx, in.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrCategoryNameTaken
		}
		return tx.CreateCategory(ctx, c)
	})
	if err != nil {
		logFailure(ctx, "create category failed", err, "name", in.Name)
		return nil, err
	}

	logger.FromContext(ctx).Info("category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	var c *domain.Category
	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		var err error
		if c, err = tx.GetCategory(ctx, id); err != nil {
			return err
		}

		taken, err := tx.CategoryNameExists(ctx, in.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrCategoryNameTaken
		}

		c.Name = in.Name
		c.Description = in.Description
		return tx.UpdateCategory(ctx, c)
	})
	if err != nil {
		logFailure(ctx, "update category failed", err, "category_id", id)
		return nil, err
	}

	logger.FromContext(ctx).Info("category updated", "category_id", id)
	return c, nil
}

// DeleteCategory refuses to remove a category that still owns items.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		if _, err := tx.GetCategory(ctx, id); err != nil {
			return err
		}

		hasItems, err := tx.CategoryHasItems(ctx, id)
		if err != nil {
			return err
		}
		if hasItems {
			return domain.ErrCategoryHasItems
		}
		return tx.DeleteCategory(ctx, id)
	})
	if err != nil {
		logFailure(ctx, "delete category failed", err, "category_id", id)
		return err
	}

	logger.FromContext(ctx).Info("category deleted", "category_id", id)
	return nil
}
