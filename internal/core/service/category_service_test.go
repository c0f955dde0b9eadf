package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/invenedu/internal/core/domain"
)

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c, err := env.categories.CreateCategory(ctx, domain.CategoryInput{Name: "  Science Equipment ", Description: "labs"})
	require.NoError(t, err)
	assert.Equal(t, "Science Equipment", c.Name)

	_, err = env.categories.CreateCategory(ctx, domain.CategoryInput{Name: "science EQUIPMENT"})
	assert.ErrorIs(t, err, domain.ErrCategoryNameTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = env.categories.CreateCategory(ctx, domain.CategoryInput{Name: strings.Repeat("n", 101)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.categories.CreateCategory(ctx, domain.CategoryInput{Name: "Ok", Description: strings.Repeat("d", 501)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	books := env.category("Books")
	env.category("Sports")

	updated, err := env.categories.UpdateCategory(ctx, books.ID, domain.CategoryInput{Name: "BOOKS", Description: "renamed"})
	require.NoError(t, err, "renaming to own name in another case is allowed")
	assert.Equal(t, "BOOKS", updated.Name)

	_, err = env.categories.UpdateCategory(ctx, books.ID, domain.CategoryInput{Name: "sports"})
	assert.ErrorIs(t, err, domain.ErrCategoryNameTaken)

	_, err = env.categories.UpdateCategory(ctx, 9999, domain.CategoryInput{Name: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestDeleteCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	full := env.category("Full")
	empty := env.category("Empty")
	env.item(full.ID, "Thing", 1, 0)

	assert.ErrorIs(t, env.categories.DeleteCategory(ctx, full.ID), domain.ErrCategoryHasItems)
	require.NoError(t, env.categories.DeleteCategory(ctx, empty.ID))
	assert.ErrorIs(t, env.categories.DeleteCategory(ctx, empty.ID), domain.ErrCategoryNotFound)

	list, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ItemCount)
}
