package storage_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/invenedu/internal/adapter/storage"
	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/port"
)

type fixtures struct {
	t     *testing.T
	store *storage.SQLStore
}

func (f fixtures) category(name string) *domain.Category {
	f.t.Helper()
	c := &domain.Category{Name: name, Description: name + " things"}
	require.NoError(f.t, f.store.CreateCategory(context.Background(), c))
	return c
}

func (f fixtures) item(categoryID int64, name string, quantity, minimum int) *domain.Item {
	f.t.Helper()
	it := &domain.Item{Name: name, Description: "desc " + name, Quantity: quantity, CategoryID: categoryID, MinimumStock: minimum}
	require.NoError(f.t, f.store.CreateItem(context.Background(), it))
	return it
}

func (f fixtures) user(first, last string, active bool) *domain.User {
	f.t.Helper()
	u := &domain.User{
		ID:        uuid.NewString(),
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s@invenedu.test", first, last),
		IsActive:  active,
		Role:      domain.RoleUser,
	}
	require.NoError(f.t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f fixtures) issuance(itemID int64, userID string, qty int, issued time.Time, due *time.Time, status domain.IssuanceStatus) *domain.Issuance {
	f.t.Helper()
	rec := &domain.Issuance{ItemID: itemID, UserID: userID, QuantityIssued: qty, IssuedDate: issued, ReturnDate: due, Status: status}
	require.NoError(f.t, f.store.CreateIssuance(context.Background(), rec))
	return rec
}

// runStoreSuite exercises port.Store against an empty, migrated database.
func runStoreSuite(t *testing.T, store *storage.SQLStore) {
	t.Run("ItemLifecycle", func(t *testing.T) { testItemLifecycle(t, store) })
	t.Run("Categories", func(t *testing.T) { testCategories(t, store) })
	t.Run("IssuanceRoundTrip", func(t *testing.T) { testIssuanceRoundTrip(t, store) })
	t.Run("WithinTxRollback", func(t *testing.T) { testWithinTxRollback(t, store) })
	t.Run("ConcurrentIssue", func(t *testing.T) { testConcurrentIssue(t, store) })
	t.Run("SearchItems", func(t *testing.T) { testSearchItems(t, store) })
	t.Run("SearchIssuancesAndStats", func(t *testing.T) { testSearchIssuancesAndStats(t, store) })
	t.Run("Users", func(t *testing.T) { testUsers(t, store) })
}

func testItemLifecycle(t *testing.T, store *storage.SQLStore) {
	ctx := context.Background()
	f := fixtures{t, store}
	cat := f.category("Lifecycle")

	it := f.item(cat.ID, "Projector", 3, 1)
	assert.NotZero(t, it.ID)
	assert.Equal(t, 1, it.Version)

	got, err := store.GetItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Projector", got.Name)
	assert.Equal(t, "Lifecycle", got.CategoryName)
	assert.Equal(t, 3, got.Quantity)

	ok, err := store.HasSufficientQuantity(ctx, it.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.HasSufficientQuantity(ctx, it.ID, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.HasSufficientQuantity(ctx, 999999, 1)
	require.NoError(t, err)
	assert.False(t, ok, "missing item is never sufficient")

	require.NoError(t, store.AdjustQuantity(ctx, it.ID, -2))
	got, err = store.GetItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
	assert.Equal(t, 2, got.Version)

	assert.ErrorIs(t, store.AdjustQuantity(ctx, 999999, 1), domain.ErrItemNotFound)

	// Stale version is rejected.
	stale := *it
	got.Name = "Projector HD"
	require.NoError(t, store.UpdateItem(ctx, got))
	assert.Equal(t, 3, got.Version)

	stale.Name = "Projector old"
	assert.ErrorIs(t, store.UpdateItem(ctx, &stale), domain.ErrVersionConflict)

	missing := domain.Item{ID: 999999, Name: "x", CategoryID: cat.ID, Version: 1}
	assert.ErrorIs(t, store.UpdateItem(ctx, &missing), domain.ErrItemNotFound)

	require.NoError(t, store.DeleteItem(ctx, it.ID))
	_, err = store.GetItem(ctx, it.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.ErrorIs(t, store.DeleteItem(ctx, it.ID), domain.ErrItemNotFound)
}

func testCategories(t *testing.T, store *storage.SQLStore) {
	ctx := context.Background()
	f := fixtures{t, store}
	books := f.category("Reference Books")
	f.item(books.ID, "Atlas", 1, 0)

	exists, err := store.CategoryNameExists(ctx, "reference BOOKS", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.CategoryNameExists(ctx, "Reference Books", books.ID)
	require.NoError(t, err)
	assert.False(t, exists, "own name is excluded")

	got, err := store.GetCategory(ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ItemCount)

	has, err := store.CategoryHasItems(ctx, books.ID)
	require.NoError(t, err)
	assert.True(t, has)

	books.Description = "updated"
	require.NoError(t, store.UpdateCategory(ctx, books))
	require.NoError(t, store.UpdateCategory(ctx, books), "unchanged update still succeeds")
	assert.ErrorIs(t, store.UpdateCategory(ctx, &domain.Category{ID: 999999, Name: "nope"}), domain.ErrCategoryNotFound)

	empty := f.category("Empty Shelf")
	list, err := store.ListCategories(ctx)
	require.NoError(t, err)
	var names []string
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Empty Shelf")

	require.NoError(t, store.DeleteCategory(ctx, empty.ID))
	assert.ErrorIs(t, store.DeleteCategory(ctx, empty.ID), domain.ErrCategoryNotFound)
	_, err = store.GetCategory(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func testIssuanceRoundTrip(t *testing.T, store *storage.SQLStore) {
	ctx := context.Background()
	f := fixtures{t, store}
	cat := f.category("Round Trip")
	it := f.item(cat.ID, "Microscope", 5, 1)
	u := f.user("Ada", "Round", true)

	due := time.Now().Add(48 * time.Hour)
	rec := f.issuance(it.ID, u.ID, 2, time.Now(), &due, domain.IssuanceStatusIssued)
	assert.NotZero(t, rec.ID)

	got, err := store.GetIssuance(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Microscope", got.ItemName)
	assert.Equal(t, "Ada Round", got.UserName)
	assert.Equal(t, u.Email, got.UserEmail)
	assert.Equal(t, domain.IssuanceStatusIssued, got.Status)
	require.NotNil(t, got.ReturnDate)
	assert.WithinDuration(t, due, *got.ReturnDate, time.Second)

	has, err := store.ItemHasIssuances(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, has)

	err = store.WithinTx(ctx, func(tx port.Tx) error {
		locked, err := tx.LockIssuance(ctx, rec.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		locked.Status = domain.IssuanceStatusReturned
		locked.ReturnDate = &now
		locked.Notes = "back in one piece"
		return tx.UpdateIssuance(ctx, locked)
	})
	require.NoError(t, err)

	got, err = store.GetIssuance(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssuanceStatusReturned, got.Status)
	assert.Equal(t, "back in one piece", got.Notes)

	_, err = store.GetIssuance(ctx, 999999)
	assert.ErrorIs(t, err, domain.ErrIssuanceNotFound)
	assert.ErrorIs(t, store.UpdateIssuance(ctx, &domain.Issuance{ID: 999999, Status: domain.IssuanceStatusReturned}), domain.ErrIssuanceNotFound)
}

func testWithinTxRollback(t *testing.T, store *storage.SQLStore) {
	ctx := context.Background()
	f := fixtures{t, store}
	cat := f.category("Rollback")
	it := f.item(cat.ID, "Tripod", 4, 0)
	u := f.user("Rolf", "Back", true)

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx port.Tx) error {
		if _, err := tx.LockItem(ctx, it.ID); err != nil {
			return err
		}
		rec := &domain.Issuance{ItemID: it.ID, UserID: u.ID, QuantityIssued: 4, IssuedDate: time.Now(), Status: domain.IssuanceStatusIssued}
		if err := tx.CreateIssuance(ctx, rec); err != nil {
			return err
		}
		if err := tx.AdjustQuantity(ctx, it.ID, -4); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.GetItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	has, err := store.ItemHasIssuances(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

// testConcurrentIssue runs the issue sequence from many transactions at
// once. Each decides from its locked row, so stock never goes negative.
func testConcurrentIssue(t *testing.T, store *storage.SQLStore) {
	const (
		stock   = 10
		workers = 30
	)
	ctx := context.Background()
	f := fixtures{t, store}
	cat := f.category("Concurrent")
	it := f.item(cat.ID, "Calculator", stock, 2)
	u := f.user("Con", "Current", true)

	var (
		wg       sync.WaitGroup
		issued   atomic.Int32
		rejected atomic.Int32
		failures = make(chan error, workers)
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.WithinTx(ctx, func(tx port.Tx) error {
				if _, err := tx.GetUser(ctx, u.ID); err != nil {
					return err
				}
				locked, err := tx.LockItem(ctx, it.ID)
				if err != nil {
					return err
				}
				if !locked.HasQuantity(1) {
					return domain.ErrInsufficientStock
				}
				rec := &domain.Issuance{ItemID: it.ID, UserID: u.ID, QuantityIssued: 1, IssuedDate: time.Now(), Status: domain.IssuanceStatusIssued}
				if err := tx.CreateIssuance(ctx, rec); err != nil {
					return err
				}
				return tx.AdjustQuantity(ctx, it.ID, -1)
			})
			switch {
			case err == nil:
				issued.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				failures <- err
			}
		}()
	}
	wg.Wait()
	close(failures)

	for err := range failures {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(stock), issued.Load())
	assert.Equal(t, int32(workers-stock), rejected.Load())

	got, err := store.GetItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func testSearchItems(t *testing.T, store *storage.SQLStore) {
	ctx := context.Background()
	f := fixtures{t, store}
	cat := f.category("Paged")
	other := f.category("Other Paged")

	for i := 1; i <= 15; i++ {
		f.item(cat.ID, fmt.Sprintf("Paged item %02d", i), 10, 2)
	}
	f.item(other.ID, "Paged_low", 1, 3)
	f.item(other.ID, "Paged empty", 0, 3)

	page, err := store.SearchItems(ctx, domain.ItemFilter{CategoryID: cat.ID}, domain.PageRequest{Number: 2, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 15, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 5)
	assert.Equal(t, "Paged item 11", page.Items[0].Name)
	assert.Equal(t, "Paged item 15", page.Items[4].Name)

	page, err = store.SearchItems(ctx, domain.ItemFilter{Term: "PAGED ITEM 0"}, domain.PageRequest{Number: 1, Size: 50})
	require.NoError(t, err)
	assert.Equal(t, 9, page.TotalCount)

	// _ is matched literally, not as a wildcard.
	page, err = store.SearchItems(ctx, domain.ItemFilter{Term: "paged_"}, domain.PageRequest{Number: 1, Size: 50})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "Paged_low", page.Items[0].Name)

	page, err = store.SearchItems(ctx, domain.ItemFilter{CategoryID: other.ID, LowStockOnly: true}, domain.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "Paged_low", page.Items[0].Name)

	page, err = store.SearchItems(ctx, domain.ItemFilter{CategoryID: other.ID, OutOfStockOnly: true}, domain.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "Paged empty", page.Items[0].Name)

	low, err := store.LowStockItems(ctx, 0)
	require.NoError(t, err)
	for _, it := range low {
		assert.True(t, it.IsLowStock())
		assert.False(t, it.IsOutOfStock())
	}

	out, err := store.OutOfStockItems(ctx)
	require.NoError(t, err)
	for _, it := range out {
		assert.True(t, it.IsOutOfStock())
	}
}

func testSearchIssuancesAndStats(t *testing.T, store *storage.SQLStore) {
	ctx := context.Background()
	f := fixtures{t, store}
	cat := f.category("Search Issuances")
	cam := f.item(cat.ID, "Zoom Camera", 10, 0)
	mic := f.item(cat.ID, "Zoom Microphone", 10, 0)
	grace := f.user("Grace", "Searcher", true)
	alan := f.user("Alan", "Finder", true)

	now := time.Now().UTC()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	returned := now.Add(-time.Hour)

	overdue := f.issuance(cam.ID, grace.ID, 1, now.Add(-72*time.Hour), &past, domain.IssuanceStatusIssued)
	f.issuance(mic.ID, grace.ID, 1, now.Add(-48*time.Hour), &future, domain.IssuanceStatusIssued)
	f.issuance(cam.ID, alan.ID, 2, now.Add(-24*time.Hour), &returned, domain.IssuanceStatusReturned)
	latest := f.issuance(mic.ID, alan.ID, 1, now, nil, domain.IssuanceStatusIssued)

	page, err := store.SearchIssuances(ctx, domain.IssuanceFilter{Term: "zoom"}, domain.PageRequest{Number: 1, Size: 10})
	require.NoError(t, err)
	require.Equal(t, 4, page.TotalCount)
	assert.Equal(t, latest.ID, page.Items[0].ID, "newest first")

	page, err = store.SearchIssuances(ctx, domain.IssuanceFilter{Term: "searcher"}, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)

	page, err = store.SearchIssuances(ctx, domain.IssuanceFilter{Status: domain.IssuanceStatusOverdue, AsOf: now, UserID: grace.ID}, domain.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, overdue.ID, page.Items[0].ID)

	page, err = store.SearchIssuances(ctx, domain.IssuanceFilter{Status: domain.IssuanceStatusReturned, UserID: alan.ID}, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)

	from := now.Add(-49 * time.Hour)
	to := now.Add(-23 * time.Hour)
	page, err = store.SearchIssuances(ctx, domain.IssuanceFilter{Term: "zoom", From: &from, To: &to}, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)

	stats, err := store.IssuanceStats(ctx, now, grace.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssuanceStats{Total: 2, Active: 2, Overdue: 1}, stats)

	stats, err = store.IssuanceStats(ctx, now, alan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssuanceStats{Total: 2, Active: 1, Overdue: 0}, stats)

	overdueList, err := store.OverdueIssuances(ctx, now)
	require.NoError(t, err)
	var ids []int64
	for _, rec := range overdueList {
		ids = append(ids, rec.ID)
		assert.True(t, rec.IsOverdue(now))
	}
	assert.Contains(t, ids, overdue.ID)

	recent, err := store.RecentIssuances(ctx, alan.ID, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, latest.ID, recent[0].ID)

	all, err := store.AllIssuances(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 4)

	stock, err := store.StockStats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stock.TotalItems, 2)
}

func testUsers(t *testing.T, store *storage.SQLStore) {
	ctx := context.Background()
	f := fixtures{t, store}
	active := f.user("Lena", "Directory", true)
	f.user("Otto", "Directory", false)

	got, err := store.GetUser(ctx, active.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, domain.RoleUser, got.Role)

	_, err = store.GetUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	exists, err := store.UserEmailExists(ctx, "LENA.DIRECTORY@invenedu.test")
	require.NoError(t, err)
	assert.True(t, exists)

	users, err := store.ListUsers(ctx, "directory", false)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = store.ListUsers(ctx, "directory", true)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Lena", users[0].FirstName)

	n, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)
}
