package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rl1809/invenedu/internal/adapter/storage/storagetest"
	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/port"
)

type testEnv struct {
	t          *testing.T
	store      port.Store
	ledger     *LedgerService
	categories *CategoryService
	issuances  *IssuanceService
	queries    *QueryService
	directory  *DirectoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, storagetest.NewSQLite(t))
}

func newTestEnvWithStore(t *testing.T, store port.Store) *testEnv {
	return &testEnv{
		t:          t,
		store:      store,
		ledger:     NewLedgerService(store),
		categories: NewCategoryService(store),
		issuances:  NewIssuanceService(store),
		queries:    NewQueryService(store, 10),
		directory:  NewDirectoryService(store),
	}
}

func (e *testEnv) category(name string) *domain.Category {
	e.t.Helper()
	c, err := e.categories.CreateCategory(context.Background(), domain.CategoryInput{Name: name})
	require.NoError(e.t, err)
	return c
}

func (e *testEnv) item(categoryID int64, name string, quantity, minimum int) *domain.Item {
	e.t.Helper()
	it, err := e.ledger.CreateItem(context.Background(), domain.ItemInput{
		Name:         name,
		Quantity:     quantity,
		CategoryID:   categoryID,
		MinimumStock: minimum,
	})
	require.NoError(e.t, err)
	return it
}

var userSeq int

func (e *testEnv) user(active bool) *domain.User {
	e.t.Helper()
	userSeq++
	u, err := e.directory.CreateUser(context.Background(), domain.UserInput{
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", userSeq),
		Email:     fmt.Sprintf("user%d@invenedu.test", userSeq),
		Role:      domain.RoleUser,
		IsActive:  active,
	})
	require.NoError(e.t, err)
	return u
}

func (e *testEnv) quantity(itemID int64) int {
	e.t.Helper()
	it, err := e.ledger.GetItem(context.Background(), itemID)
	require.NoError(e.t, err)
	return it.Quantity
}

// failingStore hands out transactions whose AdjustQuantity always fails,
// after the issuance row has already been written.
type failingStore struct {
	port.Store
	err error
}

func (s *failingStore) WithinTx(ctx context.Context, fn func(tx port.Tx) error) error {
	return s.Store.WithinTx(ctx, func(tx port.Tx) error {
		return fn(failingTx{Tx: tx, err: s.err})
	})
}

type failingTx struct {
	port.Tx
	err error
}

func (t failingTx) AdjustQuantity(context.Context, int64, int) error {
	return t.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// snapshotStore answers plain item reads from a stale quantity, the way a
// REPEATABLE READ transaction does once its snapshot predates another
// commit. Locking reads and writes reach the real store.
type snapshotStore struct {
	port.Store
	quantity int
}

func (s *snapshotStore) WithinTx(ctx context.Context, fn func(tx port.Tx) error) error {
	return s.Store.WithinTx(ctx, func(tx port.Tx) error {
		return fn(snapshotTx{Tx: tx, quantity: s.quantity})
	})
}

type snapshotTx struct {
	port.Tx
	quantity int
}

func (t snapshotTx) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	it, err := t.Tx.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	it.Quantity = t.quantity
	return it, nil
}

func (t snapshotTx) HasSufficientQuantity(context.Context, int64, int) (bool, error) {
	return true, nil
}
