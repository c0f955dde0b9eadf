package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rl1809/invenedu/internal/core/domain"
)

type mockLedger struct{ mock.Mock }

func (m *mockLedger) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*domain.Item)
	return it, args.Error(1)
}

func (m *mockLedger) CreateItem(ctx context.Context, in domain.ItemInput) (*domain.Item, error) {
	args := m.Called(ctx, in)
	it, _ := args.Get(0).(*domain.Item)
	return it, args.Error(1)
}

func (m *mockLedger) UpdateItem(ctx context.Context, id int64, version int, in domain.ItemInput) (*domain.Item, error) {
	args := m.Called(ctx, id, version, in)
	it, _ := args.Get(0).(*domain.Item)
	return it, args.Error(1)
}

func (m *mockLedger) DeleteItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLedger) AdjustQuantity(ctx context.Context, itemID int64, delta int) (*domain.Item, error) {
	args := m.Called(ctx, itemID, delta)
	it, _ := args.Get(0).(*domain.Item)
	return it, args.Error(1)
}

type mockCategories struct{ mock.Mock }

func (m *mockCategories) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]domain.Category)
	return cs, args.Error(1)
}

func (m *mockCategories) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domain.Category)
	return c, args.Error(1)
}

func (m *mockCategories) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*domain.Category)
	return c, args.Error(1)
}

func (m *mockCategories) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	args := m.Called(ctx, id, in)
	c, _ := args.Get(0).(*domain.Category)
	return c, args.Error(1)
}

func (m *mockCategories) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockEngine struct{ mock.Mock }

func (m *mockEngine) GetIssuance(ctx context.Context, id int64) (*domain.Issuance, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*domain.Issuance)
	return rec, args.Error(1)
}

func (m *mockEngine) Issue(ctx context.Context, req domain.IssueRequest) (*domain.Issuance, error) {
	args := m.Called(ctx, req)
	rec, _ := args.Get(0).(*domain.Issuance)
	return rec, args.Error(1)
}

func (m *mockEngine) MarkReturned(ctx context.Context, id int64) (*domain.Issuance, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*domain.Issuance)
	return rec, args.Error(1)
}

func (m *mockEngine) MarkLost(ctx context.Context, id int64, notes string) (*domain.Issuance, error) {
	args := m.Called(ctx, id, notes)
	rec, _ := args.Get(0).(*domain.Issuance)
	return rec, args.Error(1)
}

func (m *mockEngine) UpdateIssuance(ctx context.Context, id int64, upd domain.IssuanceUpdate) (*domain.Issuance, error) {
	args := m.Called(ctx, id, upd)
	rec, _ := args.Get(0).(*domain.Issuance)
	return rec, args.Error(1)
}

// mockQueries answers Now from a fixed field so tests only set up the calls
// they care about.
type mockQueries struct {
	mock.Mock
	now time.Time
}

func (m *mockQueries) SearchItems(ctx context.Context, f domain.ItemFilter, p domain.PageRequest) (domain.Page[domain.Item], error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).(domain.Page[domain.Item]), args.Error(1)
}

func (m *mockQueries) SearchIssuances(ctx context.Context, f domain.IssuanceFilter, p domain.PageRequest) (domain.Page[domain.Issuance], error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).(domain.Page[domain.Issuance]), args.Error(1)
}

func (m *mockQueries) UserIssuances(ctx context.Context, userID string, status domain.IssuanceStatus, p domain.PageRequest) (domain.Page[domain.Issuance], error) {
	args := m.Called(ctx, userID, status, p)
	return args.Get(0).(domain.Page[domain.Issuance]), args.Error(1)
}

func (m *mockQueries) Statistics(ctx context.Context) (domain.Statistics, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Statistics), args.Error(1)
}

func (m *mockQueries) AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(*domain.AdminDashboard)
	return d, args.Error(1)
}

func (m *mockQueries) UserDashboard(ctx context.Context, userID string) (*domain.UserDashboard, error) {
	args := m.Called(ctx, userID)
	d, _ := args.Get(0).(*domain.UserDashboard)
	return d, args.Error(1)
}

func (m *mockQueries) LowStockItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.Item)
	return items, args.Error(1)
}

func (m *mockQueries) OutOfStockItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.Item)
	return items, args.Error(1)
}

func (m *mockQueries) OverdueIssuances(ctx context.Context) ([]domain.Issuance, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]domain.Issuance)
	return recs, args.Error(1)
}

func (m *mockQueries) InventoryReport(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.Item)
	return items, args.Error(1)
}

func (m *mockQueries) IssuanceReport(ctx context.Context) ([]domain.Issuance, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]domain.Issuance)
	return recs, args.Error(1)
}

func (m *mockQueries) Now() time.Time {
	return m.now
}

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) Authenticate(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockDirectory) GetUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockDirectory) ListUsers(ctx context.Context, term string, activeOnly bool) ([]domain.User, error) {
	args := m.Called(ctx, term, activeOnly)
	us, _ := args.Get(0).([]domain.User)
	return us, args.Error(1)
}

func (m *mockDirectory) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type mockGuard struct{ mock.Mock }

func (m *mockGuard) Claim(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockGuard) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockPinger struct{ err error }

func (p mockPinger) Ping(context.Context) error { return p.err }
