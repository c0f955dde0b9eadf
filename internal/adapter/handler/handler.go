package handler

import (
	"context"
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
)

// Ledger manages inventory items.
type Ledger interface {
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	CreateItem(ctx context.Context, in domain.ItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, id int64, version int, in domain.ItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	AdjustQuantity(ctx context.Context, itemID int64, delta int) (*domain.Item, error)
}

type Categories interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// Engine issues and returns stock.
type Engine interface {
	GetIssuance(ctx context.Context, id int64) (*domain.Issuance, error)
	Issue(ctx context.Context, req domain.IssueRequest) (*domain.Issuance, error)
	MarkReturned(ctx context.Context, id int64) (*domain.Issuance, error)
	MarkLost(ctx context.Context, id int64, notes string) (*domain.Issuance, error)
	UpdateIssuance(ctx context.Context, id int64, upd domain.IssuanceUpdate) (*domain.Issuance, error)
}

type Queries interface {
	SearchItems(ctx context.Context, f domain.ItemFilter, p domain.PageRequest) (domain.Page[domain.Item], error)
	SearchIssuances(ctx context.Context, f domain.IssuanceFilter, p domain.PageRequest) (domain.Page[domain.Issuance], error)
	UserIssuances(ctx context.Context, userID string, status domain.IssuanceStatus, p domain.PageRequest) (domain.Page[domain.Issuance], error)
	Statistics(ctx context.Context) (domain.Statistics, error)
	AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error)
	UserDashboard(ctx context.Context, userID string) (*domain.UserDashboard, error)
	LowStockItems(ctx context.Context) ([]domain.Item, error)
	OutOfStockItems(ctx context.Context) ([]domain.Item, error)
	OverdueIssuances(ctx context.Context) ([]domain.Issuance, error)
	InventoryReport(ctx context.Context) ([]domain.Item, error)
	IssuanceReport(ctx context.Context) ([]domain.Issuance, error)
	Now() time.Time
}

// Directory resolves callers and manages user accounts.
type Directory interface {
	Authenticate(ctx context.Context, id string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context, term string, activeOnly bool) ([]domain.User, error)
	CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type userCtxKey struct{}

func withUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// CurrentUser returns the authenticated caller.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*domain.User)
	return u, ok && u != nil
}
