package port

import (
	"context"
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
)

// ItemRepository is the stock ledger.
type ItemRepository interface {
	GetItem(ctx context.Context, id int64) (*domain.Item, error)

	// LockItem reads an item and, inside a transaction, holds its row lock
	// until commit or rollback.
	LockItem(ctx context.Context, id int64) (*domain.Item, error)

	// HasSufficientQuantity reports false for missing items. Inside a
	// transaction it is a locking read.
	HasSufficientQuantity(ctx context.Context, itemID int64, amount int) (bool, error)

	// AdjustQuantity applies quantity += delta without clamping. Callers
	// must check the locked row first for negative deltas.
	AdjustQuantity(ctx context.Context, itemID int64, delta int) error

	CreateItem(ctx context.Context, item *domain.Item) error

	// UpdateItem persists item fields with version check for optimistic locking
	UpdateItem(ctx context.Context, item *domain.Item) error

	DeleteItem(ctx context.Context, id int64) error
	ItemHasIssuances(ctx context.Context, id int64) (bool, error)
}

type CategoryRepository interface {
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CategoryNameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CategoryHasItems(ctx context.Context, id int64) (bool, error)
}

type IssuanceRepository interface {
	GetIssuance(ctx context.Context, id int64) (*domain.Issuance, error)
	LockIssuance(ctx context.Context, id int64) (*domain.Issuance, error)
	CreateIssuance(ctx context.Context, rec *domain.Issuance) error

	// UpdateIssuance writes status, return date and notes.
	UpdateIssuance(ctx context.Context, rec *domain.Issuance) error
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UserEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *domain.User) error
	ListUsers(ctx context.Context, term string, activeOnly bool) ([]domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// QueryRepository is the read side: searches, lists and aggregates.
type QueryRepository interface {
	SearchItems(ctx context.Context, f domain.ItemFilter, p domain.PageRequest) (domain.Page[domain.Item], error)
	SearchIssuances(ctx context.Context, f domain.IssuanceFilter, p domain.PageRequest) (domain.Page[domain.Issuance], error)
	AllItems(ctx context.Context) ([]domain.Item, error)
	AllIssuances(ctx context.Context) ([]domain.Issuance, error)
	LowStockItems(ctx context.Context, limit int) ([]domain.Item, error)
	OutOfStockItems(ctx context.Context) ([]domain.Item, error)
	OverdueIssuances(ctx context.Context, now time.Time) ([]domain.Issuance, error)
	RecentIssuances(ctx context.Context, userID string, limit int) ([]domain.Issuance, error)

	// IssuanceStats aggregates all records, or one user's when userID is set.
	IssuanceStats(ctx context.Context, now time.Time, userID string) (domain.IssuanceStats, error)
	StockStats(ctx context.Context) (domain.StockStats, error)
}

type Repository interface {
	ItemRepository
	CategoryRepository
	IssuanceRepository
	UserRepository
	QueryRepository
}

// Tx is a repository bound to one database transaction.
type Tx interface {
	Repository
}

// Store is the unit-of-work boundary. Everything fn writes through tx is
// committed together, or rolled back when fn returns an error.
type Store interface {
	Repository
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}
