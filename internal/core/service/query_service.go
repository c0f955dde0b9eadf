package service

import (
	"context"
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/port"
)

const (
	adminRecentIssuances = 5
	adminLowStockItems   = 5
	userRecentIssuances  = 10
)

// QueryService is the read side. Every figure is recomputed per call.
type QueryService struct {
	store    port.Store
	pageSize int
	now      func() time.Time
}

func NewQueryService(store port.Store, pageSize int) *QueryService {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &QueryService{store: store, pageSize: pageSize, now: time.Now}
}

func (s *QueryService) SearchItems(ctx context.Context, f domain.ItemFilter, p domain.PageRequest) (domain.Page[domain.Item], error) {
	ctx, span := tracer.Start(ctx, "QueryService.SearchItems")
	page, err := s.store.SearchItems(ctx, f, p.Normalize(s.pageSize))
	finishSpan(span, err)
	return page, err
}

// SearchIssuances evaluates the Overdue status filter against the current time
// unless f.AsOf is set.
func (s *QueryService) SearchIssuances(ctx context.Context, f domain.IssuanceFilter, p domain.PageRequest) (domain.Page[domain.Issuance], error) {
	ctx, span := tracer.Start(ctx, "QueryService.SearchIssuances")
	if f.AsOf.IsZero() {
		f.AsOf = s.now()
	}
	page, err := s.store.SearchIssuances(ctx, f, p.Normalize(s.pageSize))
	finishSpan(span, err)
	return page, err
}

// UserIssuances is one user's history, optionally narrowed by status.
func (s *QueryService) UserIssuances(ctx context.Context, userID string, status domain.IssuanceStatus, p domain.PageRequest) (domain.Page[domain.Issuance], error) {
	return s.SearchIssuances(ctx, domain.IssuanceFilter{UserID: userID, Status: status}, p)
}

func (s *QueryService) Statistics(ctx context.Context) (domain.Statistics, error) {
	var stats domain.Statistics

	issuances, err := s.store.IssuanceStats(ctx, s.now(), "")
	if err != nil {
		return stats, err
	}
	stock, err := s.store.StockStats(ctx)
	if err != nil {
		return stats, err
	}

	stats.IssuanceStats = issuances
	stats.StockStats = stock
	return stats, nil
}

func (s *QueryService) AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error) {
	stats, err := s.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.store.RecentIssuances(ctx, "", adminRecentIssuances)
	if err != nil {
		return nil, err
	}

	low, err := s.store.LowStockItems(ctx, adminLowStockItems)
	if err != nil {
		return nil, err
	}

	return &domain.AdminDashboard{
		Statistics:      stats,
		TotalUsers:      users,
		RecentIssuances: recent,
		LowStockItems:   low,
	}, nil
}

func (s *QueryService) UserDashboard(ctx context.Context, userID string) (*domain.UserDashboard, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats, err := s.store.IssuanceStats(ctx, now, userID)
	if err != nil {
		return nil, err
	}

	active, err := s.store.SearchIssuances(ctx,
		domain.IssuanceFilter{UserID: userID, Status: domain.IssuanceStatusIssued, AsOf: now},
		domain.PageRequest{Number: 1, Size: domain.MaxPageSize})
	if err != nil {
		return nil, err
	}

	recent, err := s.store.RecentIssuances(ctx, userID, userRecentIssuances)
	if err != nil {
		return nil, err
	}

	return &domain.UserDashboard{
		UserName:         user.FullName(),
		TotalIssuances:   stats.Total,
		CurrentlyHolding: stats.Active,
		Overdue:          stats.Overdue,
		ActiveIssuances:  active.Items,
		RecentIssuances:  recent,
	}, nil
}

func (s *QueryService) LowStockItems(ctx context.Context) ([]domain.Item, error) {
	return s.store.LowStockItems(ctx, 0)
}

func (s *QueryService) OutOfStockItems(ctx context.Context) ([]domain.Item, error) {
	return s.store.OutOfStockItems(ctx)
}

func (s *QueryService) OverdueIssuances(ctx context.Context) ([]domain.Issuance, error) {
	return s.store.OverdueIssuances(ctx, s.now())
}

func (s *QueryService) RecentIssuances(ctx context.Context, n int) ([]domain.Issuance, error) {
	if n <= 0 {
		n = adminRecentIssuances
	}
	return s.store.RecentIssuances(ctx, "", n)
}

func (s *QueryService) InventoryReport(ctx context.Context) ([]domain.Item, error) {
	return s.store.AllItems(ctx)
}

func (s *QueryService) IssuanceReport(ctx context.Context) ([]domain.Issuance, error) {
	return s.store.AllIssuances(ctx)
}

// Now is the clock used for derived statuses.
func (s *QueryService) Now() time.Time {
	return s.now()
}
