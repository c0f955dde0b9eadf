package handler

import (
	"time"

	"github.com/rl1809/invenedu/internal/core/domain"
)

type ItemRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Quantity     int    `json:"quantity"`
	CategoryID   int64  `json:"category_id"`
	MinimumStock int    `json:"minimum_stock"`
}

func (r ItemRequest) input() domain.ItemInput {
	return domain.ItemInput{
		Name:         r.Name,
		Description:  r.Description,
		Quantity:     r.Quantity,
		CategoryID:   r.CategoryID,
		MinimumStock: r.MinimumStock,
	}
}

type UpdateItemRequest struct {
	ItemRequest
	Version int `json:"version" validate:"required,min=1"`
}

type AdjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type IssueHTTPRequest struct {
	ItemID             int64      `json:"item_id"`
	UserID             string     `json:"user_id"`
	Quantity           int        `json:"quantity"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	Notes              string     `json:"notes"`
}

type UpdateIssuanceRequest struct {
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	Notes              string     `json:"notes"`
}

type MarkLostRequest struct {
	Notes string `json:"notes"`
}

type CreateUserRequest struct {
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  *bool       `json:"is_active,omitempty"`
}

type ItemResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Quantity     int       `json:"quantity"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name"`
	MinimumStock int       `json:"minimum_stock"`
	Version      int       `json:"version"`
	IsLowStock   bool      `json:"is_low_stock"`
	IsOutOfStock bool      `json:"is_out_of_stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newItemResponse(it domain.Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID,
		Name:         it.Name,
		Description:  it.Description,
		Quantity:     it.Quantity,
		CategoryID:   it.CategoryID,
		CategoryName: it.CategoryName,
		MinimumStock: it.MinimumStock,
		Version:      it.Version,
		IsLowStock:   it.IsLowStock(),
		IsOutOfStock: it.IsOutOfStock(),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func newItemResponses(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, newItemResponse(it))
	}
	return out
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func newCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ItemCount:   c.ItemCount,
		CreatedAt:   c.CreatedAt,
	}
}

// IssuanceResponse carries both the stored status and the status as of the
// response time, which reports Overdue for late open records.
type IssuanceResponse struct {
	ID             int64                 `json:"id"`
	ItemID         int64                 `json:"item_id"`
	ItemName       string                `json:"item_name"`
	UserID         string                `json:"user_id"`
	UserName       string                `json:"user_name"`
	UserEmail      string                `json:"user_email"`
	QuantityIssued int                   `json:"quantity_issued"`
	IssuedDate     time.Time             `json:"issued_date"`
	ReturnDate     *time.Time            `json:"return_date,omitempty"`
	Status         domain.IssuanceStatus `json:"status"`
	DisplayStatus  domain.IssuanceStatus `json:"display_status"`
	IsOverdue      bool                  `json:"is_overdue"`
	Notes          string                `json:"notes"`
}

func newIssuanceResponse(rec domain.Issuance, now time.Time) IssuanceResponse {
	return IssuanceResponse{
		ID:             rec.ID,
		ItemID:         rec.ItemID,
		ItemName:       rec.ItemName,
		UserID:         rec.UserID,
		UserName:       rec.UserName,
		UserEmail:      rec.UserEmail,
		QuantityIssued: rec.QuantityIssued,
		IssuedDate:     rec.IssuedDate,
		ReturnDate:     rec.ReturnDate,
		Status:         rec.Status,
		DisplayStatus:  rec.DisplayStatus(now),
		IsOverdue:      rec.IsOverdue(now),
		Notes:          rec.Notes,
	}
}

func newIssuanceResponses(recs []domain.Issuance, now time.Time) []IssuanceResponse {
	out := make([]IssuanceResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, newIssuanceResponse(rec, now))
	}
	return out
}

type UserResponse struct {
	ID            string      `json:"id"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	Email         string      `json:"email"`
	IsActive      bool        `json:"is_active"`
	Role          domain.Role `json:"role"`
	IssuanceCount int         `json:"issuance_count"`
	CreatedAt     time.Time   `json:"created_at"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		IsActive:      u.IsActive,
		Role:          u.Role,
		IssuanceCount: u.IssuanceCount,
		CreatedAt:     u.CreatedAt,
	}
}

type PageResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

func newPageResponse[S, T any](p domain.Page[S], convert func(S) T) PageResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, convert(it))
	}
	return PageResponse[T]{
		Items:      items,
		TotalCount: p.TotalCount,
		Page:       p.Number,
		PageSize:   p.Size,
		TotalPages: p.TotalPages(),
	}
}

type StatisticsResponse struct {
	TotalIssuances   int `json:"total_issuances"`
	ActiveIssuances  int `json:"active_issuances"`
	OverdueIssuances int `json:"overdue_issuances"`
	TotalItems       int `json:"total_items"`
	LowStockCount    int `json:"low_stock_count"`
	OutOfStockCount  int `json:"out_of_stock_count"`
}

func newStatisticsResponse(s domain.Statistics) StatisticsResponse {
	return StatisticsResponse{
		TotalIssuances:   s.Total,
		ActiveIssuances:  s.Active,
		OverdueIssuances: s.Overdue,
		TotalItems:       s.TotalItems,
		LowStockCount:    s.LowStock,
		OutOfStockCount:  s.OutOfStock,
	}
}

type AdminDashboardResponse struct {
	StatisticsResponse
	TotalUsers      int                `json:"total_users"`
	RecentIssuances []IssuanceResponse `json:"recent_issuances"`
	LowStockItems   []ItemResponse     `json:"low_stock_items"`
}

type UserDashboardResponse struct {
	UserName         string             `json:"user_name"`
	TotalIssuances   int                `json:"total_issuances"`
	CurrentlyHolding int                `json:"currently_holding"`
	Overdue          int                `json:"overdue"`
	ActiveIssuances  []IssuanceResponse `json:"active_issuances"`
	RecentIssuances  []IssuanceResponse `json:"recent_issuances"`
}
