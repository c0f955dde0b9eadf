package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/logger"
)

// MetadataUserID carries the caller identity on gRPC requests.
const MetadataUserID = "x-user-id"

type GRPCHandler struct {
	engine  Engine
	queries Queries
	users   Directory
}

func NewGRPCHandler(engine Engine, queries Queries, users Directory) *GRPCHandler {
	return &GRPCHandler{engine: engine, queries: queries, users: users}
}

// UnaryAuthInterceptor resolves the caller from metadata before any method runs.
func (h *GRPCHandler) UnaryAuthInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())

		md, _ := metadata.FromIncomingContext(ctx)
		var id string
		if vals := md.Get(MetadataUserID); len(vals) > 0 {
			id = strings.TrimSpace(vals[0])
		}

		user, err := h.users.Authenticate(ctx, id)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, status.Error(codes.Unauthenticated, "authentication required")
		case errors.Is(err, domain.ErrUserInactive):
			return nil, status.Error(codes.PermissionDenied, "user account is inactive")
		case err != nil:
			logger.FromContext(ctx).Error("grpc authentication failed", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unavailable, "identity lookup failed")
		}

		return next(withUser(ctx, user), req)
	}
}

func requireAdminRPC(ctx context.Context) (*domain.User, error) {
	user, ok := CurrentUser(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	if !user.IsAdmin() {
		return nil, status.Error(codes.PermissionDenied, "admin role required")
	}
	return user, nil
}

// failureMessage reports business rejections in the response body; store
// faults collapse to "internal error".
func failureMessage(ctx context.Context, method string, err error) string {
	code, message := mapServiceError(err)
	if code == http.StatusInternalServerError {
		logger.FromContext(ctx).Error("grpc request failed", "method", method, "error", err)
	}
	return message
}

func (h *GRPCHandler) Issue(ctx context.Context, req *IssueRPCRequest) (*IssuanceRPCResponse, error) {
	if _, err := requireAdminRPC(ctx); err != nil {
		return nil, err
	}

	rec, err := h.engine.Issue(ctx, domain.IssueRequest{
		ItemID:             req.ItemId,
		UserID:             req.UserId,
		Quantity:           int(req.Quantity),
		ExpectedReturnDate: req.ExpectedReturnDate,
		Notes:              req.Notes,
	})
	if err != nil {
		return &IssuanceRPCResponse{
			Success: false,
			Message: failureMessage(ctx, "Issue", err),
		}, nil
	}

	resp := newIssuanceResponse(*rec, h.queries.Now())
	return &IssuanceRPCResponse{
		Success:  true,
		Message:  "item issued successfully",
		Issuance: &resp,
	}, nil
}

func (h *GRPCHandler) MarkReturned(ctx context.Context, req *ReturnRPCRequest) (*IssuanceRPCResponse, error) {
	if _, err := requireAdminRPC(ctx); err != nil {
		return nil, err
	}

	rec, err := h.engine.MarkReturned(ctx, req.IssuanceId)
	if err != nil {
		return &IssuanceRPCResponse{
			Success: false,
			Message: failureMessage(ctx, "MarkReturned", err),
		}, nil
	}

	resp := newIssuanceResponse(*rec, h.queries.Now())
	return &IssuanceRPCResponse{
		Success:  true,
		Message:  "item returned successfully",
		Issuance: &resp,
	}, nil
}

func (h *GRPCHandler) GetStatistics(ctx context.Context, _ *StatisticsRPCRequest) (*StatisticsRPCResponse, error) {
	if _, err := requireAdminRPC(ctx); err != nil {
		return nil, err
	}

	stats, err := h.queries.Statistics(ctx)
	if err != nil {
		return &StatisticsRPCResponse{Message: failureMessage(ctx, "GetStatistics", err)}, nil
	}

	resp := newStatisticsResponse(stats)
	return &StatisticsRPCResponse{Success: true, Message: "ok", Statistics: &resp}, nil
}

func (h *GRPCHandler) SearchItems(ctx context.Context, req *SearchItemsRPCRequest) (*SearchItemsRPCResponse, error) {
	filter := domain.ItemFilter{
		Term:           strings.TrimSpace(req.Term),
		CategoryID:     req.CategoryId,
		LowStockOnly:   req.LowStockOnly,
		OutOfStockOnly: req.OutOfStockOnly,
	}
	page := domain.PageRequest{Number: int(req.Page), Size: int(req.PageSize)}

	result, err := h.queries.SearchItems(ctx, filter, page)
	if err != nil {
		return &SearchItemsRPCResponse{Message: failureMessage(ctx, "SearchItems", err)}, nil
	}

	resp := newPageResponse(result, newItemResponse)
	return &SearchItemsRPCResponse{Success: true, Message: "ok", Result: &resp}, nil
}

// SearchIssuances lets admins search everything; other callers only see
// their own records.
func (h *GRPCHandler) SearchIssuances(ctx context.Context, req *SearchIssuancesRPCRequest) (*SearchIssuancesRPCResponse, error) {
	user, ok := CurrentUser(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}

	filter := domain.IssuanceFilter{
		Term:   strings.TrimSpace(req.Term),
		UserID: req.UserId,
		From:   req.From,
		To:     req.To,
	}
	if !user.IsAdmin() {
		filter.UserID = user.ID
	}
	if req.Status != "" {
		st, err := domain.ParseIssuanceStatus(req.Status)
		if err != nil {
			return &SearchIssuancesRPCResponse{Message: failureMessage(ctx, "SearchIssuances", err)}, nil
		}
		filter.Status = st
	}
	page := domain.PageRequest{Number: int(req.Page), Size: int(req.PageSize)}

	result, err := h.queries.SearchIssuances(ctx, filter, page)
	if err != nil {
		return &SearchIssuancesRPCResponse{Message: failureMessage(ctx, "SearchIssuances", err)}, nil
	}

	now := h.queries.Now()
	resp := newPageResponse(result, func(rec domain.Issuance) IssuanceResponse {
		return newIssuanceResponse(rec, now)
	})
	return &SearchIssuancesRPCResponse{Success: true, Message: "ok", Result: &resp}, nil
}
