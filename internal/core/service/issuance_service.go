package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/logger"
	"github.com/rl1809/invenedu/internal/metrics"
	"github.com/rl1809/invenedu/internal/port"
)

// IssuanceService moves stock out to users and back. Every operation that
// touches quantity writes the record and the ledger in one transaction.
type IssuanceService struct {
	store port.Store
	now   func() time.Time
}

func NewIssuanceService(store port.Store) *IssuanceService {
	return &IssuanceService{store: store, now: time.Now}
}

func (s *IssuanceService) GetIssuance(ctx context.Context, id int64) (*domain.Issuance, error) {
	return s.store.GetIssuance(ctx, id)
}

// Issue lends req.Quantity units of an item to a user. It is not idempotent:
// two calls create two records.
func (s *IssuanceService) Issue(ctx context.Context, req domain.IssueRequest) (*domain.Issuance, error) {
	ctx, span := tracer.Start(ctx, "IssuanceService.Issue")
	span.SetAttributes(
		attribute.Int64("item.id", req.ItemID),
		attribute.String("user.id", req.UserID),
		attribute.Int("quantity", req.Quantity),
	)

	rec, err := s.issue(ctx, req)
	finishSpan(span, err)
	metrics.IssuancesTotal.WithLabelValues(outcome(err)).Inc()

	if err != nil {
		logFailure(ctx, "issue rejected", err, "item_id", req.ItemID, "user_id", req.UserID, "quantity", req.Quantity)
		return nil, err
	}

	metrics.UnitsIssued.Add(float64(req.Quantity))
	logger.FromContext(ctx).Info("item issued",
		"issuance_id", rec.ID, "item_id", rec.ItemID, "user_id", rec.UserID, "quantity", rec.QuantityIssued)
	return rec, nil
}

func (s *IssuanceService) issue(ctx context.Context, req domain.IssueRequest) (*domain.Issuance, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	rec := &domain.Issuance{
		ItemID:         req.ItemID,
		UserID:         req.UserID,
		QuantityIssued: req.Quantity,
		IssuedDate:     s.now(),
		ReturnDate:     req.ExpectedReturnDate,
		Status:         domain.IssuanceStatusIssued,
		Notes:          req.Notes,
	}

	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		user, err := tx.GetUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return domain.NewValidationError("user_id", domain.ErrUserInactive.Error())
		}

		// The locked row is the latest committed quantity. A plain read here
		// could still see the snapshot taken by GetUser under REPEATABLE READ.
		item, err := tx.LockItem(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if !item.HasQuantity(req.Quantity) {
			return domain.ErrInsufficientStock
		}

		if err := tx.CreateIssuance(ctx, rec); err != nil {
			return err
		}
		return tx.AdjustQuantity(ctx, req.ItemID, -req.Quantity)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, rec)
}

// MarkReturned closes an open or lost record and restores its quantity.
// Returning a record twice fails with ErrAlreadyReturned and changes nothing.
func (s *IssuanceService) MarkReturned(ctx context.Context, id int64) (*domain.Issuance, error) {
	ctx, span := tracer.Start(ctx, "IssuanceService.MarkReturned")
	span.SetAttributes(attribute.Int64("issuance.id", id))

	var rec *domain.Issuance
	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		var err error
		if rec, err = tx.LockIssuance(ctx, id); err != nil {
			return err
		}
		if rec.Status == domain.IssuanceStatusReturned {
			return domain.ErrAlreadyReturned
		}

		now := s.now()
		rec.Status = domain.IssuanceStatusReturned
		rec.ReturnDate = &now
		if err := tx.UpdateIssuance(ctx, rec); err != nil {
			return err
		}
		return tx.AdjustQuantity(ctx, rec.ItemID, rec.QuantityIssued)
	})
	finishSpan(span, err)
	metrics.ReturnsTotal.WithLabelValues(outcome(err)).Inc()

	if err != nil {
		logFailure(ctx, "return rejected", err, "issuance_id", id)
		return nil, err
	}

	metrics.UnitsReturned.Add(float64(rec.QuantityIssued))
	logger.FromContext(ctx).Info("item returned",
		"issuance_id", id, "item_id", rec.ItemID, "quantity", rec.QuantityIssued)
	return s.reload(ctx, rec)
}

// MarkLost closes an open record without restoring stock.
func (s *IssuanceService) MarkLost(ctx context.Context, id int64, notes string) (*domain.Issuance, error) {
	if err := domain.Validate(domain.IssuanceUpdate{Notes: notes}); err != nil {
		return nil, err
	}

	var rec *domain.Issuance
	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		var err error
		if rec, err = tx.LockIssuance(ctx, id); err != nil {
			return err
		}
		switch rec.Status {
		case domain.IssuanceStatusReturned:
			return domain.ErrAlreadyReturned
		case domain.IssuanceStatusLost:
			return domain.ErrNotIssued
		}

		rec.Status = domain.IssuanceStatusLost
		if notes != "" {
			rec.Notes = notes
		}
		return tx.UpdateIssuance(ctx, rec)
	})
	if err != nil {
		logFailure(ctx, "mark lost rejected", err, "issuance_id", id)
		return nil, err
	}

	logger.FromContext(ctx).Info("issuance marked lost", "issuance_id", id, "item_id", rec.ItemID)
	return s.reload(ctx, rec)
}

// UpdateIssuance edits the expected return date and notes of an open record.
func (s *IssuanceService) UpdateIssuance(ctx context.Context, id int64, upd domain.IssuanceUpdate) (*domain.Issuance, error) {
	if err := domain.Validate(upd); err != nil {
		return nil, err
	}

	var rec *domain.Issuance
	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		var err error
		if rec, err = tx.LockIssuance(ctx, id); err != nil {
			return err
		}
		if rec.Status != domain.IssuanceStatusIssued {
			return domain.ErrNotIssued
		}

		rec.ReturnDate = upd.ExpectedReturnDate
		rec.Notes = upd.Notes
		return tx.UpdateIssuance(ctx, rec)
	})
	if err != nil {
		logFailure(ctx, "update issuance rejected", err, "issuance_id", id)
		return nil, err
	}

	logger.FromContext(ctx).Info("issuance updated", "issuance_id", id)
	return s.reload(ctx, rec)
}

// reload reads the committed record with item and user names. If that read
// fails the write has still happened, so the bare record is returned.
func (s *IssuanceService) reload(ctx context.Context, rec *domain.Issuance) (*domain.Issuance, error) {
	full, err := s.store.GetIssuance(ctx, rec.ID)
	if err != nil {
		logger.FromContext(ctx).Warn("reload issuance failed", "issuance_id", rec.ID, "error", err)
		return rec, nil
	}
	return full, nil
}
