package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/logger"
	"github.com/rl1809/invenedu/internal/metrics"
)

var tracer = otel.Tracer("github.com/rl1809/invenedu/internal/core/service")

// finishSpan records err on span unless it is an expected business rejection.
func finishSpan(span trace.Span, err error) {
	if err != nil && errors.Is(err, domain.ErrStore) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.OutcomeInsufficientStock
	case errors.Is(err, domain.ErrAlreadyReturned):
		return metrics.OutcomeAlreadyReturned
	case errors.Is(err, domain.ErrStore):
		return metrics.OutcomeError
	default:
		return metrics.OutcomeRejected
	}
}

// logFailure logs store faults at Error and business rejections at Warn.
func logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, domain.ErrStore) {
		logger.FromContext(ctx).Error(msg, args...)
		return
	}
	logger.FromContext(ctx).Warn(msg, args...)
}
