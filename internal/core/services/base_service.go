package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/core/domain"
	portsrepo "github.com/SscSPs/iptv_reseller_app/internal/core/ports/repositories"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/SscSPs/iptv_reseller_app/internal/middleware"
	"github.com/SscSPs/iptv_reseller_app/internal/platform/metrics"
	"github.com/SscSPs/iptv_reseller_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Metrics *metrics.Metrics
	clock   func() time.Time
}

// ServiceOption is a functional option shared by every service constructor
type ServiceOption func(*BaseService)

// WithMetrics records domain counters on m.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *BaseService) {
		s.Metrics = m
	}
}

// WithClock overrides the time source used for audit fields and ledger entries.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = now
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	base := BaseService{clock: time.Now}
	for _, option := range options {
		option(&base)
	}
	return base
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs an expected failure such as a rejected request
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LogFailure logs client-caused errors as warnings and everything else as errors.
func (s *BaseService) LogFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isClientError(err) {
		s.LogWarn(ctx, err, msg, keyvals...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

func isClientError(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrDuplicate,
		apperrors.ErrConflict,
		apperrors.ErrInsufficientStock,
		apperrors.ErrInsufficientBalance,
		apperrors.ErrUnauthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// toPage converts 1-based page parameters into a repository page.
func toPage(p dto.PageParams) portsrepo.Page {
	page, limit := pagination.Normalize(p.Page, p.Limit, pagination.Limits{})
	return portsrepo.Page{Limit: limit, Offset: pagination.Offset(page, limit)}
}

// checkScale rejects an amount with more decimal places than its column stores.
// A nil amount passes.
func checkScale(field string, d *decimal.Decimal, places int32) error {
	if d != nil && !domain.HasScale(*d, places) {
		return validationErrorf("%s must have at most %d decimal places", field, places)
	}
	return nil
}

// checkMoneyScale applies checkScale with the money scale to each field/amount pair in order.
func checkMoneyScale(fields []string, amounts ...*decimal.Decimal) error {
	for i, d := range amounts {
		if err := checkScale(fields[i], d, domain.MoneyScale); err != nil {
			return err
		}
	}
	return nil
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}
