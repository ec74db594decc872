package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of a resource,
// e.g. deleting a platform that still has products.
var ErrConflict = errors.New("resource conflict")

// ErrInsufficientStock indicates a sale asked for more units than the product holds.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInsufficientBalance indicates a platform cannot cover a debit.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected failure, usually in the storage layer.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Repositories use it for infrastructure failures (begin/commit/scan).
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInternal) match any 5xx AppError.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}

// InsufficientStockError reports the available and requested quantity of a product.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// InsufficientBalanceError reports the available and required balance of a platform,
// denominated in the platform balance unit.
type InsufficientBalanceError struct {
	PlatformID string
	Available  decimal.Decimal
	Required   decimal.Decimal
	Unit       string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s %s, required %s %s",
		e.Available.StringFixed(2), e.Unit, e.Required.StringFixed(2), e.Unit)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
