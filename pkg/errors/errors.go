package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanAlreadyExists    = errors.New("loan already exists")
	ErrLoanClosed           = errors.New("loan is closed")
	ErrInvalidDateRange     = errors.New("evaluation date precedes loan start date")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrNoSelectionOrPayment = errors.New("no collateral selected and no cash supplied")
	ErrUnknownItem          = errors.New("collateral item does not belong to loan or was already returned")
	ErrMixedCollateral      = errors.New("collateral items of one loan must share a single metal")
	ErrPriceUnavailable     = errors.New("no spot price available")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound         = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyExists    = "LOAN_ALREADY_EXISTS"
	ErrCodeLoanClosed           = "LOAN_CLOSED"
	ErrCodeInvalidDateRange     = "INVALID_DATE_RANGE"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeNegativeAmount       = "NEGATIVE_AMOUNT"
	ErrCodeNoSelectionOrPayment = "NO_SELECTION_OR_PAYMENT"
	ErrCodeUnknownItem          = "UNKNOWN_ITEM"
	ErrCodeMixedCollateral      = "MIXED_COLLATERAL"
	ErrCodePriceUnavailable     = "PRICE_UNAVAILABLE"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyExists(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyExists,
		fmt.Sprintf("Loan with ID %s already exists", loanID),
		ErrLoanAlreadyExists,
	)
}

func WrapLoanClosed(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanClosed,
		fmt.Sprintf("Loan with ID %s is closed and accepts no further payments", loanID),
		ErrLoanClosed,
	)
}

func WrapInvalidDateRange(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDateRange,
		fmt.Sprintf("Evaluation date precedes start date of loan %s", loanID),
		ErrInvalidDateRange,
	)
}

func WrapInvalidAmount(amountPaise int64) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid payment amount: %d paise", amountPaise),
		ErrInvalidAmount,
	)
}

func WrapUnknownItem(itemID string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnknownItem,
		fmt.Sprintf("Collateral item %s does not belong to this loan or was already returned", itemID),
		ErrUnknownItem,
	)
}

func WrapPriceUnavailable(metal string) *BusinessError {
	return NewBusinessError(
		ErrCodePriceUnavailable,
		fmt.Sprintf("No spot price available for %s", metal),
		ErrPriceUnavailable,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
