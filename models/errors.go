package models

import (
	"errors"
	"fmt"
)

// ErrWriteConflict signals that a version-checked balance write lost a
// race with a concurrent update. The caller must retry the whole
// operation rather than merge partial state.
var ErrWriteConflict = errors.New("balance record was modified concurrently")

// ErrNotFound signals a missing record
var ErrNotFound = errors.New("record not found")

// ValidationError rejects malformed input before any mutation
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientFundsError rejects an operation whose amount exceeds the
// available balance. No mutation occurs.
type InsufficientFundsError struct {
	Kind      BalanceKind
	Available string
	Requested string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient %s balance: have %s, need %s", e.Kind, e.Available, e.Requested)
}

// DenialReason is the machine-readable reason a withdrawal was refused
type DenialReason string

const (
	DenialInsufficientBalance    DenialReason = "InsufficientBalance"
	DenialLockedPeriodNotElapsed DenialReason = "LockedPeriodNotElapsed"
	DenialTierNotEligible        DenialReason = "TierNotEligible"
)

// IneligibleWithdrawalError rejects a withdrawal blocked by the tier or
// time gate
type IneligibleWithdrawalError struct {
	Reason  DenialReason
	Message string
}

func (e *IneligibleWithdrawalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// ExternalTransferError wraps a payment rail failure. Closure falls back
// to the pending-manual state instead of failing destructively.
type ExternalTransferError struct {
	Err error
}

func (e *ExternalTransferError) Error() string {
	return fmt.Sprintf("external transfer failed: %v", e.Err)
}

func (e *ExternalTransferError) Unwrap() error {
	return e.Err
}
