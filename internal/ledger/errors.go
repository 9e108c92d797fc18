package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// DiscardError reports a record the engine skipped. It unwraps to the reason,
// so errors.Is(err, models.ErrInsufficientFunds) and friends work on it.
type DiscardError struct {
	Record models.TransactionRecord
	Err    error
}

func (e *DiscardError) Error() string {
	return fmt.Sprintf("%s tx %d for client %d discarded: %v",
		e.Record.Kind, e.Record.Tx, e.Record.Client, e.Err)
}

func (e *DiscardError) Unwrap() error {
	return e.Err
}

// InsufficientFundsError provides details about a rejected withdrawal.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s",
		e.Available.StringFixed(models.AmountPrecision), e.Requested.StringFixed(models.AmountPrecision))
}

func (e *InsufficientFundsError) Unwrap() error {
	return models.ErrInsufficientFunds
}

// DisputeReferenceError explains why a dispute, resolve or chargeback could not
// be matched to a prior transaction.
type DisputeReferenceError struct {
	Tx     uint32
	Reason string // e.g. "unknown tx", "owned by client 7", "state is disputed"
}

func (e *DisputeReferenceError) Error() string {
	return fmt.Sprintf("invalid dispute reference to tx %d: %s", e.Tx, e.Reason)
}

func (e *DisputeReferenceError) Unwrap() error {
	return models.ErrInvalidDisputeReference
}

// discardReasons are the conditions recovered inside the engine.
var discardReasons = []error{
	models.ErrMalformedRecord,
	models.ErrDuplicateTx,
	models.ErrInsufficientFunds,
	models.ErrInvalidDisputeReference,
	models.ErrAccountLocked,
}

// IsDiscard returns true if err means a record was skipped and processing may continue.
func IsDiscard(err error) bool {
	return Reason(err) != ""
}

// Reason returns the short name of the discard condition behind err, or "" if err is
// not a discard.
func Reason(err error) string {
	for _, reason := range discardReasons {
		if errors.Is(err, reason) {
			return reason.Error()
		}
	}
	return ""
}

func discard(rec models.TransactionRecord, err error) error {
	return &DiscardError{Record: rec, Err: err}
}
