package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the parser, the history stores and the engine. Use with errors.Is().
var (
	// ErrMalformedRecord is returned for input rows that cannot form a valid record.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrDuplicateTx is returned when a deposit or withdrawal reuses a recorded tx id.
	ErrDuplicateTx = errors.New("duplicate transaction id")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the available funds.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidDisputeReference is returned when a dispute, resolve or chargeback
	// names a missing tx, another client's tx, or a tx in the wrong dispute state.
	ErrInvalidDisputeReference = errors.New("invalid dispute reference")

	// ErrAccountLocked is returned for any record addressed to a locked account.
	ErrAccountLocked = errors.New("account locked")
)

// MalformedRecordError describes a row rejected at parse time.
type MalformedRecordError struct {
	Line   int
	Fields []string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	row := strings.Join(e.Fields, ",")
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d (%s): %s", e.Line, row, e.Reason)
	}
	return fmt.Sprintf("malformed record (%s): %s", row, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}
