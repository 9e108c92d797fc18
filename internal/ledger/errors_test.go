package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

func TestIsDiscard(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{"nil", nil, ""},
		{"io failure", errors.New("read failed"), ""},
		{"malformed", &models.MalformedRecordError{Reason: "x"}, "malformed record"},
		{"duplicate", discard(deposit(1, 1, "1"), models.ErrDuplicateTx), "duplicate transaction id"},
		{"insufficient funds", discard(withdraw(1, 1, "1"), &InsufficientFundsError{}), "insufficient funds"},
		{"dispute reference", discard(dispute(1, 1), &DisputeReferenceError{Tx: 1, Reason: "unknown tx"}), "invalid dispute reference"},
		{"locked", discard(deposit(1, 1, "1"), models.ErrAccountLocked), "account locked"},
		{"wrapped", fmt.Errorf("outer: %w", models.ErrAccountLocked), "account locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reason, Reason(tt.err))
			assert.Equal(t, tt.reason != "", IsDiscard(tt.err))
		})
	}
}

func TestDiscardError_Message(t *testing.T) {
	err := discard(withdraw(3, 9, "2"), &InsufficientFundsError{Available: dec("1"), Requested: dec("2")})
	assert.Equal(t,
		"withdraw tx 9 for client 3 discarded: insufficient funds: available 1.0000, requested 2.0000",
		err.Error())
}
