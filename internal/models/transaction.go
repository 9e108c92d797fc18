package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of fractional digits an amount may carry.
const AmountPrecision = 4

// Kind is the type of a transaction record.
type Kind uint8

const (
	KindDeposit Kind = iota
	KindWithdraw
	KindDispute
	KindResolve
	KindChargeback
)

var kindNames = [...]string{
	KindDeposit:    "deposit",
	KindWithdraw:   "withdraw",
	KindDispute:    "dispute",
	KindResolve:    "resolve",
	KindChargeback: "chargeback",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Monetary reports whether records of this kind move money and carry an amount.
func (k Kind) Monetary() bool {
	return k == KindDeposit || k == KindWithdraw
}

// ParseKind matches the lower-case wire name of a kind. Matching is case-sensitive.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// TransactionRecord is one input row.
// Amount is set for deposits and withdrawals and nil for the dispute lifecycle kinds,
// which reference an earlier transaction through Tx.
type TransactionRecord struct {
	Kind   Kind
	Client uint16
	Tx     uint32
	Amount *decimal.Decimal
}

// AmountOrZero returns the amount, or zero for kinds without one.
func (r TransactionRecord) AmountOrZero() decimal.Decimal {
	if r.Amount == nil {
		return decimal.Zero
	}
	return *r.Amount
}

// ParseRecord builds a record from the raw columns type, client, tx and an optional amount.
// Surrounding whitespace is ignored. Structurally invalid rows return a *MalformedRecordError.
func ParseRecord(fields []string) (TransactionRecord, error) {
	if len(fields) < 3 || len(fields) > 4 {
		return TransactionRecord{}, malformed(fields, "expected 3 or 4 columns, got %d", len(fields))
	}

	kind, err := ParseKind(strings.TrimSpace(fields[0]))
	if err != nil {
		return TransactionRecord{}, malformed(fields, "%v", err)
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return TransactionRecord{}, malformed(fields, "invalid client: %v", err)
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return TransactionRecord{}, malformed(fields, "invalid tx: %v", err)
	}

	rec := TransactionRecord{
		Kind:   kind,
		Client: uint16(client),
		Tx:     uint32(tx),
	}

	raw := ""
	if len(fields) == 4 {
		raw = strings.TrimSpace(fields[3])
	}

	if !kind.Monetary() {
		if raw != "" {
			return TransactionRecord{}, malformed(fields, "%s must not carry an amount", kind)
		}
		return rec, nil
	}

	if raw == "" {
		return TransactionRecord{}, malformed(fields, "%s requires an amount", kind)
	}
	amount, err := ParseAmount(raw)
	if err != nil {
		return TransactionRecord{}, malformed(fields, "%v", err)
	}
	rec.Amount = &amount

	return rec, nil
}

// ParseAmount parses a non-negative decimal with at most AmountPrecision fractional digits.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative amount %q", s)
	}
	if !amount.Equal(amount.Truncate(AmountPrecision)) {
		return decimal.Decimal{}, fmt.Errorf("amount %q exceeds %d decimal places", s, AmountPrecision)
	}
	return amount, nil
}

func malformed(fields []string, format string, args ...any) *MalformedRecordError {
	return &MalformedRecordError{
		Fields: append([]string(nil), fields...),
		Reason: fmt.Sprintf(format, args...),
	}
}
