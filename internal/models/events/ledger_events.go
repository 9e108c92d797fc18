package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topic suffixes used when publishing engine events.
const (
	TypeRecordDiscarded = "record_discarded"
	TypeAccountLocked   = "account_locked"
)

// RecordDiscarded is emitted for every record the engine skips.
type RecordDiscarded struct {
	RunID      string           `json:"run_id"`
	Type       string           `json:"type"`
	Client     uint16           `json:"client"`
	Tx         uint32           `json:"tx"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Reason     string           `json:"reason"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// AccountLocked is emitted when a chargeback freezes an account.
type AccountLocked struct {
	RunID      string          `json:"run_id"`
	Client     uint16          `json:"client"`
	Tx         uint32          `json:"tx"`
	Available  decimal.Decimal `json:"available"`
	Held       decimal.Decimal `json:"held"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}
