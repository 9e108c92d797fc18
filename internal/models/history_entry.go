package models

import "github.com/shopspring/decimal"

// DisputeState tracks where a past deposit or withdrawal is in the dispute lifecycle.
type DisputeState uint8

const (
	DisputeNone DisputeState = iota
	DisputeOpen
	DisputeChargedBack // terminal
)

func (s DisputeState) String() string {
	switch s {
	case DisputeNone:
		return "none"
	case DisputeOpen:
		return "disputed"
	case DisputeChargedBack:
		return "charged_back"
	default:
		return "unknown"
	}
}

// HistoryEntry is what the engine keeps about an applied deposit or withdrawal
// so that later dispute records can find it by tx id.
type HistoryEntry struct {
	Tx     uint32
	Client uint16
	Amount decimal.Decimal // signed effect on available: positive for deposits, negative for withdrawals
	State  DisputeState
}
