package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// HistoryIndex maps a tx id to the facts needed to dispute it later.
// The Mark* transitions do not validate; the engine checks legality before calling them.
type HistoryIndex interface {
	// Record inserts a new entry in DisputeNone. Returns models.ErrDuplicateTx if tx exists.
	Record(ctx context.Context, tx uint32, client uint16, signedAmount decimal.Decimal) error
	Get(ctx context.Context, tx uint32) (models.HistoryEntry, bool, error)
	MarkDisputed(ctx context.Context, tx uint32) error
	MarkResolved(ctx context.Context, tx uint32) error
	MarkChargedBack(ctx context.Context, tx uint32) error
	Len() int
	Close() error
}
