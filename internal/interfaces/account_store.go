package interfaces

import (
	"context"

	"github.com/sheikh-saqib/payments-engine/internal/projection"
)

// AccountStore receives the final per-client balances of a run.
type AccountStore interface {
	SaveAccounts(ctx context.Context, runID string, rows []projection.Row) error
}
