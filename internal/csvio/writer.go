package csvio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sheikh-saqib/payments-engine/internal/projection"
)

// WriteAccounts renders the rows as CSV with a client,available,held,total,locked header.
func WriteAccounts(w io.Writer, rows []projection.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(projection.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Fields()); err != nil {
			return fmt.Errorf("failed to write client %d: %w", row.Client, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush accounts: %w", err)
	}
	return nil
}
