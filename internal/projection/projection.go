// Package projection turns the final account map into output rows.
package projection

import (
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// Header is the column order of a rendered row.
var Header = []string{"client", "available", "held", "total", "locked"}

// Row is the output view of one account.
type Row struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Fields renders the row with amounts fixed to models.AmountPrecision places.
func (r Row) Fields() []string {
	return []string{
		strconv.FormatUint(uint64(r.Client), 10),
		r.Available.StringFixed(models.AmountPrecision),
		r.Held.StringFixed(models.AmountPrecision),
		r.Total.StringFixed(models.AmountPrecision),
		strconv.FormatBool(r.Locked),
	}
}

// Project builds one row per account, ordered by client id.
// Total is recomputed from available and held rather than read from the account.
func Project(accounts map[uint16]models.Account) []Row {
	rows := make([]Row, 0, len(accounts))
	for client, acc := range accounts {
		rows = append(rows, Row{
			Client:    client,
			Available: acc.Available,
			Held:      acc.Held,
			Total:     acc.Available.Add(acc.Held),
			Locked:    acc.Locked,
		})
	}

	slices.SortFunc(rows, func(a, b Row) int {
		return int(a.Client) - int(b.Client)
	})
	return rows
}
