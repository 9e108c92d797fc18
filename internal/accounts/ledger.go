// Package accounts holds per-client balances for the duration of a run.
package accounts

import "github.com/sheikh-saqib/payments-engine/internal/models"

// Ledger maps clients to their accounts, creating them on first reference.
// It is owned by a single engine and is not safe for concurrent use.
type Ledger struct {
	accounts map[uint16]*models.Account
}

func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[uint16]*models.Account)}
}

// GetOrCreate returns the client's account, creating an empty one if needed.
func (l *Ledger) GetOrCreate(client uint16) *models.Account {
	acc, ok := l.accounts[client]
	if !ok {
		acc = models.NewAccount(client)
		l.accounts[client] = acc
	}
	return acc
}

// Get returns the client's account without creating it.
func (l *Ledger) Get(client uint16) (models.Account, bool) {
	acc, ok := l.accounts[client]
	if !ok {
		return models.Account{}, false
	}
	return *acc, true
}

func (l *Ledger) Len() int {
	return len(l.accounts)
}

// Snapshot copies every account out of the ledger.
func (l *Ledger) Snapshot() map[uint16]models.Account {
	out := make(map[uint16]models.Account, len(l.accounts))
	for client, acc := range l.accounts {
		out[client] = *acc
	}
	return out
}
