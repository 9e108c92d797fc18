package models

import "github.com/shopspring/decimal"

// Account is the balance state of one client.
// The mutators are plain arithmetic; the engine checks legality before calling them.
type Account struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount returns an empty, unlocked account.
func NewAccount(client uint16) *Account {
	return &Account{Client: client, Available: decimal.Zero, Held: decimal.Zero}
}

// Total is always derived from available and held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Credit adds a deposit to available funds.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// Debit removes a withdrawal from available funds. Callers check available >= amount first.
func (a *Account) Debit(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
}

// Hold moves the signed effect of a disputed transaction from available to held.
func (a *Account) Hold(signed decimal.Decimal) {
	a.Available = a.Available.Sub(signed)
	a.Held = a.Held.Add(signed)
}

// Release reverses Hold.
func (a *Account) Release(signed decimal.Decimal) {
	a.Held = a.Held.Sub(signed)
	a.Available = a.Available.Add(signed)
}

// Forfeit drops a held amount, reducing the total.
func (a *Account) Forfeit(signed decimal.Decimal) {
	a.Held = a.Held.Sub(signed)
}

// Lock freezes the account for the rest of the run.
func (a *Account) Lock() {
	a.Locked = true
}
