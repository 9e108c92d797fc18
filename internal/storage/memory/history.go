package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// HistoryIndex is an in-memory implementation of interfaces.HistoryIndex.
// Entries are never removed for the lifetime of the index.
type HistoryIndex struct {
	mu      sync.RWMutex                   // guards entries
	entries map[uint32]models.HistoryEntry // keyed by tx id
}

// NewHistoryIndex creates an empty index.
func NewHistoryIndex() *HistoryIndex {
	return &HistoryIndex{
		entries: make(map[uint32]models.HistoryEntry),
	}
}

// Record stores a new entry. A tx id that is already present is left untouched.
func (h *HistoryIndex) Record(_ context.Context, tx uint32, client uint16, signedAmount decimal.Decimal) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.entries[tx]; exists {
		return models.ErrDuplicateTx
	}

	h.entries[tx] = models.HistoryEntry{
		Tx:     tx,
		Client: client,
		Amount: signedAmount,
		State:  models.DisputeNone,
	}
	return nil
}

// Get returns a copy of the entry so callers cannot modify the index behind its back.
func (h *HistoryIndex) Get(_ context.Context, tx uint32) (models.HistoryEntry, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entry, ok := h.entries[tx]
	return entry, ok, nil
}

func (h *HistoryIndex) MarkDisputed(_ context.Context, tx uint32) error {
	h.setState(tx, models.DisputeOpen)
	return nil
}

func (h *HistoryIndex) MarkResolved(_ context.Context, tx uint32) error {
	h.setState(tx, models.DisputeNone)
	return nil
}

func (h *HistoryIndex) MarkChargedBack(_ context.Context, tx uint32) error {
	h.setState(tx, models.DisputeChargedBack)
	return nil
}

func (h *HistoryIndex) setState(tx uint32, state models.DisputeState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if entry, ok := h.entries[tx]; ok {
		entry.State = state
		h.entries[tx] = entry
	}
}

// Len returns the number of recorded transactions.
func (h *HistoryIndex) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Close is a no-op; memory is released with the index.
func (h *HistoryIndex) Close() error {
	return nil
}

// Compile-time check: ensure HistoryIndex implements the HistoryIndex interface
var _ interfaces.HistoryIndex = (*HistoryIndex)(nil)
