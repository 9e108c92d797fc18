// Package sqlite provides a SQLite-backed history index.
//
// The engine has to remember every deposit and withdrawal for the whole run,
// since any of them may be disputed later. For inputs with hundreds of millions
// of transactions that map outgrows memory; this index keeps it on disk instead.
// The table is emptied on open: history never carries over between runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS tx_history (
		tx     INTEGER PRIMARY KEY,
		client INTEGER NOT NULL,
		amount TEXT    NOT NULL,
		state  INTEGER NOT NULL DEFAULT 0
	);
	DELETE FROM tx_history;
`

// HistoryIndex implements interfaces.HistoryIndex on a single SQLite connection.
type HistoryIndex struct {
	db    *sql.DB
	count int

	insert   *sql.Stmt
	get      *sql.Stmt
	setState *sql.Stmt
}

// NewHistoryIndex opens (or creates) the database at path. Use ":memory:" for a
// throwaway database.
func NewHistoryIndex(path string) (*HistoryIndex, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_sync=OFF")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	h := &HistoryIndex{db: db}
	if err := h.prepare(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *HistoryIndex) prepare() error {
	var err error
	if h.insert, err = h.db.Prepare(`INSERT OR IGNORE INTO tx_history (tx, client, amount, state) VALUES (?, ?, ?, ?)`); err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	if h.get, err = h.db.Prepare(`SELECT client, amount, state FROM tx_history WHERE tx = ?`); err != nil {
		return fmt.Errorf("failed to prepare select: %w", err)
	}
	if h.setState, err = h.db.Prepare(`UPDATE tx_history SET state = ? WHERE tx = ?`); err != nil {
		return fmt.Errorf("failed to prepare update: %w", err)
	}
	return nil
}

// Record inserts a new entry; an existing tx id makes the insert a no-op and
// returns models.ErrDuplicateTx.
func (h *HistoryIndex) Record(ctx context.Context, tx uint32, client uint16, signedAmount decimal.Decimal) error {
	res, err := h.insert.ExecContext(ctx, int64(tx), int64(client), signedAmount.String(), int64(models.DisputeNone))
	if err != nil {
		return fmt.Errorf("failed to record tx %d: %w", tx, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to record tx %d: %w", tx, err)
	}
	if n == 0 {
		return models.ErrDuplicateTx
	}

	h.count++
	return nil
}

func (h *HistoryIndex) Get(ctx context.Context, tx uint32) (models.HistoryEntry, bool, error) {
	var (
		client int64
		amount string
		state  int64
	)
	err := h.get.QueryRowContext(ctx, int64(tx)).Scan(&client, &amount, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HistoryEntry{}, false, nil
	}
	if err != nil {
		return models.HistoryEntry{}, false, fmt.Errorf("failed to load tx %d: %w", tx, err)
	}

	signed, err := decimal.NewFromString(amount)
	if err != nil {
		return models.HistoryEntry{}, false, fmt.Errorf("corrupt amount for tx %d: %w", tx, err)
	}

	return models.HistoryEntry{
		Tx:     tx,
		Client: uint16(client),
		Amount: signed,
		State:  models.DisputeState(state),
	}, true, nil
}

func (h *HistoryIndex) MarkDisputed(ctx context.Context, tx uint32) error {
	return h.updateState(ctx, tx, models.DisputeOpen)
}

func (h *HistoryIndex) MarkResolved(ctx context.Context, tx uint32) error {
	return h.updateState(ctx, tx, models.DisputeNone)
}

func (h *HistoryIndex) MarkChargedBack(ctx context.Context, tx uint32) error {
	return h.updateState(ctx, tx, models.DisputeChargedBack)
}

func (h *HistoryIndex) updateState(ctx context.Context, tx uint32, state models.DisputeState) error {
	if _, err := h.setState.ExecContext(ctx, int64(state), int64(tx)); err != nil {
		return fmt.Errorf("failed to set tx %d to %s: %w", tx, state, err)
	}
	return nil
}

// Len returns the number of entries recorded through this index.
func (h *HistoryIndex) Len() int {
	return h.count
}

// Close releases the prepared statements and the connection.
func (h *HistoryIndex) Close() error {
	for _, stmt := range []*sql.Stmt{h.insert, h.get, h.setState} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return h.db.Close()
}

var _ interfaces.HistoryIndex = (*HistoryIndex)(nil)
