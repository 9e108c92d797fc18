package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/projection"
)

const schema = `CREATE TABLE IF NOT EXISTS client_accounts (
	run_id    TEXT     NOT NULL,
	client    INTEGER  NOT NULL,
	available NUMERIC  NOT NULL,
	held      NUMERIC  NOT NULL,
	total     NUMERIC  NOT NULL,
	locked    BOOLEAN  NOT NULL,
	PRIMARY KEY (run_id, client)
)`

// AccountStore exports the final balances of a run to Postgres.
type AccountStore struct {
	db *sql.DB
}

// Open connects to dsn, checks the connection and makes sure the table exists.
func Open(ctx context.Context, dsn string) (*AccountStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewAccountStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{
		db: db,
	}
}

func (p *AccountStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create client_accounts: %w", err)
	}
	return nil
}

// SaveAccounts writes all rows of a run in one database transaction.
func (p *AccountStore) SaveAccounts(ctx context.Context, runID string, rows []projection.Row) (err error) {
	const query = `INSERT INTO client_accounts (run_id, client, available, held, total, locked)
	VALUES ($1, $2, $3, $4, $5, $6)`

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	stmt, err := dbTx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.ExecContext(ctx, runID, int(row.Client), row.Available, row.Held, row.Total, row.Locked)
		if err != nil {
			return fmt.Errorf("failed to insert client %d: %w", row.Client, err)
		}
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadAccounts returns the rows saved for runID, ordered by client.
func (p *AccountStore) LoadAccounts(ctx context.Context, runID string) ([]projection.Row, error) {
	const query = `SELECT client, available, held, total, locked FROM client_accounts
	WHERE run_id = $1 ORDER BY client`

	rows, err := p.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []projection.Row
	for rows.Next() {
		var (
			row    projection.Row
			client int
		)
		if err := rows.Scan(&client, &row.Available, &row.Held, &row.Total, &row.Locked); err != nil {
			return nil, err
		}
		row.Client = uint16(client)
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *AccountStore) Close() error {
	return p.db.Close()
}

var _ interfaces.AccountStore = (*AccountStore)(nil)
