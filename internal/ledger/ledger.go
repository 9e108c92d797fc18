package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/payments-engine/internal/accounts"
	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/sheikh-saqib/payments-engine/internal/models/events"
)

// RecordSource yields parsed records in input order. Read returns io.EOF at the end,
// a *models.MalformedRecordError for a row that should be skipped, and any other
// error when the input can no longer be read.
type RecordSource interface {
	Read() (models.TransactionRecord, error)
}

// Engine applies transaction records to client accounts, one at a time, in order.
// It owns the account ledger and the history index; nothing else writes to them.
// An Engine is not safe for concurrent use.
type Engine struct {
	history   interfaces.HistoryIndex // facts about past deposits and withdrawals, keyed by tx
	accounts  *accounts.Ledger        // balances per client
	publisher interfaces.EventPublisher
	log       *zap.Logger
	runID     string
	stats     Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for discards. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithPublisher sends a RecordDiscarded event for every skipped record and an
// AccountLocked event for every chargeback.
func WithPublisher(p interfaces.EventPublisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithRunID stamps published events with the id of the run.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// NewEngine creates an engine with empty accounts on top of the given history index.
// The engine takes ownership of the index and closes it in Close.
func NewEngine(history interfaces.HistoryIndex, opts ...Option) *Engine {
	e := &Engine{
		history:  history,
		accounts: accounts.NewLedger(),
		log:      zap.NewNop(),
		stats:    newStats(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process drains src through the engine. Malformed rows and discarded records are
// counted and logged and never stop the run; only read or storage failures and
// context cancellation do.
func (e *Engine) Process(ctx context.Context, src RecordSource) (Stats, error) {
	for {
		if err := ctx.Err(); err != nil {
			return e.Stats(), err
		}

		rec, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var malformed *models.MalformedRecordError
			if errors.As(err, &malformed) {
				e.stats.Records++
				e.stats.Malformed++
				e.log.Warn("skipping malformed record", zap.Error(err))
				continue
			}
			return e.Stats(), fmt.Errorf("failed to read records: %w", err)
		}

		e.stats.Records++
		if err := e.Submit(ctx, rec); err != nil {
			return e.Stats(), err
		}
	}

	e.log.Info("ledger run complete", statsField(e.stats), zap.Int("accounts", e.accounts.Len()), zap.Int("history", e.history.Len()))
	return e.Stats(), nil
}

// Submit applies one record and takes care of the bookkeeping around it. A discarded
// record is not an error here; the returned error is always fatal to the run.
func (e *Engine) Submit(ctx context.Context, rec models.TransactionRecord) error {
	err := e.Apply(ctx, rec)
	if err == nil {
		e.stats.Applied++
		return nil
	}

	reason := Reason(err)
	if reason == "" {
		return err
	}

	e.stats.Discarded[reason]++
	e.log.Debug("record discarded",
		zap.String("type", rec.Kind.String()),
		zap.Uint16("client", rec.Client),
		zap.Uint32("tx", rec.Tx),
		zap.String("reason", reason),
		zap.Error(err),
	)
	e.publish(ctx, events.TypeRecordDiscarded, rec.Client, events.RecordDiscarded{
		RunID:      e.runID,
		Type:       rec.Kind.String(),
		Client:     rec.Client,
		Tx:         rec.Tx,
		Amount:     rec.Amount,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// Apply interprets a single record against the history seen so far.
// It returns nil when the record changed the ledger, a *DiscardError when the record
// was skipped (IsDiscard reports true), and any other error on a storage failure.
func (e *Engine) Apply(ctx context.Context, rec models.TransactionRecord) error {
	acc := e.accounts.GetOrCreate(rec.Client)
	if acc.Locked {
		return discard(rec, models.ErrAccountLocked)
	}

	switch rec.Kind {
	case models.KindDeposit:
		return e.deposit(ctx, acc, rec)
	case models.KindWithdraw:
		return e.withdraw(ctx, acc, rec)
	case models.KindDispute:
		return e.dispute(ctx, acc, rec)
	case models.KindResolve:
		return e.resolve(ctx, acc, rec)
	case models.KindChargeback:
		return e.chargeback(ctx, acc, rec)
	default:
		return discard(rec, fmt.Errorf("%w: unknown kind %d", models.ErrMalformedRecord, rec.Kind))
	}
}

func (e *Engine) deposit(ctx context.Context, acc *models.Account, rec models.TransactionRecord) error {
	if err := checkAmount(rec); err != nil {
		return err
	}
	amount := *rec.Amount

	if err := e.history.Record(ctx, rec.Tx, rec.Client, amount); err != nil {
		if errors.Is(err, models.ErrDuplicateTx) {
			return discard(rec, err)
		}
		return err
	}
	acc.Credit(amount)
	return nil
}

func (e *Engine) withdraw(ctx context.Context, acc *models.Account, rec models.TransactionRecord) error {
	if err := checkAmount(rec); err != nil {
		return err
	}
	amount := *rec.Amount

	_, exists, err := e.history.Get(ctx, rec.Tx)
	if err != nil {
		return err
	}
	if exists {
		return discard(rec, models.ErrDuplicateTx)
	}

	if acc.Available.LessThan(amount) {
		return discard(rec, &InsufficientFundsError{Available: acc.Available, Requested: amount})
	}

	// Stored negative so dispute handling restores the historical effect either way.
	if err := e.history.Record(ctx, rec.Tx, rec.Client, amount.Neg()); err != nil {
		return err
	}
	acc.Debit(amount)
	return nil
}

func (e *Engine) dispute(ctx context.Context, acc *models.Account, rec models.TransactionRecord) error {
	entry, err := e.lookup(ctx, rec, models.DisputeNone)
	if err != nil {
		return err
	}

	if err := e.history.MarkDisputed(ctx, rec.Tx); err != nil {
		return err
	}
	// No check on available: disputing a deposit that was partly spent leaves it negative.
	acc.Hold(entry.Amount)
	return nil
}

func (e *Engine) resolve(ctx context.Context, acc *models.Account, rec models.TransactionRecord) error {
	entry, err := e.lookup(ctx, rec, models.DisputeOpen)
	if err != nil {
		return err
	}

	if err := e.history.MarkResolved(ctx, rec.Tx); err != nil {
		return err
	}
	acc.Release(entry.Amount)
	return nil
}

func (e *Engine) chargeback(ctx context.Context, acc *models.Account, rec models.TransactionRecord) error {
	entry, err := e.lookup(ctx, rec, models.DisputeOpen)
	if err != nil {
		return err
	}

	if err := e.history.MarkChargedBack(ctx, rec.Tx); err != nil {
		return err
	}
	acc.Forfeit(entry.Amount)
	acc.Lock()

	e.log.Info("account locked", zap.Uint16("client", rec.Client), zap.Uint32("tx", rec.Tx))
	e.publish(ctx, events.TypeAccountLocked, rec.Client, events.AccountLocked{
		RunID:      e.runID,
		Client:     rec.Client,
		Tx:         rec.Tx,
		Available:  acc.Available,
		Held:       acc.Held,
		Total:      acc.Total(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// lookup finds the history entry a dispute lifecycle record refers to and checks it
// belongs to the same client and is in the expected state.
func (e *Engine) lookup(ctx context.Context, rec models.TransactionRecord, want models.DisputeState) (models.HistoryEntry, error) {
	if rec.Amount != nil {
		return models.HistoryEntry{}, discard(rec, fmt.Errorf("%w: %s carries an amount", models.ErrMalformedRecord, rec.Kind))
	}

	entry, ok, err := e.history.Get(ctx, rec.Tx)
	if err != nil {
		return models.HistoryEntry{}, err
	}

	switch {
	case !ok:
		return entry, discard(rec, &DisputeReferenceError{Tx: rec.Tx, Reason: "unknown tx"})
	case entry.Client != rec.Client:
		return entry, discard(rec, &DisputeReferenceError{Tx: rec.Tx, Reason: fmt.Sprintf("owned by client %d", entry.Client)})
	case entry.State != want:
		return entry, discard(rec, &DisputeReferenceError{Tx: rec.Tx, Reason: fmt.Sprintf("state is %s, want %s", entry.State, want)})
	}
	return entry, nil
}

// checkAmount guards records built in code rather than by models.ParseRecord.
func checkAmount(rec models.TransactionRecord) error {
	if rec.Amount == nil {
		return discard(rec, fmt.Errorf("%w: %s requires an amount", models.ErrMalformedRecord, rec.Kind))
	}
	if rec.Amount.IsNegative() {
		return discard(rec, fmt.Errorf("%w: negative amount", models.ErrMalformedRecord))
	}
	return nil
}

func (e *Engine) publish(ctx context.Context, eventType string, client uint16, event any) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, eventType, strconv.FormatUint(uint64(client), 10), event); err != nil {
		e.log.Warn("failed to publish ledger event", zap.String("event", eventType), zap.Error(err))
	}
}

// Account returns the current state of one client's account.
func (e *Engine) Account(client uint16) (models.Account, bool) {
	return e.accounts.Get(client)
}

// Accounts returns a copy of every account touched so far.
func (e *Engine) Accounts() map[uint16]models.Account {
	return e.accounts.Snapshot()
}

// Stats returns a copy of the counters.
func (e *Engine) Stats() Stats {
	return e.stats.clone()
}

// Close releases the history index.
func (e *Engine) Close() error {
	return e.history.Close()
}
