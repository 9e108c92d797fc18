package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

const shardBuffer = 1024

// HistoryFactory opens the history index for one shard.
type HistoryFactory func(shard int) (interfaces.HistoryIndex, error)

// ShardedEngine runs one Engine per shard and routes every record to the shard
// of its client. A dispute always refers to a tx of the same client, so clients
// are independent and only the order within a client has to be kept.
//
// Unlike the single Engine, a tx id reused by two clients on different shards is
// not detected as a duplicate.
type ShardedEngine struct {
	shards    []*Engine
	log       *zap.Logger
	malformed int
	records   int
}

// NewShardedEngine creates n shards, each with its own history index.
func NewShardedEngine(n int, newHistory HistoryFactory, opts ...Option) (*ShardedEngine, error) {
	if n < 1 {
		return nil, fmt.Errorf("shard count must be positive, got %d", n)
	}

	s := &ShardedEngine{shards: make([]*Engine, 0, n)}
	for i := range n {
		history, err := newHistory(i)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open history for shard %d: %w", i, err)
		}
		engine := NewEngine(history, opts...)
		if i == 0 {
			s.log = engine.log
		}
		engine.log = engine.log.With(zap.Int("shard", i))
		s.shards = append(s.shards, engine)
	}
	return s, nil
}

func (s *ShardedEngine) shardFor(client uint16) int {
	return int(client) % len(s.shards)
}

// Process reads src on the calling goroutine and feeds each shard over its own
// channel. The first fatal error from the reader or any shard cancels the rest.
func (s *ShardedEngine) Process(ctx context.Context, src RecordSource) (Stats, error) {
	g, gctx := errgroup.WithContext(ctx)

	inputs := make([]chan models.TransactionRecord, len(s.shards))
	for i, shard := range s.shards {
		in := make(chan models.TransactionRecord, shardBuffer)
		inputs[i] = in
		g.Go(func() error {
			for rec := range in {
				if err := shard.Submit(gctx, rec); err != nil {
					return err
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, in := range inputs {
				close(in)
			}
		}()
		return s.dispatch(gctx, src, inputs)
	})

	err := g.Wait()
	stats := s.Stats()
	if err != nil {
		return stats, err
	}

	s.log.Info("sharded ledger run complete", statsField(stats), zap.Int("shards", len(s.shards)))
	return stats, nil
}

func (s *ShardedEngine) dispatch(ctx context.Context, src RecordSource, inputs []chan models.TransactionRecord) error {
	for {
		rec, err := src.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		s.records++
		if err != nil {
			var malformed *models.MalformedRecordError
			if errors.As(err, &malformed) {
				s.malformed++
				s.log.Warn("skipping malformed record", zap.Error(err))
				continue
			}
			return fmt.Errorf("failed to read records: %w", err)
		}

		select {
		case inputs[s.shardFor(rec.Client)] <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Accounts merges the accounts of all shards. Shards never share a client.
func (s *ShardedEngine) Accounts() map[uint16]models.Account {
	out := make(map[uint16]models.Account)
	for _, shard := range s.shards {
		maps.Copy(out, shard.Accounts())
	}
	return out
}

// Stats sums the counters of all shards. Only valid once Process has returned.
func (s *ShardedEngine) Stats() Stats {
	total := newStats()
	total.Records = s.records
	total.Malformed = s.malformed
	for _, shard := range s.shards {
		st := shard.Stats()
		total.Applied += st.Applied
		for reason, n := range st.Discarded {
			total.Discarded[reason] += n
		}
	}
	return total
}

// Close closes every shard's history index.
func (s *ShardedEngine) Close() error {
	var errs []error
	for _, shard := range s.shards {
		if err := shard.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Processor is implemented by both Engine and ShardedEngine.
type Processor interface {
	Process(ctx context.Context, src RecordSource) (Stats, error)
	Accounts() map[uint16]models.Account
	Close() error
}

var (
	_ Processor = (*Engine)(nil)
	_ Processor = (*ShardedEngine)(nil)
)
