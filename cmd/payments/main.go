package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/payments-engine/internal/config"
	"github.com/sheikh-saqib/payments-engine/internal/csvio"
	"github.com/sheikh-saqib/payments-engine/internal/events"
	"github.com/sheikh-saqib/payments-engine/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/ledger"
	"github.com/sheikh-saqib/payments-engine/internal/logging"
	"github.com/sheikh-saqib/payments-engine/internal/projection"
	"github.com/sheikh-saqib/payments-engine/internal/storage/memory"
	"github.com/sheikh-saqib/payments-engine/internal/storage/postgres"
	"github.com/sheikh-saqib/payments-engine/internal/storage/sqlite"
)

var errUsage = errors.New("usage: payments <transactions.csv>")

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{Environment: cfg.Environment, Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1:], os.Stdout); err != nil {
		logger.Error("payments run failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// run processes the file named by the single positional argument and writes the
// account table to out.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	logger = logger.With(zap.String("run_id", cfg.RunID))

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	engine, err := newProcessor(cfg, logger, publisher)
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Process(ctx, csvio.NewReader(file)); err != nil {
		return err
	}

	rows := projection.Project(engine.Accounts())
	if err := csvio.WriteAccounts(out, rows); err != nil {
		return err
	}

	if cfg.DatabaseURL != "" {
		if err := export(ctx, cfg, rows); err != nil {
			return err
		}
		logger.Info("accounts exported", zap.Int("accounts", len(rows)))
	}
	return nil
}

func newPublisher(cfg config.Config, logger *zap.Logger) interfaces.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	logger.Info("publishing ledger events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
}

func newProcessor(cfg config.Config, logger *zap.Logger, publisher interfaces.EventPublisher) (ledger.Processor, error) {
	newHistory := func(shard int) (interfaces.HistoryIndex, error) {
		if cfg.HistoryBackend == config.HistorySQLite {
			return sqlite.NewHistoryIndex(cfg.HistoryPath(shard))
		}
		return memory.NewHistoryIndex(), nil
	}

	opts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithPublisher(publisher),
		ledger.WithRunID(cfg.RunID),
	}

	if cfg.Shards > 1 {
		return ledger.NewShardedEngine(cfg.Shards, newHistory, opts...)
	}

	history, err := newHistory(0)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return ledger.NewEngine(history, opts...), nil
}

func export(ctx context.Context, cfg config.Config, rows []projection.Row) error {
	store, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SaveAccounts(ctx, cfg.RunID, rows)
}
