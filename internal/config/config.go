// Package config reads runtime settings from the environment, optionally seeded
// from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	HistoryMemory = "memory"
	HistorySQLite = "sqlite"
)

// Config holds everything the CLI needs besides the input path.
type Config struct {
	Environment string // production, staging, development, local
	LogLevel    string // overrides the environment default when set

	Shards            int
	HistoryBackend    string
	HistorySQLitePath string

	KafkaBrokers []string // empty disables event publishing
	KafkaTopic   string

	DatabaseURL string // empty disables the Postgres export

	RunID string
}

// Load reads path as a dotenv file if it exists and then builds the config from the
// environment. Variables already set in the environment win over the file.
func Load(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return FromEnv()
}

// FromEnv builds the config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		Environment:       getenv("APP_ENV", "production"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		HistoryBackend:    getenv("HISTORY_BACKEND", HistoryMemory),
		HistorySQLitePath: getenv("HISTORY_SQLITE_PATH", ":memory:"),
		KafkaTopic:        getenv("KAFKA_TOPIC", "ledger_events"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RunID:             getenv("RUN_ID", uuid.NewString()),
	}

	shards, err := strconv.Atoi(getenv("LEDGER_SHARDS", "1"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LEDGER_SHARDS: %w", err)
	}
	cfg.Shards = shards

	for _, broker := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Shards < 1 {
		return fmt.Errorf("LEDGER_SHARDS must be at least 1, got %d", c.Shards)
	}
	switch c.HistoryBackend {
	case HistoryMemory, HistorySQLite:
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.HistoryBackend)
	}
	return nil
}

// HistoryPath returns the SQLite path for one shard. With several shards each gets
// its own file so they never contend for the database lock.
func (c Config) HistoryPath(shard int) string {
	if c.Shards == 1 || c.HistorySQLitePath == ":memory:" {
		return c.HistorySQLitePath
	}
	return fmt.Sprintf("%s.%d", c.HistorySQLitePath, shard)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
