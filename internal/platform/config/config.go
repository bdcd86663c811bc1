package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	strs "donorlink/pkg/platform/strings"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Server captures process level configuration.
type Server struct {
	Addr                 string        `env:"DONORLINK_ADDR" envDefault:":8080"`
	AdminToken           string        `env:"ADMIN_TOKEN"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	EnforceCompatibility bool          `env:"ENFORCE_COMPATIBILITY" envDefault:"false"`
	SeedDemo             bool          `env:"SEED_DEMO" envDefault:"false"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// WriteRateLimit caps writes per client IP per WriteRateWindow. Zero disables it.
	WriteRateLimit  int           `env:"WRITE_RATE_LIMIT" envDefault:"60"`
	WriteRateWindow time.Duration `env:"WRITE_RATE_WINDOW" envDefault:"1m"`

	Store   StoreConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Tracing TracingConfig
}

// StoreConfig selects and tunes the donation database.
type StoreConfig struct {
	Driver         string        `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"donorlink.db"`
	LockTimeout    time.Duration `env:"DB_LOCK_TIMEOUT" envDefault:"2s"`
	TxTimeout      time.Duration `env:"TX_TIMEOUT" envDefault:"5s"`
	MigrateOnStart bool          `env:"MIGRATE_ON_START" envDefault:"true"`
	MaxOpenConns   int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns   int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

// RedisConfig configures the donor stats cache. An empty URL disables it.
type RedisConfig struct {
	URL           string        `env:"REDIS_URL"`
	PoolSize      int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns  int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout   time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout   time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout  time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"5m"`
}

// KafkaConfig configures the outbox relay. No brokers means events are
// written to the log instead.
type KafkaConfig struct {
	Brokers      []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Topic        string        `env:"KAFKA_TOPIC" envDefault:"donorlink.donations"`
	PollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"1s"`
	BatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
}

// TracingConfig enables OTLP export when an endpoint is set.
type TracingConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"donorlink"`
}

// Load reads .env and .env.local when present, then the environment.
func Load() (Server, error) {
	for _, file := range []string{".env", ".env.local"} {
		_ = godotenv.Load(file)
	}
	return FromEnv()
}

// FromEnv parses the process environment without touching dotenv files.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Kafka.Brokers = strs.DedupeAndTrim(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.WriteRateLimit < 0 {
		return errors.New("WRITE_RATE_LIMIT cannot be negative")
	}
	if c.Store.TxTimeout <= 0 {
		return errors.New("TX_TIMEOUT must be positive")
	}
	return nil
}
