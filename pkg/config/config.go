// Package config reads service configuration from the environment, optionally
// seeded from a .env file and a config.yaml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chris/transit-tickets/pkg/storage/dynamodb"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"

	SchedulerLocal = "local"
	SchedulerSQS   = "sqs"
)

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	Log       Log       `yaml:"log"`
	Store     Store     `yaml:"store"`
	Tables    Tables    `yaml:"tables"`
	Scheduler Scheduler `yaml:"scheduler"`
	Redis     Redis     `yaml:"redis"`
	Tickets   Tickets   `yaml:"tickets"`
	WebSocket WebSocket `yaml:"websocket"`
}

type HTTP struct {
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type Store struct {
	Backend   string        `yaml:"backend" env:"STORE_BACKEND" env-default:"dynamodb"`
	IOTimeout time.Duration `yaml:"io_timeout" env:"IO_TIMEOUT" env-default:"10s"`
	StreamARN string        `yaml:"stream_arn" env:"TICKETS_STREAM_ARN"`
	PollEvery time.Duration `yaml:"stream_poll_interval" env:"STREAM_POLL_INTERVAL" env-default:"1s"`
}

type Tables struct {
	Tickets     string `yaml:"tickets" env:"DYNAMODB_TICKETS_TABLE_NAME" env-default:"tickets"`
	Ledger      string `yaml:"ledger" env:"DYNAMODB_LEDGER_TABLE_NAME" env-default:"ledger"`
	Cards       string `yaml:"cards" env:"DYNAMODB_CARDS_TABLE_NAME" env-default:"saved_cards"`
	QRRegistry  string `yaml:"qr_registry" env:"DYNAMODB_QR_REGISTRY_TABLE_NAME" env-default:"qr_registry"`
	Connections string `yaml:"connections" env:"DYNAMODB_CONNECTIONS_TABLE_NAME" env-default:"websocket_connections"`
}

type Scheduler struct {
	Backend           string        `yaml:"backend" env:"SCHEDULER_BACKEND" env-default:"local"`
	QueueURL          string        `yaml:"queue_url" env:"SQS_QUEUE_URL"`
	CountdownInterval time.Duration `yaml:"countdown_interval" env:"COUNTDOWN_INTERVAL" env-default:"1s"`
	SweepInterval     time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL" env-default:"1m"`
}

type Redis struct {
	Addr string        `yaml:"addr" env:"REDIS_ADDR"`
	TTL  time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"5m"`
}

type Tickets struct {
	Price int64 `yaml:"price" env:"TICKET_PRICE" env-default:"10"`
}

type WebSocket struct {
	APIEndpoint string `yaml:"api_endpoint" env:"WEBSOCKET_API_ENDPOINT"`
}

// Load reads .env (if present), then config.yaml (if present), then the
// environment, which overrides both.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{}
	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations that env tags cannot express.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreDynamoDB, StoreMemory:
	default:
		return fmt.Errorf("config error: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Scheduler.Backend {
	case SchedulerLocal:
	case SchedulerSQS:
		if c.Scheduler.QueueURL == "" {
			return errors.New("config error: SQS_QUEUE_URL is required when SCHEDULER_BACKEND=sqs")
		}
	default:
		return fmt.Errorf("config error: unknown SCHEDULER_BACKEND %q", c.Scheduler.Backend)
	}
	if c.Tickets.Price <= 0 {
		return fmt.Errorf("config error: TICKET_PRICE must be positive, got %d", c.Tickets.Price)
	}
	if c.Store.IOTimeout <= 0 {
		return errors.New("config error: IO_TIMEOUT must be positive")
	}
	if c.Scheduler.CountdownInterval <= 0 || c.Scheduler.SweepInterval <= 0 {
		return errors.New("config error: COUNTDOWN_INTERVAL and SWEEP_INTERVAL must be positive")
	}
	return nil
}

// DynamoDBTables converts the configured table names for the DynamoDB store.
func (c *Config) DynamoDBTables() dynamodb.Tables {
	return dynamodb.Tables{
		Tickets:     c.Tables.Tickets,
		Ledger:      c.Tables.Ledger,
		Cards:       c.Tables.Cards,
		QRRegistry:  c.Tables.QRRegistry,
		Connections: c.Tables.Connections,
	}
}
