// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store backends for the engine.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Draft   Draft
	Redis   Redis
	NATS    NATS
	AMQP    AMQP
	Auth    Auth
	Outbox  Outbox
	Gateway Gateway
}

type Draft struct {
	HTTPAddr           string        `envconfig:"DRAFT_HTTP_ADDR" default:":8080"`
	Store              string        `envconfig:"DRAFT_STORE" default:"memory"`
	TimeUpdateInterval time.Duration `envconfig:"DRAFT_TIME_UPDATE_INTERVAL" default:"5s"`
	InboxSize          int           `envconfig:"DRAFT_INBOX_SIZE" default:"64"`
	SubscriberQueue    int           `envconfig:"DRAFT_SUBSCRIBER_QUEUE" default:"256"`
	ReplaySize         int           `envconfig:"DRAFT_REPLAY_SIZE" default:"64"`
	OpTimeout          time.Duration `envconfig:"DRAFT_OP_TIMEOUT" default:"10s"`
	SchedulerInterval  time.Duration `envconfig:"DRAFT_SCHEDULER_INTERVAL" default:"30s"`
	Sport              string        `envconfig:"DRAFT_SPORT" default:"nfl"`
	LineupFile         string        `envconfig:"LINEUP_FILE"`
	// UseDirectory loads teams and players from Postgres when a create
	// request omits them.
	UseDirectory bool `envconfig:"DRAFT_USE_DIRECTORY" default:"false"`
}

type Redis struct {
	Addr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"draft:"`
}

type NATS struct {
	URL string `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
}

type AMQP struct {
	URL   string `envconfig:"AMQP_URL"`
	Queue string `envconfig:"AMQP_QUEUE" default:"draft.events"`
}

type Auth struct {
	JWTSecret      string   `envconfig:"JWT_SECRET"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

type Outbox struct {
	Mode             string        `envconfig:"OUTBOX_MODE" default:"listen"`
	HTTPAddr         string        `envconfig:"OUTBOX_HTTP_ADDR" default:":8081"`
	PollInterval     time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	FallbackInterval time.Duration `envconfig:"FALLBACK_INTERVAL" default:"30s"`
	BatchSize        int32         `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	MaxRetries       int           `envconfig:"OUTBOX_MAX_RETRIES" default:"5"`
}

type Gateway struct {
	HTTPAddr string `envconfig:"GATEWAY_HTTP_ADDR" default:":8082"`
	// StateURL is the draftd base URL snapshots are fetched from.
	StateURL string `envconfig:"GATEWAY_STATE_URL" default:"http://localhost:8080"`
	// Consumer names a durable JetStream consumer. Empty gives each
	// instance its own ephemeral one.
	Consumer string `envconfig:"GATEWAY_CONSUMER"`
}

func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Draft.Store {
	case StoreMemory, StorePostgres, StoreRedis:
	default:
		return fmt.Errorf("DRAFT_STORE must be one of memory, postgres, redis: got %q", c.Draft.Store)
	}
	switch c.Outbox.Mode {
	case "listen", "poll":
	default:
		return fmt.Errorf("OUTBOX_MODE must be listen or poll: got %q", c.Outbox.Mode)
	}
	if c.Draft.TimeUpdateInterval < 0 {
		return fmt.Errorf("DRAFT_TIME_UPDATE_INTERVAL must not be negative")
	}
	if c.Draft.SchedulerInterval <= 0 {
		return fmt.Errorf("DRAFT_SCHEDULER_INTERVAL must be positive")
	}
	return nil
}

// SetupLogging points the global zerolog logger at a console writer on
// stderr with the given level. Unknown levels fall back to info.
func SetupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
