package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"storefront/internal/models"
)

// Config holds every setting the storefront reads at startup.
type Config struct {
	Env      string
	AppPort  string
	LogLevel string

	DBDriver       string
	DatabaseDSN    string
	DBMaxOpenConns int
	SeedData       bool

	JWTSecret   string
	RabbitMQURL string

	RedisAddr      string
	IdempotencyTTL time.Duration

	OrderNumberPrefix  string
	OrderInitialStatus models.OrderStatus
	PlacementTimeout   time.Duration
}

// Load reads configuration from defaults, an optional file named by CONFIG_FILE
// and the environment, in increasing order of precedence.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:storefront.db?_txlock=immediate&_busy_timeout=10000&_journal_mode=WAL")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("SEED_DATA", true)
	v.SetDefault("JWT_SECRET", "change_me")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("ORDER_NUMBER_PREFIX", "ORD")
	v.SetDefault("ORDER_INITIAL_STATUS", string(models.OrderStatusDelivered))
	v.SetDefault("PLACEMENT_TIMEOUT", "10s")
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		Env:               v.GetString("APP_ENV"),
		AppPort:           v.GetString("APP_PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		SeedData:          v.GetBool("SEED_DATA"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		IdempotencyTTL:    v.GetDuration("IDEMPOTENCY_TTL"),
		OrderNumberPrefix: v.GetString("ORDER_NUMBER_PREFIX"),
		PlacementTimeout:  v.GetDuration("PLACEMENT_TIMEOUT"),
	}

	status, err := models.ParseOrderStatus(v.GetString("ORDER_INITIAL_STATUS"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ORDER_INITIAL_STATUS: %w", err)
	}
	cfg.OrderInitialStatus = status

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.OrderNumberPrefix == "" {
		return fmt.Errorf("ORDER_NUMBER_PREFIX must not be empty")
	}
	if c.PlacementTimeout <= 0 {
		return fmt.Errorf("PLACEMENT_TIMEOUT must be positive")
	}
	return nil
}
