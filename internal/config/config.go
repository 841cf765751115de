package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DBConfig struct {
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	MaxRetries int
}

type KafkaConfig struct {
	Broker        string
	ConsumerGroup string
	PollInterval  time.Duration
}

// EarningsConfig toggles the two gross-earnings sources. Both are on by
// default, which reproduces the legacy behaviour of summing them blindly.
type EarningsConfig struct {
	IncludeRoutes       bool
	IncludeLegacyWeekly bool
}

type CompensationConfig struct {
	Earnings                EarningsConfig
	AllowDispatcherFallback bool
	BatchConcurrency        int
	PayoutDefaultPeriodDays int
	PaymentReferencePrefix  string
	IdempotencyResponseTTL  time.Duration
}

type Config struct {
	Env          string
	HTTP         HTTPConfig
	DB           DBConfig
	RedisAddr    string
	Kafka        KafkaConfig
	JWTSecret    string
	Compensation CompensationConfig
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the process environment once. Callers are expected to have run
// godotenv.Load beforehand.
func Load() (Config, error) {
	var cfg Config
	var err error

	cfg.Env = envOrDefault("APP_ENV", "development")

	cfg.HTTP.Port = envOrDefault("PORT", "3000")
	cfg.HTTP.ReadTimeout = 5 * time.Second
	cfg.HTTP.WriteTimeout = 30 * time.Second
	cfg.HTTP.IdleTimeout = 60 * time.Second

	cfg.DB.Host = envOrDefault("DB_HOST", "localhost")
	cfg.DB.User = envOrDefault("DB_USER", "postgres")
	cfg.DB.Password = os.Getenv("DB_PASSWORD")
	cfg.DB.Name = envOrDefault("DB_NAME", "fleetpay")
	cfg.DB.Port = envOrDefault("DB_PORT", "5432")
	cfg.DB.SSLMode = envOrDefault("DB_SSLMODE", "disable")
	if cfg.DB.MaxRetries, err = envInt("DB_MAX_RETRIES", 5); err != nil {
		return Config{}, err
	}

	cfg.RedisAddr = envOrDefault("REDIS_ADDR", "localhost:6379")

	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.ConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", "go-fleetpay-compensation")
	if cfg.Kafka.PollInterval, err = envDuration("OUTBOX_POLL_INTERVAL", 3*time.Second); err != nil {
		return Config{}, err
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	comp := &cfg.Compensation
	if comp.Earnings.IncludeRoutes, err = envBool("EARNINGS_INCLUDE_ROUTES", true); err != nil {
		return Config{}, err
	}
	if comp.Earnings.IncludeLegacyWeekly, err = envBool("EARNINGS_INCLUDE_LEGACY_WEEKLY", true); err != nil {
		return Config{}, err
	}
	if comp.AllowDispatcherFallback, err = envBool("RATE_DISPATCHER_FALLBACK", false); err != nil {
		return Config{}, err
	}
	if comp.BatchConcurrency, err = envInt("BATCH_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}
	if comp.PayoutDefaultPeriodDays, err = envInt("PAYOUT_DEFAULT_PERIOD_DAYS", 7); err != nil {
		return Config{}, err
	}
	comp.PaymentReferencePrefix = envOrDefault("PAYMENT_REFERENCE_PREFIX", "PAY")
	if comp.IdempotencyResponseTTL, err = envDuration("IDEMPOTENCY_RESPONSE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Compensation.BatchConcurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be at least 1, got %d", c.Compensation.BatchConcurrency)
	}
	if c.Compensation.PayoutDefaultPeriodDays < 1 {
		return fmt.Errorf("PAYOUT_DEFAULT_PERIOD_DAYS must be at least 1, got %d", c.Compensation.PayoutDefaultPeriodDays)
	}
	if !c.Compensation.Earnings.IncludeRoutes && !c.Compensation.Earnings.IncludeLegacyWeekly {
		return fmt.Errorf("at least one earnings source must be enabled")
	}
	return nil
}

// Default returns the configuration used when no environment is present.
// Tests build on it instead of touching os.Setenv.
func Default() Config {
	return Config{
		Env: "development",
		HTTP: HTTPConfig{
			Port:         "3000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Compensation: CompensationConfig{
			Earnings:                EarningsConfig{IncludeRoutes: true, IncludeLegacyWeekly: true},
			BatchConcurrency:        4,
			PayoutDefaultPeriodDays: 7,
			PaymentReferencePrefix:  "PAY",
			IdempotencyResponseTTL:  24 * time.Hour,
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
