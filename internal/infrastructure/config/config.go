package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/purchase-approval/internal/domain/model"
)

// Profile sources for the capacity lookup.
const (
	ProfileSourceStatic   = "static"
	ProfileSourcePostgres = "postgres"
)

// PurchaseConfig holds the approval bounds. Amounts are decimals so that
// fractional limits survive both the YAML file and the environment.
type PurchaseConfig struct {
	MinAmount decimal.Decimal `yaml:"min_amount"`
	MaxAmount decimal.Decimal `yaml:"max_amount"`
	MinPeriod int             `yaml:"min_period"`
	MaxPeriod int             `yaml:"max_period"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// KafkaConfig configures event publishing and the optional profile sync
// consumer. An empty ProfileTopic disables the consumer.
type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	Topic         string   `yaml:"topic"`
	ProfileTopic  string   `yaml:"profile_topic"`
	ConsumerGroup string   `yaml:"consumer_group"`
	TLS           bool     `yaml:"tls"`
	SASLMechanism string   `yaml:"sasl_mechanism"`
	SASLUsername  string   `yaml:"sasl_username"`
	SASLPassword  string   `yaml:"sasl_password"`
}

// OutboxConfig configures the relay that re-publishes undelivered events.
type OutboxConfig struct {
	RelayCron string        `yaml:"relay_cron"`
	Grace     time.Duration `yaml:"grace"`
	BatchSize int           `yaml:"batch_size"`
}

// RedisConfig configures the capacity cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// JournalConfig configures the local SQLite decision journal.
type JournalConfig struct {
	SQLitePath    string `yaml:"sqlite_path"`
	RetentionDays int    `yaml:"retention_days"`
	PruneCron     string `yaml:"prune_cron"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig configures OTLP export. An empty Endpoint disables tracing.
type TracingConfig struct {
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

// TLSConfig enables TLS on the gRPC listener when both files are set.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
	CAFile   string `yaml:"ca_file"`
}

type Config struct {
	ServiceName   string         `yaml:"service_name"`
	HTTPPort      int            `yaml:"http_port"`
	GRPCPort      int            `yaml:"grpc_port"`
	RateLimitRPS  int            `yaml:"rate_limit_rps"`
	ProfileSource string         `yaml:"profile_source"`
	Purchase      PurchaseConfig `yaml:"purchase"`
	DB            DatabaseConfig `yaml:"database"`
	Kafka         KafkaConfig    `yaml:"kafka"`
	Redis         RedisConfig    `yaml:"redis"`
	Outbox        OutboxConfig   `yaml:"outbox"`
	Journal       JournalConfig  `yaml:"journal"`
	Log           LogConfig      `yaml:"log"`
	Tracing       TracingConfig  `yaml:"tracing"`
	TLS           TLSConfig      `yaml:"tls"`
}

// Default returns the configuration used when neither a file nor the
// environment provides a value.
func Default() Config {
	return Config{
		ServiceName:   "purchase-approval",
		HTTPPort:      8088,
		GRPCPort:      9088,
		RateLimitRPS:  100,
		ProfileSource: ProfileSourceStatic,
		Purchase: PurchaseConfig{
			MinAmount: decimal.NewFromInt(200),
			MaxAmount: decimal.NewFromInt(5000),
			MinPeriod: 6,
			MaxPeriod: 24,
		},
		DB: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "bib",
			Name:    "bib_purchase",
			SSLMode: "require",
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			Topic:         "purchase-events",
			ConsumerGroup: "purchase-approval",
		},
		Outbox: OutboxConfig{
			RelayCron: "*/30 * * * * *",
			Grace:     time.Minute,
			BatchSize: 100,
		},
		Redis: RedisConfig{TTL: 5 * time.Minute},
		Journal: JournalConfig{
			SQLitePath:    "data/decisions.db",
			RetentionDays: 90,
			PruneCron:     "0 0 3 * * *",
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load starts from Default, overlays an optional YAML file and then the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error
	if cfg.Purchase.MinAmount, err = getEnvDecimal("PURCHASE_MIN_AMOUNT", cfg.Purchase.MinAmount); err != nil {
		return err
	}
	if cfg.Purchase.MaxAmount, err = getEnvDecimal("PURCHASE_MAX_AMOUNT", cfg.Purchase.MaxAmount); err != nil {
		return err
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = getEnvInt("GRPC_PORT", cfg.GRPCPort)
	cfg.RateLimitRPS = getEnvInt("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.ProfileSource = getEnv("PROFILE_SOURCE", cfg.ProfileSource)

	cfg.Purchase.MinPeriod = getEnvInt("PURCHASE_MIN_PERIOD", cfg.Purchase.MinPeriod)
	cfg.Purchase.MaxPeriod = getEnvInt("PURCHASE_MAX_PERIOD", cfg.Purchase.MaxPeriod)

	cfg.DB.Host = getEnv("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnvInt("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnv("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnv("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = getEnv("DB_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", cfg.DB.SSLMode)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.ProfileTopic = getEnv("KAFKA_PROFILE_TOPIC", cfg.Kafka.ProfileTopic)
	cfg.Kafka.ConsumerGroup = getEnv("KAFKA_CONSUMER_GROUP", cfg.Kafka.ConsumerGroup)
	cfg.Kafka.TLS = getEnvBool("KAFKA_TLS", cfg.Kafka.TLS)
	cfg.Kafka.SASLMechanism = getEnv("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = getEnv("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = getEnv("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)

	cfg.Outbox.RelayCron = getEnv("OUTBOX_RELAY_CRON", cfg.Outbox.RelayCron)
	cfg.Outbox.Grace = getEnvDuration("OUTBOX_GRACE", cfg.Outbox.Grace)
	cfg.Outbox.BatchSize = getEnvInt("OUTBOX_BATCH_SIZE", cfg.Outbox.BatchSize)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.TTL = getEnvDuration("REDIS_TTL", cfg.Redis.TTL)

	cfg.Journal.SQLitePath = getEnv("SQLITE_PATH", cfg.Journal.SQLitePath)
	cfg.Journal.RetentionDays = getEnvInt("JOURNAL_RETENTION_DAYS", cfg.Journal.RetentionDays)
	cfg.Journal.PruneCron = getEnv("JOURNAL_PRUNE_CRON", cfg.Journal.PruneCron)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)

	cfg.TLS.CertFile = getEnv("TLS_CERT_FILE", cfg.TLS.CertFile)
	cfg.TLS.KeyFile = getEnv("TLS_KEY_FILE", cfg.TLS.KeyFile)
	cfg.TLS.CAFile = getEnv("TLS_CA_FILE", cfg.TLS.CAFile)
	return nil
}

// Validate checks the loaded configuration for values the service cannot run with.
func (c Config) Validate() error {
	if _, err := c.Bounds(); err != nil {
		return err
	}
	if c.DB.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	switch c.ProfileSource {
	case ProfileSourceStatic, ProfileSourcePostgres:
	default:
		return fmt.Errorf("profile source must be %q or %q, got %q",
			ProfileSourceStatic, ProfileSourcePostgres, c.ProfileSource)
	}
	if c.HTTPPort <= 0 || c.GRPCPort <= 0 {
		return errors.New("ports must be positive")
	}
	if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
		return errors.New("kafka brokers and topic are required")
	}
	switch c.Kafka.SASLMechanism {
	case "", "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
	default:
		return fmt.Errorf("unsupported kafka SASL mechanism %q", c.Kafka.SASLMechanism)
	}
	if c.Outbox.BatchSize <= 0 {
		return errors.New("outbox batch size must be positive")
	}
	if c.Journal.RetentionDays <= 0 {
		return errors.New("journal retention days must be positive")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return errors.New("TLS requires both a certificate and a key file")
	}
	return nil
}

// Bounds returns the validated domain bounds for the approval engine.
func (c Config) Bounds() (model.Bounds, error) {
	b, err := model.NewBounds(
		c.Purchase.MinAmount,
		c.Purchase.MaxAmount,
		c.Purchase.MinPeriod,
		c.Purchase.MaxPeriod,
	)
	if err != nil {
		return model.Bounds{}, fmt.Errorf("purchase bounds: %w", err)
	}
	return b, nil
}

func (c Config) GRPCAddr() string { return fmt.Sprintf(":%d", c.GRPCPort) }
func (c Config) HTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

// TLSEnabled reports whether gRPC should serve TLS.
func (c Config) TLSEnabled() bool { return c.TLS.CertFile != "" && c.TLS.KeyFile != "" }

// RedisEnabled reports whether the capacity cache is configured.
func (c Config) RedisEnabled() bool { return c.Redis.Addr != "" }

// ProfileSyncEnabled reports whether financial profiles are kept current from Kafka.
func (c Config) ProfileSyncEnabled() bool {
	return c.ProfileSource == ProfileSourcePostgres && c.Kafka.ProfileTopic != ""
}

// TracingEnabled reports whether spans are exported.
func (c Config) TracingEnabled() bool { return c.Tracing.Endpoint != "" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDecimal parses a decimal variable. Unlike the other helpers it does
// not fall back on a bad value: a mistyped bound must stop the service.
func getEnvDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
