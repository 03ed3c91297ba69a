package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/purchase-approval/internal/domain/model"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "approvald.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8088", cfg.HTTPAddr())
	assert.Equal(t, ":9088", cfg.GRPCAddr())
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.TLSEnabled())
	assert.False(t, cfg.TracingEnabled())

	bounds, err := cfg.Bounds()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBounds().String(), bounds.String())
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := writeFile(t, `
http_port: 8100
profile_source: postgres
purchase:
  max_amount: 10000
  max_period: 36
kafka:
  brokers: ["k1:9092", "k2:9092"]
redis:
  addr: redis:6379
  ttl: 30s
journal:
  retention_days: 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8100, cfg.HTTPPort)
	assert.Equal(t, 9088, cfg.GRPCPort)
	assert.Equal(t, ProfileSourcePostgres, cfg.ProfileSource)
	assert.Equal(t, "200", cfg.Purchase.MinAmount.String())
	assert.Equal(t, "10000", cfg.Purchase.MaxAmount.String())
	assert.Equal(t, 6, cfg.Purchase.MinPeriod)
	assert.Equal(t, 36, cfg.Purchase.MaxPeriod)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "purchase-events", cfg.Kafka.Topic)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 7, cfg.Journal.RetentionDays)
	assert.Equal(t, "0 0 3 * * *", cfg.Journal.PruneCron)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "purchase:\n  min_amount: 300\n")
	t.Setenv("PURCHASE_MIN_AMOUNT", "250")
	t.Setenv("PURCHASE_MAX_PERIOD", "48")
	t.Setenv("KAFKA_BROKERS", "a:1, b:2 ,")
	t.Setenv("REDIS_TTL", "1m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GRPC_PORT", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "250", cfg.Purchase.MinAmount.String())
	assert.Equal(t, 48, cfg.Purchase.MaxPeriod)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9088, cfg.GRPCPort)
}

func TestLoad_FractionalBounds(t *testing.T) {
	t.Run("from the environment", func(t *testing.T) {
		t.Setenv("PURCHASE_MIN_AMOUNT", "199.50")
		t.Setenv("PURCHASE_MAX_AMOUNT", " 4999.99 ")

		cfg, err := Load("")
		require.NoError(t, err)

		b, err := cfg.Bounds()
		require.NoError(t, err)
		assert.Equal(t, "199.5", b.MinAmount().String())
		assert.Equal(t, "4999.99", b.MaxAmount().String())
	})

	t.Run("from the file", func(t *testing.T) {
		cfg, err := Load(writeFile(t, "purchase:\n  min_amount: 150.25\n  max_amount: \"7500.5\"\n"))
		require.NoError(t, err)

		b, err := cfg.Bounds()
		require.NoError(t, err)
		assert.True(t, b.MinAmount().Equal(decimal.RequireFromString("150.25")))
		assert.True(t, b.MaxAmount().Equal(decimal.RequireFromString("7500.5")))
	})

	t.Run("unparseable amount is an error", func(t *testing.T) {
		t.Setenv("PURCHASE_MIN_AMOUNT", "two hundred")

		_, err := Load("")
		assert.ErrorContains(t, err, "PURCHASE_MIN_AMOUNT")
	})

	t.Run("unparseable file amount is an error", func(t *testing.T) {
		_, err := Load(writeFile(t, "purchase:\n  max_amount: lots\n"))
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("too many decimal places fail validation", func(t *testing.T) {
		t.Setenv("PURCHASE_MAX_AMOUNT", "5000.00001")

		cfg, err := Load("")
		require.NoError(t, err)
		cfg.DB.Password = "secret"
		assert.ErrorIs(t, cfg.Validate(), model.ErrInvalidBounds)
	})
}

func TestLoad_KafkaAndOutboxEnv(t *testing.T) {
	t.Setenv("PROFILE_SOURCE", "postgres")
	t.Setenv("KAFKA_PROFILE_TOPIC", "financial-profiles")
	t.Setenv("KAFKA_TLS", "true")
	t.Setenv("KAFKA_SASL_MECHANISM", "SCRAM-SHA-512")
	t.Setenv("OUTBOX_GRACE", "2m")
	t.Setenv("OUTBOX_BATCH_SIZE", "25")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.ProfileSyncEnabled())
	assert.True(t, cfg.Kafka.TLS)
	assert.Equal(t, "SCRAM-SHA-512", cfg.Kafka.SASLMechanism)
	assert.Equal(t, "purchase-approval", cfg.Kafka.ConsumerGroup)
	assert.Equal(t, 2*time.Minute, cfg.Outbox.Grace)
	assert.Equal(t, 25, cfg.Outbox.BatchSize)
	assert.Equal(t, "*/30 * * * * *", cfg.Outbox.RelayCron)

	cfg.ProfileSource = ProfileSourceStatic
	assert.False(t, cfg.ProfileSyncEnabled())
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeFile(t, "purchase: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func validConfig() Config {
	cfg := Default()
	cfg.DB.Password = "secret"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min amount", func(c *Config) { c.Purchase.MinAmount = decimal.Zero }},
		{"negative min amount", func(c *Config) { c.Purchase.MinAmount = decimal.NewFromInt(-100) }},
		{"min above max", func(c *Config) { c.Purchase.MinAmount = decimal.NewFromInt(6000) }},
		{"zero min period", func(c *Config) { c.Purchase.MinPeriod = 0 }},
		{"min period above max", func(c *Config) { c.Purchase.MinPeriod = 30 }},
		{"missing db password", func(c *Config) { c.DB.Password = "" }},
		{"unknown profile source", func(c *Config) { c.ProfileSource = "ldap" }},
		{"zero port", func(c *Config) { c.HTTPPort = 0 }},
		{"zero retention", func(c *Config) { c.Journal.RetentionDays = 0 }},
		{"tls cert without key", func(c *Config) { c.TLS.CertFile = "cert.pem" }},
		{"no kafka brokers", func(c *Config) { c.Kafka.Brokers = nil }},
		{"unknown sasl mechanism", func(c *Config) { c.Kafka.SASLMechanism = "GSSAPI" }},
		{"zero outbox batch", func(c *Config) { c.Outbox.BatchSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Bounds(t *testing.T) {
	cfg := validConfig()
	cfg.Purchase = PurchaseConfig{
		MinAmount: decimal.NewFromInt(100),
		MaxAmount: decimal.NewFromInt(900),
		MinPeriod: 3,
		MaxPeriod: 12,
	}

	b, err := cfg.Bounds()
	require.NoError(t, err)
	assert.True(t, b.MinAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, b.MaxAmount().Equal(decimal.NewFromInt(900)))
	assert.Equal(t, 3, b.MinPeriod())
	assert.Equal(t, 12, b.MaxPeriod())

	cfg.Purchase.MinAmount = decimal.Zero
	_, err = cfg.Bounds()
	assert.ErrorIs(t, err, model.ErrInvalidBounds)
}
