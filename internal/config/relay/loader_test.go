package relay_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/bot?sslmode=disable")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("NOTIFIER_BASE_URL", "https://notifier.example")
	t.Setenv("NOTIFIER_REACTION_URL", "https://relay.example/webhook")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Server.HTTPAddr)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 12*time.Hour, cfg.History.TTL)
	assert.Equal(t, 50, cfg.History.MaxPerUser)
	assert.Equal(t, time.Hour, cfg.History.CleanupInterval)
	assert.Equal(t, 1000, cfg.Dedup.Capacity)
	assert.Equal(t, 10, cfg.Notifier.BatchSize)
	assert.Equal(t, 15*time.Second, cfg.Notifier.Timeout)
	assert.Equal(t, "HTML", cfg.Telegram.ParseMode)
	assert.False(t, cfg.Kafka.Enable)
	assert.Equal(t, 168*time.Hour, cfg.Kafka.Retention)
	assert.Empty(t, cfg.Notifier.WebhookPublicKey)
	assert.Equal(t, 3*time.Second, cfg.DB.QueryTimeout)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	setRequired(t)
	path := filepath.Join(dir, "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_addr: ":7000"
history:
  ttl: 2h
kafka:
  enable: true
  topic: audit.deliveries
`), 0o600))
	t.Setenv("HISTORY_MAX_PER_USER", "5")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.HTTPAddr)
	assert.Equal(t, 2*time.Hour, cfg.History.TTL)
	assert.Equal(t, 5, cfg.History.MaxPerUser)
	assert.True(t, cfg.Kafka.Enable)
	assert.Equal(t, "audit.deliveries", cfg.Kafka.Topic)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	setRequired(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NOTIFIER_WEBHOOK_PUBLIC_KEY=abcd\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("NOTIFIER_WEBHOOK_PUBLIC_KEY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "abcd", cfg.Notifier.WebhookPublicKey)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DSN", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("NOTIFIER_BASE_URL", "")
	t.Setenv("NOTIFIER_REACTION_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDSN)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.ErrorIs(t, err, ErrNoNotifier)
}

func TestConfig_Adapters(t *testing.T) {
	c := &Config{
		App:     App{Name: "relay", Env: "prod", Version: "1.2.3"},
		Log:     Log{Level: "debug"},
		OTEL:    OTEL{Enable: true, OTLPEndpoint: "otel:4317", ServiceName: "relay", SampleRatio: 0.5},
		History: History{TTL: time.Hour, MaxPerUser: 3},
	}
	lc := c.AsLoggerConfig()
	assert.Equal(t, "relay", lc.App)
	assert.Equal(t, "1.2.3", lc.Ver)
	oc := c.AsOTELConfig()
	assert.Equal(t, "otel:4317", oc.Endpoint)
	assert.Equal(t, "1.2.3", oc.ServiceVersion)
	hc := c.History.AsCacheConfig()
	assert.Equal(t, 3, hc.MaxPerUser)
}
