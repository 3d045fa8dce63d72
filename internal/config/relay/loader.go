package relay_config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ErrNoDSN         = ErrConfig("config: db.dsn is required")
	ErrNoToken       = ErrConfig("config: telegram.token is required")
	ErrNoNotifier    = ErrConfig("config: notifier.base_url and notifier.reaction_url are required")
	ErrNoKafkaBroker = ErrConfig("config: kafka.brokers is required when kafka.enable is set")
)

// Load reads an optional YAML file and overlays the environment, with .env
// loaded first when present. Env names are the key paths with dots replaced
// by underscores, e.g. NOTIFIER_BASE_URL.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}

	v.SetDefault("app.name", "stellar-relay")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.version", "dev")

	v.SetDefault("server.http_addr", ":8081")
	v.SetDefault("server.metrics_addr", ":9102")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.graceful_timeout", "15s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("db.min_conns", 2)
	v.SetDefault("db.max_conn_lifetime", "30m")
	v.SetDefault("db.max_conn_idle_time", "10m")
	v.SetDefault("db.health_check_period", "30s")
	v.SetDefault("db.query_timeout", "3s")

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", "stellar-relay")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("notifier.base_url", "")
	v.SetDefault("notifier.reaction_url", "")
	v.SetDefault("notifier.secret_seed", "")
	v.SetDefault("notifier.webhook_public_key", "")
	v.SetDefault("notifier.timeout", "15s")
	v.SetDefault("notifier.reconcile_interval", "6h")
	v.SetDefault("notifier.batch_pause", "1s")
	v.SetDefault("notifier.batch_size", 10)

	v.SetDefault("history.ttl", "12h")
	v.SetDefault("history.max_per_user", 50)
	v.SetDefault("history.cleanup_interval", "1h")

	v.SetDefault("dedup.capacity", 1000)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.parse_mode", "HTML")
	v.SetDefault("telegram.server_url", "")

	v.SetDefault("kafka.enable", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", "relay.deliveries")
	v.SetDefault("kafka.retention", "168h")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DB.DSN == "" {
		errs = append(errs, ErrNoDSN)
	}
	if c.Telegram.Token == "" {
		errs = append(errs, ErrNoToken)
	}
	if c.Notifier.BaseURL == "" || c.Notifier.ReactionURL == "" {
		errs = append(errs, ErrNoNotifier)
	}
	if c.Kafka.Enable && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, ErrNoKafkaBroker)
	}
	return errors.Join(errs...)
}
