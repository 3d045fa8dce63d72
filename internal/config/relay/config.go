package relay_config

import (
	"time"

	"github.com/stellarwallet/relay/internal/history"
	"github.com/stellarwallet/relay/internal/obs"
	kafkarepo "github.com/stellarwallet/relay/internal/repository/kafka"
	pg "github.com/stellarwallet/relay/internal/repository/postgres"
	"github.com/stellarwallet/relay/internal/repository/telegram"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Notifier holds the external subscription service settings. SecretSeed is
// the bot's Stellar secret (S...), WebhookPublicKey the notifier's account
// address (G...); either may be empty.
type Notifier struct {
	BaseURL           string        `mapstructure:"base_url"`
	ReactionURL       string        `mapstructure:"reaction_url"`
	SecretSeed        string        `mapstructure:"secret_seed"`
	WebhookPublicKey  string        `mapstructure:"webhook_public_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval"`
	BatchPause        time.Duration `mapstructure:"batch_pause"`
	BatchSize         int           `mapstructure:"batch_size"`
}

type History struct {
	TTL             time.Duration `mapstructure:"ttl"`
	MaxPerUser      int           `mapstructure:"max_per_user"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type Dedup struct {
	Capacity int `mapstructure:"capacity"`
}

type Config struct {
	App      App              `mapstructure:"app"`
	Server   Server           `mapstructure:"server"`
	DB       pg.Config        `mapstructure:"db"`
	OTEL     OTEL             `mapstructure:"otel"`
	Log      Log              `mapstructure:"log"`
	Notifier Notifier         `mapstructure:"notifier"`
	History  History          `mapstructure:"history"`
	Dedup    Dedup            `mapstructure:"dedup"`
	Telegram telegram.Config  `mapstructure:"telegram"`
	Kafka    kafkarepo.Config `mapstructure:"kafka"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    c.App.Name,
		Env:    c.App.Env,
		Ver:    c.App.Version,
	}
}

func (c *Config) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:         c.OTEL.Enable,
		Endpoint:       c.OTEL.OTLPEndpoint,
		ServiceName:    c.OTEL.ServiceName,
		ServiceVersion: c.App.Version,
		SampleRatio:    c.OTEL.SampleRatio,
	}
}

func (h History) AsCacheConfig() history.Config {
	return history.Config{TTL: h.TTL, MaxPerUser: h.MaxPerUser}
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
