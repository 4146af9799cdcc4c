package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix префикс переменных окружения, переопределяющих секреты файла
const envPrefix = "STUDIO"

// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Redis        RedisConfig        `toml:"redis"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Tracing      TracingConfig      `toml:"tracing"`
	Auth         AuthConfig         `toml:"auth"`
	Stripe       StripeConfig       `toml:"stripe"`
	Email        EmailConfig        `toml:"email"`
	Availability AvailabilityConfig `toml:"availability"`
	Worker       WorkerConfig       `toml:"worker"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	ServiceName  string  `toml:"service_name"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

type StripeConfig struct {
	Enabled          bool   `toml:"enabled"`
	SecretKey        string `toml:"secret_key"`
	WebhookSecret    string `toml:"webhook_secret"`
	WebhookToken     string `toml:"webhook_token"`     // секрет в пути URL вебхука
	WebhookTolerance int    `toml:"webhook_tolerance"` // секунды
	Currency         string `toml:"currency"`
}

type EmailConfig struct {
	SMTPHost     string `toml:"smtp_host"`
	SMTPPort     int    `toml:"smtp_port"`
	SMTPUsername string `toml:"smtp_username"`
	SMTPPassword string `toml:"smtp_password"`
	From         string `toml:"from"`
	QueueName    string `toml:"queue_name"`
}

type AvailabilityConfig struct {
	GranularityMinutes int `toml:"granularity_minutes"`
	CacheTTL           int `toml:"cache_ttl"` // секунды, 0 отключает кэш
}

type WorkerConfig struct {
	EmailMaxAttempts    int `toml:"email_max_attempts"`
	EmailBackoffSeconds int `toml:"email_backoff_seconds"`
	RefundSLAInterval   int `toml:"refund_sla_interval"`  // секунды
	RefundSLAThreshold  int `toml:"refund_sla_threshold"` // секунды
	RefundSLALookback   int `toml:"refund_sla_lookback"`  // секунды
}

// secrets значения, которые удобнее передавать через окружение (STUDIO_*)
type secrets struct {
	DatabaseHost        string `envconfig:"DB_HOST"`
	DatabasePassword    string `envconfig:"DB_PASSWORD"`
	RedisAddr           string `envconfig:"REDIS_ADDR"`
	RedisPassword       string `envconfig:"REDIS_PASSWORD"`
	JWTSecret           string `envconfig:"JWT_SECRET"`
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	StripeWebhookToken  string `envconfig:"STRIPE_WEBHOOK_TOKEN"`
	SMTPPassword        string `envconfig:"SMTP_PASSWORD"`
}

// Load читает TOML файл, подгружает .env (если есть) и накладывает переменные STUDIO_*
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	var env secrets
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applySecrets(env)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applySecrets(env secrets) {
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&c.Database.Host, env.DatabaseHost)
	override(&c.Database.Password, env.DatabasePassword)
	override(&c.Redis.Addr, env.RedisAddr)
	override(&c.Redis.Password, env.RedisPassword)
	override(&c.Auth.JWTSecret, env.JWTSecret)
	override(&c.Stripe.SecretKey, env.StripeSecretKey)
	override(&c.Stripe.WebhookSecret, env.StripeWebhookSecret)
	override(&c.Stripe.WebhookToken, env.StripeWebhookToken)
	override(&c.Email.SMTPPassword, env.SMTPPassword)
}

func (c *Config) applyDefaults() {
	setInt := func(dst *int, def int) {
		if *dst == 0 {
			*dst = def
		}
	}
	setStr := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}

	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 10)
	setInt(&c.Server.WriteTimeout, 10)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 15)

	setStr(&c.Database.Host, "localhost")
	setInt(&c.Database.Port, 5432)
	setStr(&c.Database.SSLMode, "disable")
	setInt(&c.Database.MaxOpenConns, 25)
	setInt(&c.Database.MaxIdleConns, 5)
	setInt(&c.Database.ConnMaxLifetime, 300)

	setStr(&c.Redis.Addr, "localhost:6379")

	setStr(&c.Logs.Level, "info")

	setStr(&c.Metrics.Path, "/metrics")
	setStr(&c.Metrics.ServiceName, "massage_studio_booking")
	setStr(&c.Tracing.ServiceName, "massage-studio-booking")

	setStr(&c.Auth.Issuer, "massage-studio")

	setInt(&c.Stripe.WebhookTolerance, 300)
	setStr(&c.Stripe.Currency, "usd")

	setInt(&c.Email.SMTPPort, 587)
	setStr(&c.Email.QueueName, "email_jobs")

	setInt(&c.Availability.GranularityMinutes, 15)
	setInt(&c.Availability.CacheTTL, 300)

	setInt(&c.Worker.EmailMaxAttempts, 3)
	setInt(&c.Worker.EmailBackoffSeconds, 60)
	setInt(&c.Worker.RefundSLAInterval, 60)
	setInt(&c.Worker.RefundSLAThreshold, 300)
	setInt(&c.Worker.RefundSLALookback, 86400)
}

// Validate отклоняет значения, с которыми сервис не сможет работать
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Database.DBName == "":
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	case c.Auth.JWTSecret == "":
		return fmt.Errorf("%w: auth.jwt_secret is required (or %s_JWT_SECRET)", ErrInvalidConfig, envPrefix)
	case c.Availability.GranularityMinutes < 1 || c.Availability.GranularityMinutes > 60:
		return fmt.Errorf("%w: availability.granularity_minutes must be 1..60", ErrInvalidConfig)
	case c.Availability.CacheTTL < 0:
		return fmt.Errorf("%w: availability.cache_ttl must be >= 0", ErrInvalidConfig)
	case c.Worker.RefundSLALookback <= c.Worker.RefundSLAThreshold:
		return fmt.Errorf("%w: worker.refund_sla_lookback must exceed refund_sla_threshold", ErrInvalidConfig)
	case c.Tracing.Enabled && c.Tracing.OTLPEndpoint == "":
		return fmt.Errorf("%w: tracing.otlp_endpoint is required when tracing is enabled", ErrInvalidConfig)
	}

	if c.Stripe.Enabled {
		switch {
		case c.Stripe.SecretKey == "":
			return fmt.Errorf("%w: stripe.secret_key is required", ErrInvalidConfig)
		case c.Stripe.WebhookSecret == "":
			return fmt.Errorf("%w: stripe.webhook_secret is required", ErrInvalidConfig)
		case c.Stripe.WebhookToken == "":
			return fmt.Errorf("%w: stripe.webhook_token is required", ErrInvalidConfig)
		}
	}
	return nil
}

func (c WorkerConfig) EmailBackoff() time.Duration {
	return time.Duration(c.EmailBackoffSeconds) * time.Second
}

func (c AvailabilityConfig) TTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}
