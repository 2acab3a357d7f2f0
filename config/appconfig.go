package config

import (
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// StoreConfig selects the accounting backend: "redis" (default) or "postgres".
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

type ProcessorConfig struct {
	DefaultURL     string        `mapstructure:"default_url"`
	FallbackURL    string        `mapstructure:"fallback_url"`
	PaymentTimeout time.Duration `mapstructure:"payment_timeout"`
	HealthTimeout  time.Duration `mapstructure:"health_timeout"`
	HealthInterval time.Duration `mapstructure:"health_interval"`
}

type WorkerConfig struct {
	Count              int `mapstructure:"count"`
	MaxConcurrentCalls int `mapstructure:"max_concurrent_calls"`
}

type SummaryConfig struct {
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	JaegerURL   string `mapstructure:"jaeger_url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	Server    *ServerConfig    `mapstructure:"server"`
	Redis     *RedisConfig     `mapstructure:"redis"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	Store     *StoreConfig     `mapstructure:"store"`
	Processor *ProcessorConfig `mapstructure:"processor"`
	Worker    *WorkerConfig    `mapstructure:"worker"`
	Summary   *SummaryConfig   `mapstructure:"summary"`
	Telemetry *TelemetryConfig `mapstructure:"telemetry"`
	Log       *LogConfig       `mapstructure:"log"`
}

func LoadConfig() (*AppConfig, error) {
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 9999)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("store.backend", "redis")
	viper.SetDefault("processor.default_url", "http://payment-processor-default:8080")
	viper.SetDefault("processor.fallback_url", "http://payment-processor-fallback:8080")
	viper.SetDefault("processor.payment_timeout", "6s")
	viper.SetDefault("processor.health_timeout", "1500ms")
	viper.SetDefault("processor.health_interval", "5s")
	viper.SetDefault("worker.count", 3)
	viper.SetDefault("worker.max_concurrent_calls", 10)
	viper.SetDefault("summary.read_timeout", "200ms")
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.service_name", "payflow")
	viper.SetDefault("telemetry.jaeger_url", "http://jaeger:14268/api/traces")
	viper.SetDefault("log.level", "info")

	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.host", "SERVER_HOST")
	_ = viper.BindEnv("redis.url", "REDIS_URL")
	_ = viper.BindEnv("postgres.url", "POSTGRES_URL")
	_ = viper.BindEnv("store.backend", "STORE_BACKEND")
	_ = viper.BindEnv("processor.default_url", "PROCESSOR_DEFAULT_URL")
	_ = viper.BindEnv("processor.fallback_url", "PROCESSOR_FALLBACK_URL")
	_ = viper.BindEnv("processor.payment_timeout", "PROCESSOR_PAYMENT_TIMEOUT")
	_ = viper.BindEnv("processor.health_timeout", "PROCESSOR_HEALTH_TIMEOUT")
	_ = viper.BindEnv("processor.health_interval", "PROCESSOR_HEALTH_INTERVAL")
	_ = viper.BindEnv("worker.count", "WORKER_COUNT")
	_ = viper.BindEnv("worker.max_concurrent_calls", "WORKER_MAX_CONCURRENT_CALLS")
	_ = viper.BindEnv("summary.read_timeout", "SUMMARY_READ_TIMEOUT")
	_ = viper.BindEnv("telemetry.enabled", "TELEMETRY_ENABLED")
	_ = viper.BindEnv("telemetry.service_name", "TELEMETRY_SERVICE_NAME")
	_ = viper.BindEnv("telemetry.jaeger_url", "JAEGER_URL")
	_ = viper.BindEnv("log.level", "LOG_LEVEL")

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
