package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Transport TransportConfig `mapstructure:"transport"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	// Enabled turns on event publishing to Redis. Off by default;
	// the engine is fully functional without a broker.
	Enabled      bool   `mapstructure:"enabled"`
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type WorkerConfig struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	MetricsAddr    string        `mapstructure:"metrics_addr"`
	DeliveryRate   float64       `mapstructure:"delivery_rate"`   // deliveries per second
	DeliveryBurst  int           `mapstructure:"delivery_burst"`  //
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`   // pushed onto scheduled_for after a failed delivery
	TemplateTTL    time.Duration `mapstructure:"template_ttl"`    // template cache lifetime
	DefaultOffsets []int         `mapstructure:"default_offsets"` // days before start
}

type TransportConfig struct {
	// Kind selects the delivery channel: "simulated" or "smtp".
	Kind        string  `mapstructure:"kind"`
	SuccessRate float64 `mapstructure:"success_rate"` // simulated transport only

	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	SMTPUser string `mapstructure:"smtp_user"`
	SMTPPass string `mapstructure:"smtp_pass"`
	From     string `mapstructure:"from"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("REMINDERD")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "reminderd")
	viper.SetDefault("database.name", "reminderd")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 2)

	viper.SetDefault("worker.poll_interval", 30*time.Second)
	viper.SetDefault("worker.metrics_addr", ":9090")
	viper.SetDefault("worker.delivery_rate", 10.0)
	viper.SetDefault("worker.delivery_burst", 5)
	viper.SetDefault("worker.retry_backoff", 30*time.Minute)
	viper.SetDefault("worker.template_ttl", 5*time.Minute)
	viper.SetDefault("worker.default_offsets", []int{7, 2})

	viper.SetDefault("transport.kind", "simulated")
	viper.SetDefault("transport.success_rate", 0.8)
	viper.SetDefault("transport.smtp_port", 587)

	viper.SetDefault("logging.level", "info")
}
