package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	Interval string `mapstructure:"SCHEDULER_INTERVAL"`
	Timezone string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// BusinessConfig carries the financing policy defaults applied when a
// contract request leaves them unset.
type BusinessConfig struct {
	DefaultLateInterestRate string `mapstructure:"DEFAULT_LATE_INTEREST_RATE"`
	DefaultLatePenalty      string `mapstructure:"DEFAULT_LATE_PENALTY"`
	DefaultFinancingRate    string `mapstructure:"DEFAULT_FINANCING_RATE"`
	DashboardCacheTTL       string `mapstructure:"DASHBOARD_CACHE_TTL"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("DEFAULT_LATE_INTEREST_RATE", "2")
	viper.SetDefault("DEFAULT_LATE_PENALTY", "50")
	viper.SetDefault("DEFAULT_FINANCING_RATE", "0")
	viper.SetDefault("DASHBOARD_CACHE_TTL", "30s")
	viper.SetDefault("SCHEDULER_INTERVAL", "60s")
	viper.SetDefault("SCHEDULER_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	for name, raw := range map[string]string{
		"DEFAULT_LATE_INTEREST_RATE": c.Business.DefaultLateInterestRate,
		"DEFAULT_LATE_PENALTY":       c.Business.DefaultLatePenalty,
		"DEFAULT_FINANCING_RATE":     c.Business.DefaultFinancingRate,
	} {
		if _, err := decimal.NewFromString(raw); err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", name, err)
		}
	}

	for name, raw := range map[string]string{
		"SCHEDULER_INTERVAL":   c.Scheduler.Interval,
		"DASHBOARD_CACHE_TTL":  c.Business.DashboardCacheTTL,
		"HEALTH_CHECK_TIMEOUT": c.Health.Timeout,
		"SERVER_READ_TIMEOUT":  c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT": c.Server.WriteTimeout,
	} {
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", name, err)
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDefaultLateInterestRate returns the default daily late-interest
// percentage as decimal
func (c *Config) GetDefaultLateInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultLateInterestRate)
	return rate
}

// GetDefaultLatePenalty returns the default flat late penalty as decimal
func (c *Config) GetDefaultLatePenalty() decimal.Decimal {
	penalty, _ := decimal.NewFromString(c.Business.DefaultLatePenalty)
	return penalty
}

// GetDefaultFinancingRate returns the default financing markup as decimal
func (c *Config) GetDefaultFinancingRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultFinancingRate)
	return rate
}

// GetSchedulerInterval returns the scheduler interval as duration
func (c *Config) GetSchedulerInterval() time.Duration {
	duration, _ := time.ParseDuration(c.Scheduler.Interval)
	return duration
}

// GetDashboardCacheTTL returns the dashboard cache TTL as duration
func (c *Config) GetDashboardCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Business.DashboardCacheTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}

// GetReadTimeout returns the server read timeout as duration
func (c *Config) GetReadTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.ReadTimeout)
	return timeout
}

// GetWriteTimeout returns the server write timeout as duration
func (c *Config) GetWriteTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.WriteTimeout)
	return timeout
}
