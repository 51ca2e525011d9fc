package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	App       AppConfig       `mapstructure:",squash"`
	Report    ReportConfig    `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT" validate:"required,numeric"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"DATABASE_DRIVER" validate:"required,oneof=postgres sqlite3"`
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME" validate:"gte=0"`
	AutoMigrate     bool          `mapstructure:"DATABASE_AUTO_MIGRATE"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" validate:"gte=0"`
}

type SchedulerConfig struct {
	DigestCron string `mapstructure:"SCHEDULER_DIGEST_CRON" validate:"required"`
	Timezone   string `mapstructure:"SCHEDULER_TIMEZONE" validate:"required"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error fatal panic disabled"`
	// Format is json or console. Left empty it follows ENV: console in
	// development, json everywhere else.
	Format string `mapstructure:"LOG_FORMAT" validate:"omitempty,oneof=json console"`
}

type AppConfig struct {
	// Debug exposes the underlying data store error in fallback responses.
	Debug bool `mapstructure:"APP_DEBUG"`
}

type ReportConfig struct {
	Timezone            string        `mapstructure:"REPORT_TIMEZONE" validate:"required"`
	DueSoonDays         int           `mapstructure:"REPORT_DUE_SOON_DAYS" validate:"gte=0"`
	UpcomingWindowDays  int           `mapstructure:"REPORT_UPCOMING_WINDOW_DAYS" validate:"gt=0"`
	NextDueLookbackDays int           `mapstructure:"REPORT_NEXT_DUE_LOOKBACK_DAYS" validate:"gte=0"`
	MaxRows             int           `mapstructure:"REPORT_MAX_ROWS" validate:"gte=0"`
	RequestTimeout      time.Duration `mapstructure:"REPORT_REQUEST_TIMEOUT" validate:"gt=0"`
	DigestTTL           time.Duration `mapstructure:"REPORT_DIGEST_TTL" validate:"gt=0"`
}

type HealthConfig struct {
	Timeout time.Duration `mapstructure:"HEALTH_CHECK_TIMEOUT" validate:"gt=0"`
}

var defaults = map[string]any{
	"SERVER_PORT":                   "8080",
	"SERVER_HOST":                   "0.0.0.0",
	"ENV":                           "development",
	"SERVER_READ_TIMEOUT":           "15s",
	"SERVER_WRITE_TIMEOUT":          "15s",
	"DATABASE_DRIVER":               "postgres",
	"DATABASE_URL":                  "",
	"DATABASE_HOST":                 "localhost",
	"DATABASE_PORT":                 "5432",
	"DATABASE_NAME":                 "reports",
	"DATABASE_USER":                 "postgres",
	"DATABASE_PASSWORD":             "",
	"DATABASE_SSLMODE":              "disable",
	"DATABASE_MAX_OPEN_CONNS":       25,
	"DATABASE_MAX_IDLE_CONNS":       5,
	"DATABASE_CONN_MAX_LIFETIME":    "5m",
	"DATABASE_AUTO_MIGRATE":         false,
	"REDIS_HOST":                    "",
	"REDIS_PORT":                    "6379",
	"REDIS_PASSWORD":                "",
	"REDIS_DB":                      0,
	"SCHEDULER_DIGEST_CRON":         "0 0 * * * *",
	"SCHEDULER_TIMEZONE":            "UTC",
	"LOG_LEVEL":                     "info",
	"LOG_FORMAT":                    "",
	"APP_DEBUG":                     false,
	"REPORT_TIMEZONE":               "Local",
	"REPORT_DUE_SOON_DAYS":          7,
	"REPORT_UPCOMING_WINDOW_DAYS":   30,
	"REPORT_NEXT_DUE_LOOKBACK_DAYS": 90,
	"REPORT_MAX_ROWS":               1000,
	"REPORT_REQUEST_TIMEOUT":        "10s",
	"REPORT_DIGEST_TTL":             "2h",
	"HEALTH_CHECK_TIMEOUT":          "5s",
}

// Load reads configuration from environment variables and an optional .env file.
// Variables already present in the environment win over the .env file.
func Load() (*Config, error) {
	// Don't fail if .env file doesn't exist
	for _, path := range []string{".env", "deployments/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if config.Logging.Format == "" {
		config.Logging.Format = "json"
		if config.IsDevelopment() {
			config.Logging.Format = "console"
		}
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Database.Driver == "sqlite3" && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for the sqlite3 driver")
	}

	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("REPORT_TIMEZONE must be a valid IANA zone: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid IANA zone: %w", err)
	}

	return nil
}

// DSN returns the data source name for the configured driver. DATABASE_URL wins
// when set; otherwise a Postgres URL is assembled from the individual fields.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

// Addr returns host:port of the Redis server.
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, r.Port)
}

// Enabled reports whether a Redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// ReportLocation returns the zone in which "today" is evaluated.
func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// SchedulerLocation returns the zone the digest cron expression is evaluated in.
func (c *Config) SchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
