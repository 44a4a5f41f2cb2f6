package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultDatabasePath is where the store lives unless overridden
const DefaultDatabasePath = "database/paragonapartments.db"

// MemoryDatabasePath selects a private in-memory store
const MemoryDatabasePath = ":memory:"

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Finance  FinanceConfig
	Seed     SeedConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds the SQLite store settings
type DatabaseConfig struct {
	Path          string
	MaxOpenConns  int
	BusyTimeout   time.Duration
	AutoMigrate   bool
	SlowThreshold time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodyBytes   int64
	TrustedProxies []string
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                string
	Issuer                string
	AccessTokenExpiration time.Duration
}

// FinanceConfig holds finance listing settings
type FinanceConfig struct {
	PageSize int
	Currency string
}

// SeedConfig holds the defaults of the finance test-data seeder
type SeedConfig struct {
	Invoices    int
	Paid        int
	LateUnpaid  int
	Maintenance int
	Completed   int
	RandomSeed  int64
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with PARAGON_ prefix (e.g., PARAGON_DATABASE_PATH)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("PARAGON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Path:          v.GetString("database.path"),
			MaxOpenConns:  v.GetInt("database.max_open_conns"),
			BusyTimeout:   v.GetDuration("database.busy_timeout"),
			AutoMigrate:   v.GetBool("database.auto_migrate"),
			SlowThreshold: v.GetDuration("database.slow_threshold"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodyBytes:   v.GetInt64("http.max_body_bytes"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			Issuer:                v.GetString("jwt.issuer"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
		},
		Finance: FinanceConfig{
			PageSize: v.GetInt("finance.page_size"),
			Currency: v.GetString("finance.currency"),
		},
		Seed: SeedConfig{
			Invoices:    v.GetInt("seed.invoices"),
			Paid:        v.GetInt("seed.paid"),
			LateUnpaid:  v.GetInt("seed.late_unpaid"),
			Maintenance: v.GetInt("seed.maintenance"),
			Completed:   v.GetInt("seed.completed"),
			RandomSeed:  v.GetInt64("seed.random_seed"),
		},
	}

	applyDefaults(cfg, v)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields. Seed
// counts use IsSet so an explicit zero survives.
func applyDefaults(cfg *Config, v *viper.Viper) {
	if cfg.App.Name == "" {
		cfg.App.Name = "paragon-apartments"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 1
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = 5 * time.Second
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodyBytes == 0 {
		cfg.HTTP.MaxBodyBytes = 1 << 20
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "paragon-apartments"
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 8 * time.Hour
	}
	if cfg.Finance.PageSize == 0 {
		cfg.Finance.PageSize = 25
	}
	if cfg.Finance.Currency == "" {
		cfg.Finance.Currency = "GBP"
	}
	setIntDefault(v, "seed.invoices", &cfg.Seed.Invoices, 50)
	setIntDefault(v, "seed.paid", &cfg.Seed.Paid, 30)
	setIntDefault(v, "seed.late_unpaid", &cfg.Seed.LateUnpaid, 15)
	setIntDefault(v, "seed.maintenance", &cfg.Seed.Maintenance, 20)
	setIntDefault(v, "seed.completed", &cfg.Seed.Completed, 10)
	if !v.IsSet("seed.random_seed") {
		cfg.Seed.RandomSeed = 42
	}
}

func setIntDefault(v *viper.Viper, key string, dst *int, def int) {
	if !v.IsSet(key) {
		*dst = def
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Finance.PageSize <= 0 {
		return fmt.Errorf("finance.page_size must be positive")
	}
	if c.Seed.Paid+c.Seed.LateUnpaid > c.Seed.Invoices {
		return fmt.Errorf("seed.paid (%d) + seed.late_unpaid (%d) cannot exceed seed.invoices (%d)",
			c.Seed.Paid, c.Seed.LateUnpaid, c.Seed.Invoices)
	}
	if c.Seed.Completed > c.Seed.Maintenance {
		return fmt.Errorf("seed.completed (%d) cannot exceed seed.maintenance (%d)",
			c.Seed.Completed, c.Seed.Maintenance)
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Path == MemoryDatabasePath {
			return fmt.Errorf("database.path cannot be %s in production", MemoryDatabasePath)
		}
	}
	return nil
}

// IsMemory reports whether the store is in-memory
func (d *DatabaseConfig) IsMemory() bool {
	return d.Path == MemoryDatabasePath
}

// DSN returns the go-sqlite3 connection string: foreign keys on, a busy
// timeout for the single writer and IMMEDIATE transactions so that a
// check-then-write takes the write lock up front.
func (d *DatabaseConfig) DSN() string {
	busy := d.BusyTimeout
	if busy == 0 {
		busy = 5 * time.Second
	}
	q := url.Values{}
	q.Set("_foreign_keys", "1")
	q.Set("_busy_timeout", fmt.Sprintf("%d", busy.Milliseconds()))
	q.Set("_txlock", "immediate")
	return d.Path + "?" + q.Encode()
}
