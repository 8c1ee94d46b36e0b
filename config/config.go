// Package config loads the jobly server settings from an optional YAML file
// and the process environment. Values from the environment win.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Skryldev/jobly/db"
)

// Config is the complete server configuration. It is built once in main and
// passed down explicitly.
type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	LogLevel string   `yaml:"log_level"`
}

// HTTP configures the listener.
type HTTP struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Database configures the connection pool. URL, when set, is used verbatim;
// otherwise the DSN is built from Options by the named driver.
type Database struct {
	Driver  string           `yaml:"driver"`
	URL     string           `yaml:"url"`
	Options db.DriverOptions `yaml:"options"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`

	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`
	LogArgs            bool          `yaml:"log_args"`

	ConnectAttempts int           `yaml:"connect_attempts"`
	ConnectDelay    time.Duration `yaml:"connect_delay"`
}

// Auth configures token signing and password hashing.
type Auth struct {
	Secret     string        `yaml:"secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

// Default returns the settings used when neither a file nor the environment
// overrides them.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:            ":3000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: Database{
			Driver:             "postgres",
			MaxOpenConns:       25,
			MaxIdleConns:       10,
			ConnMaxLifetime:    5 * time.Minute,
			ConnMaxIdleTime:    2 * time.Minute,
			QueryTimeout:       10 * time.Second,
			SlowQueryThreshold: 200 * time.Millisecond,
			ConnectAttempts:    5,
			ConnectDelay:       2 * time.Second,
		},
		Auth: Auth{
			TokenTTL:   24 * time.Hour,
			BcryptCost: 12,
		},
		LogLevel: "info",
	}
}

// Load reads path (if non-empty) over Default, then applies environment
// overrides from getenv and validates the result. Pass os.Getenv in
// production.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("jobly/config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("jobly/config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("JOBLY_ADDR"); v != "" {
		c.HTTP.Addr = v
	} else if v := getenv("PORT"); v != "" {
		c.HTTP.Addr = ":" + v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := getenv("JOBLY_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := getenv("JOBLY_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("jobly/config: JOBLY_TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = d
	}
	if v := getenv("JOBLY_BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("jobly/config: JOBLY_BCRYPT_COST: %w", err)
		}
		c.Auth.BcryptCost = n
	}
	if v := getenv("JOBLY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate reports the first setting that would prevent the server from
// starting.
func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("jobly/config: http.addr must not be empty")
	}
	if c.Auth.Secret == "" {
		return errors.New("jobly/config: auth.secret must be set (JOBLY_SECRET)")
	}
	if _, err := db.LookupDriver(c.Database.Driver); err != nil {
		return fmt.Errorf("jobly/config: database.driver: %w", err)
	}
	if c.Database.URL == "" && c.Database.Options.Database == "" {
		return errors.New("jobly/config: database.url or database.options.database must be set")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel into a slog.Level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("jobly/config: log_level: %w", err)
	}
	return lvl, nil
}

// Pool returns the db.Config for this database section. DSN and DriverName
// are left for the caller when the DSN is built from Options.
func (d Database) Pool(hooks ...db.Hook) db.Config {
	return db.Config{
		DSN:             d.URL,
		DriverName:      d.Driver,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		DefaultTimeout:  d.QueryTimeout,
		Hooks:           hooks,
	}
}

// Open connects using URL when set and Options otherwise.
func (d Database) Open(hooks ...db.Hook) (*db.DB, error) {
	if d.URL != "" {
		return db.Open(d.Pool(hooks...))
	}
	return db.OpenWithDriver(d.Driver, d.Options, d.Pool(hooks...))
}
