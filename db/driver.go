package db

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"sync"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"
)

// ─────────────────────────────────────────────────────────────────────────────
// Driver interface
// ─────────────────────────────────────────────────────────────────────────────

// Driver encapsulates database-specific behaviour: building a DSN from
// structured options and supplying an ErrorMapper. Every registered driver
// must accept $N placeholders, since all generated statements use them.
type Driver interface {
	// Name returns the name passed to sql.Open, e.g. "pgx".
	Name() string

	// DSN converts structured options into a driver DSN string.
	DSN(opts DriverOptions) (string, error)

	// ErrorMapper returns a mapper tuned to this driver's error types.
	ErrorMapper() ErrorMapper
}

// DriverOptions carries the common connection parameters in a
// driver-agnostic form.
type DriverOptions struct {
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Database string            `yaml:"database"`
	SSLMode  string            `yaml:"sslmode"`
	Extra    map[string]string `yaml:"extra"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────────────────────────────────────

var (
	driversMu sync.RWMutex
	drivers   = map[string]Driver{
		PostgresDriver{}.Name(): PostgresDriver{},
		PgxDriver{}.Name():      PgxDriver{},
		SQLiteDriver{}.Name():   SQLiteDriver{},
	}
)

// RegisterDriver adds or replaces a Driver in the registry.
func RegisterDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[d.Name()] = d
}

// LookupDriver returns the registered Driver by name.
func LookupDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("jobly/db: driver %q not registered", name)
	}
	return d, nil
}

// OpenWithDriver opens a DB using a registered Driver and structured options.
// cfg.DSN and cfg.DriverName are overwritten.
//
//	d, err := db.OpenWithDriver("pgx", db.DriverOptions{
//	    Host: "localhost", User: "jobly", Database: "jobly",
//	}, db.Config{MaxOpenConns: 25})
func OpenWithDriver(driverName string, opts DriverOptions, cfg Config) (*DB, error) {
	drv, err := LookupDriver(driverName)
	if err != nil {
		return nil, err
	}

	dsn, err := drv.DSN(opts)
	if err != nil {
		return nil, fmt.Errorf("jobly/db: DSN construction failed: %w", err)
	}

	cfg.DriverName = drv.Name()
	cfg.DSN = dsn

	d, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	d.SetErrorMapper(ChainMapper(drv.ErrorMapper(), DefaultErrorMapper()))
	return d, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// PostgreSQL (lib/pq and pgx)
// ─────────────────────────────────────────────────────────────────────────────

// postgresURL renders opts as a postgres:// URL, which both lib/pq and pgx
// accept.
func postgresURL(o DriverOptions) (string, error) {
	if o.Host == "" || o.Database == "" {
		return "", fmt.Errorf("postgres: Host and Database are required")
	}
	port := o.Port
	if port == 0 {
		port = 5432
	}
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	for _, k := range slices.Sorted(maps.Keys(o.Extra)) {
		q.Set(k, o.Extra[k])
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     o.Host + ":" + strconv.Itoa(port),
		Path:     "/" + o.Database,
		RawQuery: q.Encode(),
	}
	if o.User != "" {
		if o.Password != "" {
			u.User = url.UserPassword(o.User, o.Password)
		} else {
			u.User = url.User(o.User)
		}
	}
	return u.String(), nil
}

// PostgresDriver is the lib/pq adapter.
type PostgresDriver struct{}

func (PostgresDriver) Name() string                        { return "postgres" }
func (PostgresDriver) DSN(o DriverOptions) (string, error) { return postgresURL(o) }
func (PostgresDriver) ErrorMapper() ErrorMapper            { return ErrorMapperFunc(mapPQOnly) }

// PgxDriver is the jackc/pgx stdlib adapter.
type PgxDriver struct{}

func (PgxDriver) Name() string                        { return "pgx" }
func (PgxDriver) DSN(o DriverOptions) (string, error) { return postgresURL(o) }
func (PgxDriver) ErrorMapper() ErrorMapper            { return ErrorMapperFunc(mapPGXOnly) }

func mapPQOnly(err error) error {
	if err == nil {
		return nil
	}
	if mapped := mapPQError(err); mapped != nil {
		return mapped
	}
	return err
}

func mapPGXOnly(err error) error {
	if err == nil {
		return nil
	}
	if mapped := mapPGXError(err); mapped != nil {
		return mapped
	}
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite
// ─────────────────────────────────────────────────────────────────────────────

// SQLiteDriver is the mattn/go-sqlite3 adapter. The driver registers itself
// when imported; this package does not import it so that production builds
// stay free of cgo.
type SQLiteDriver struct{}

func (SQLiteDriver) Name() string { return "sqlite3" }

func (SQLiteDriver) DSN(o DriverOptions) (string, error) {
	if o.Database == "" {
		return "", fmt.Errorf("sqlite3: Database (file path) is required")
	}
	if len(o.Extra) == 0 {
		return o.Database, nil
	}
	q := url.Values{}
	for _, k := range slices.Sorted(maps.Keys(o.Extra)) {
		q.Set(k, o.Extra[k])
	}
	return o.Database + "?" + q.Encode(), nil
}

func (SQLiteDriver) ErrorMapper() ErrorMapper {
	return ErrorMapperFunc(func(err error) error {
		if err == nil {
			return nil
		}
		if mapped := mapSQLiteError(err); mapped != nil {
			return mapped
		}
		return err
	})
}
