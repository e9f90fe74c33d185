package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyDriver     = errors.New("database driver cannot be empty")
	ErrEmptyDataSource = errors.New("database data source cannot be empty")
)

// Options configures the pool. Zero pool sizes fall back to per-driver defaults.
type Options struct {
	Driver          string
	DataSource      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	PingTimeout     time.Duration
}

type Option func(*Options)

// WithDriver selects a registered database/sql driver, e.g. "sqlite3" or "pgx".
func WithDriver(driver string) Option {
	return func(o *Options) { o.Driver = driver }
}

func WithDataSource(dsn string) Option {
	return func(o *Options) { o.DataSource = dsn }
}

func WithMaxOpenConns(n int) Option {
	return func(o *Options) { o.MaxOpenConns = n }
}

func WithMaxIdleConns(n int) Option {
	return func(o *Options) { o.MaxIdleConns = n }
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(o *Options) { o.ConnMaxLifetime = d }
}

func WithConnMaxIdleTime(d time.Duration) Option {
	return func(o *Options) { o.ConnMaxIdleTime = d }
}

// WithRetry sets how many times New opens and pings before giving up.
// The wait grows linearly: delay, 2*delay, ...
func WithRetry(attempts int, delay time.Duration) Option {
	return func(o *Options) {
		o.RetryAttempts = attempts
		o.RetryDelay = delay
	}
}

func WithPingTimeout(d time.Duration) Option {
	return func(o *Options) { o.PingTimeout = d }
}

func isSQLite(driver string) bool {
	return strings.HasPrefix(driver, "sqlite")
}

// applyPoolDefaults sizes the pool for the driver. SQLite serialises writers,
// so a single connection avoids "database is locked" under concurrent imports
// and keeps ":memory:" databases from splitting across connections.
func (o *Options) applyPoolDefaults() {
	if o.MaxOpenConns == 0 {
		if isSQLite(o.Driver) {
			o.MaxOpenConns = 1
		} else {
			o.MaxOpenConns = 25
		}
	}
	if o.MaxIdleConns == 0 {
		o.MaxIdleConns = min(o.MaxOpenConns, 5)
	}
	if o.RetryAttempts < 1 {
		o.RetryAttempts = 1
	}
}

// New opens a pool and verifies it with a ping, retrying on failure.
func New(opts ...Option) (*sql.DB, error) {
	o := &Options{
		Driver:          "sqlite3",
		DataSource:      ":memory:",
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		PingTimeout:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	switch {
	case o.Driver == "":
		return nil, ErrEmptyDriver
	case o.DataSource == "":
		return nil, ErrEmptyDataSource
	}
	o.applyPoolDefaults()

	var lastErr error
	for attempt := 1; attempt <= o.RetryAttempts; attempt++ {
		db, err := o.open()
		if err == nil {
			return db, nil
		}
		lastErr = err
		if attempt < o.RetryAttempts {
			time.Sleep(time.Duration(attempt) * o.RetryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to %s database after %d attempts: %w", o.Driver, o.RetryAttempts, lastErr)
}

func (o *Options) open() (*sql.DB, error) {
	db, err := sql.Open(o.Driver, o.DataSource)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(o.MaxOpenConns)
	db.SetMaxIdleConns(o.MaxIdleConns)
	db.SetConnMaxLifetime(o.ConnMaxLifetime)
	db.SetConnMaxIdleTime(o.ConnMaxIdleTime)

	ctx := context.Background()
	if o.PingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.PingTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
