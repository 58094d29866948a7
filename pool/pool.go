package pool

import (
	"context"
	"database/sql"
	"time"
)

// Pool defines the interface for a database connection pool.
type Pool interface {
	Close() error
	PingContext(ctx context.Context) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Options defines the configuration for the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// StdPool is an implementation of Pool using the standard library's *sql.DB.
type StdPool struct {
	*sql.DB
}

// NewStdPool creates a new StdPool wrapping the given *sql.DB.
func NewStdPool(db *sql.DB) *StdPool {
	return &StdPool{db}
}

// Open opens driver with dsn, applies opts and checks the connection.
func Open(ctx context.Context, driver, dsn string, opts *Options) (*StdPool, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	p := NewStdPool(db)
	if opts != nil {
		if opts.MaxOpenConns > 0 {
			p.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			p.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			p.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}
	if err := p.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}
