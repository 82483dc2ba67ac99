// Package repository provides the PostgreSQL access layer.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries holds every data access method. It runs against the pool or,
// inside InTx, against a single transaction.
type Queries struct {
	db DBTX
}

// PoolConfig tunes the connection pool.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// Repository provides database access methods.
type Repository struct {
	*Queries
	pool *pgxpool.Pool
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string, poolCfg PoolConfig) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewFromPool(pool), nil
}

// NewFromPool wraps an existing pool. Used by tests that manage their own pool.
func NewFromPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Queries: &Queries{db: pool},
		pool:    pool,
	}
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Queries.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// InTx runs fn inside a single transaction. The transaction commits once
// when fn returns nil and rolls back on any error or panic.
func (r *Repository) InTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		err = commitOrRollback(ctx, tx, err)
	}()

	return fn(&Queries{db: tx})
}

func commitOrRollback(ctx context.Context, tx pgx.Tx, err error) error {
	if err == nil {
		if errC := tx.Commit(ctx); errC != nil {
			return fmt.Errorf("commit transaction: %w", errC)
		}
		return nil
	}

	if errR := tx.Rollback(ctx); errR != nil && !errors.Is(errR, pgx.ErrTxClosed) {
		return fmt.Errorf("%w (rollback failed: %v)", err, errR)
	}
	return err
}
