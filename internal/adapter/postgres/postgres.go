// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"classbook/internal/domain"

	"github.com/lib/pq"
)

// DB wraps a *sql.DB and implements domain.Store.
type DB struct {
	sql *sql.DB
}

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPool is used when Open is given a zero PoolConfig.
var DefaultPool = PoolConfig{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string, pool PoolConfig) (*DB, error) {
	if pool.MaxOpenConns == 0 {
		pool = DefaultPool
	}
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(pool.MaxOpenConns)
	s.SetMaxIdleConns(pool.MaxIdleConns)
	s.SetConnMaxLifetime(pool.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// RunInTx runs fn in a READ COMMITTED transaction. Row locks taken by the
// repositories (SELECT ... FOR UPDATE, conditional UPDATEs) serialise
// competing writers.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	sqlTx, err := d.sql.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return domain.Persistence(err)
	}
	if err := fn(ctx, &tx{q: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return domain.Persistence(err)
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type tx struct {
	q queryer
}

func (t *tx) Users() domain.UserRepository       { return userRepo{t.q} }
func (t *tx) Classes() domain.ClassRepository    { return classRepo{t.q} }
func (t *tx) Bookings() domain.BookingRepository { return bookingRepo{t.q} }
func (t *tx) Packages() domain.PackageRepository { return packageRepo{t.q} }
func (t *tx) Ledger() domain.LedgerRepository    { return ledgerRepo{t.q} }

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL CHECK(role IN ('user','trainer','admin')),
			remaining_minutes INTEGER NOT NULL DEFAULT 0 CHECK(remaining_minutes >= 0),
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS classes (
			id TEXT PRIMARY KEY,
			trainer_id TEXT NOT NULL,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
			frequency TEXT NOT NULL DEFAULT '',
			end_date TEXT NOT NULL DEFAULT '',
			max_capacity INTEGER NOT NULL CHECK(max_capacity > 0),
			attendees TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_classes_date ON classes(date, start_time);",
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			class_id TEXT NOT NULL REFERENCES classes(id),
			minutes_spent INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE(user_id, class_id)
		);`,
		"CREATE INDEX IF NOT EXISTS idx_bookings_user_created ON bookings(user_id, created_at DESC);",
		`CREATE TABLE IF NOT EXISTS packages (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			package_type TEXT NOT NULL CHECK(package_type IN ('standard','premium')),
			amount_cents BIGINT NOT NULL,
			hours INTEGER NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending','paid','failed')),
			stripe_payment_intent_id TEXT UNIQUE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_packages_pending ON packages(created_at) WHERE status = 'pending';",
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			delta INTEGER NOT NULL,
			reason TEXT NOT NULL,
			reference TEXT NOT NULL,
			balance_after INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_ledger_user_created ON ledger_entries(user_id, created_at DESC);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// dbErr maps sql.ErrNoRows to notFound and wraps everything else as a
// persistence failure.
func dbErr(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return domain.Persistence(err)
}

func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
