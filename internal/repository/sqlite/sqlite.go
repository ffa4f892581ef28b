// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite: no CGo, no C compiler, cross-compiles
// anywhere Go does. The driver registers itself with database/sql as "sqlite".
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB   a connection pool (NOT a single connection!)
//   - sql.Tx   a transaction pinned to one connection
//   - sql.Rows multiple result rows (must be closed!)
//
// Every query in this package is written once, on the queries type, against
// the small dbtx interface. *sql.DB and *sql.Tx both satisfy it, so the same
// methods serve plain reads and reads/writes inside a transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/order-desk/internal/repository"
)

// compile-time checks
var (
	_ repository.Store      = (*DB)(nil)
	_ repository.Repository = (*queries)(nil)
)

// dbtx is the subset of *sql.DB and *sql.Tx the queries need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds every repository method. It runs against either the pool or
// an open transaction.
type queries struct {
	q dbtx
}

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	*queries
	conn *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/app.db" → file-based database (persistent)
//   - ":memory:"    → in-memory database (tests)
//
// ONE CONNECTION:
// The pool is capped at a single open connection. SQLite serialises writers
// anyway, PRAGMAs are per connection (foreign_keys must hold for every
// statement), and ":memory:" databases exist per connection. The flip side:
// inside InTx, only the tx handle may be used or the call blocks forever.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if dbPath != ":memory:" {
		// WAL lets readers proceed while a write is in flight.
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
		}
	}

	// Foreign keys are OFF by default in SQLite. Orders rely on them for
	// referential integrity and for ON DELETE CASCADE.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{queries: &queries{q: conn}, conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// InTx runs fn inside a transaction. The transaction commits when fn returns
// nil; any error (or panic) rolls it back, so none of fn's writes survive.
func (db *DB) InTx(ctx context.Context, fn func(tx repository.Repository) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	// Rollback after a successful Commit is a no-op (returns sql.ErrTxDone).
	defer tx.Rollback()

	if err := fn(&queries{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// migrate creates the schema. CREATE ... IF NOT EXISTS makes it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			product_name TEXT NOT NULL,
			amount       NUMERIC(10,2) NOT NULL CHECK (amount > 0),
			created_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating orders table: %w", err)
	}

	return nil
}

// constraintCode returns the extended SQLite result code of a constraint
// failure, or 0 when err is not one.
func constraintCode(err error) int {
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return 0
	}
	code := se.Code()
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return 0
	}
	if code != sqlite3.SQLITE_CONSTRAINT {
		return code
	}
	// Primary code only: recover the kind from the message.
	msg := se.Error()
	switch {
	case strings.Contains(msg, "UNIQUE"):
		return sqlite3.SQLITE_CONSTRAINT_UNIQUE
	case strings.Contains(msg, "FOREIGN KEY"):
		return sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return code
}

func isUniqueViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func isForeignKeyViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// likePattern turns a free-text query into a LIKE pattern matching it as a
// substring. Wildcards in the query are escaped with '\'.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}

// capHint bounds a slice capacity taken from a caller-supplied limit.
func capHint(n int) int {
	return max(0, min(n, 100))
}
