// Package database is the relational Content Store: users, posts, comments,
// follows, reactions, sessions and comment cooldowns.
//
// Two dialects are supported. SQLite (github.com/mattn/go-sqlite3) is the
// default and runs with a single connection, foreign keys on and immediate
// transactions, so every write transaction is serialised. PostgreSQL is
// reached through the pgx database/sql driver; there, toggles take a
// transaction-scoped advisory lock on the (user, target) pair.
//
// Queries are written once with "?" placeholders and rebound per dialect.
// Every state change in the engines runs inside WithTx.
package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

//go:embed schema_postgres.sql
var postgresSchema string

// Dialect selects SQL flavour details.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite3"
}

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "postgres", "pgx":
		return Postgres, nil
	}
	return SQLite, fmt.Errorf("database: unknown driver %q", driver)
}

// Options configures Open.
type Options struct {
	Driver    string
	DSN       string
	TxTimeout time.Duration
	Logger    *logrus.Logger
}

// Store owns the connection pool. Its embedded Queries run outside any
// transaction and are meant for reads.
type Store struct {
	Queries
	db        *sql.DB
	txTimeout time.Duration
	log       *logrus.Logger
}

// Open connects, configures the pool for the dialect and applies the schema.
// Applying the schema is idempotent.
func Open(ctx context.Context, opts Options) (*Store, error) {
	dialect, err := ParseDialect(opts.Driver)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}

	driverName, dsn := "sqlite3", sqliteDSN(opts.DSN)
	if dialect == Postgres {
		driverName, dsn = "pgx", opts.DSN
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if dialect == SQLite {
		// SQLite has one writer; a single connection keeps the per-connection
		// pragmas in force and avoids SQLITE_BUSY between our own connections.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &Store{
		Queries:   Queries{q: db, dialect: dialect},
		db:        db,
		txTimeout: opts.TxTimeout,
		log:       logger,
	}
	if err := s.applySchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.WithFields(logrus.Fields{"driver": dialect.String()}).Info("content store ready")
	return s, nil
}

// sqliteDSN adds the connection parameters the store relies on unless the
// caller already set them.
func sqliteDSN(dsn string) string {
	params := []string{"_foreign_keys=on", "_busy_timeout=5000", "_txlock=immediate", "_journal_mode=WAL"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var extra []string
	for _, p := range params {
		name := p[:strings.Index(p, "=")+1]
		if !strings.Contains(dsn, name) {
			extra = append(extra, p)
		}
	}
	if len(extra) == 0 {
		return dsn
	}
	return dsn + sep + strings.Join(extra, "&")
}

func (s *Store) applySchema(ctx context.Context) error {
	schema := sqliteSchema
	if s.dialect == Postgres {
		schema = postgresSchema
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("database: apply schema: %w", err)
	}
	return nil
}

// Close closes the pool. Safe on a zero Store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the pool for tooling and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn in one transaction. The transaction commits only when fn
// returns nil; any error, panic or timeout rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("database: begin: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.log.WithError(rbErr).Warn("rollback failed")
			}
		}
	}()

	if err = fn(&Queries{q: tx, dialect: s.dialect, inTx: true}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("database: commit: %w", err)
	}
	return nil
}
