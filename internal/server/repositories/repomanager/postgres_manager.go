// Package repomanager wires repositories into units of work for the two
// storage backends: PostgreSQL (with goose migrations) and Pebble.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophreveal/internal/dbx"
	"github.com/dmitrijs2005/gophreveal/internal/server/migrations"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/counters"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/events"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/pending"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/records"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Records returns a records.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Records(db dbx.DBTX) records.Repository {
	return records.NewPostgresRepository(db)
}

// Counters returns a counters.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Counters(db dbx.DBTX) counters.Repository {
	return counters.NewPostgresRepository(db)
}

// Pending returns a pending.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Pending(db dbx.DBTX) pending.Repository {
	return pending.NewPostgresRepository(db)
}

// Events returns an events.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Events(db dbx.DBTX) events.Repository {
	return events.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

var readOnly = &sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: true}

// PostgresUnitOfWork runs each unit of work in its own serializable
// transaction.
type PostgresUnitOfWork struct {
	db *sql.DB
	m  RepositoryManager
}

// NewPostgresUnitOfWork opens a pgx connection pool for dsn and applies the
// migrations.
func NewPostgresUnitOfWork(ctx context.Context, dsn string) (*PostgresUnitOfWork, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &PostgresUnitOfWork{db: db, m: m}, nil
}

// NewPostgresUnitOfWorkFromDB wraps an existing pool without migrating it.
func NewPostgresUnitOfWorkFromDB(db *sql.DB, m RepositoryManager) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{db: db, m: m}
}

func (u *PostgresUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return dbx.WithTx(ctx, u.db, dbx.Serializable, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &sqlRepos{m: u.m, tx: tx})
	})
}

func (u *PostgresUnitOfWork) View(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return dbx.WithTx(ctx, u.db, readOnly, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &sqlRepos{m: u.m, tx: tx})
	})
}

func (u *PostgresUnitOfWork) Close() error {
	return u.db.Close()
}

type sqlRepos struct {
	m  RepositoryManager
	tx dbx.DBTX
}

func (r *sqlRepos) Records() records.Repository   { return r.m.Records(r.tx) }
func (r *sqlRepos) Counters() counters.Repository { return r.m.Counters(r.tx) }
func (r *sqlRepos) Pending() pending.Repository   { return r.m.Pending(r.tx) }
func (r *sqlRepos) Events() events.Repository     { return r.m.Events(r.tx) }
