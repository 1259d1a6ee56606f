package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophreveal/internal/dbx"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/counters"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/events"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/pending"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/records"
)

// RepositoryManager vends SQL repositories bound to a dbx.DBTX.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
	Counters(db dbx.DBTX) counters.Repository
	Pending(db dbx.DBTX) pending.Repository
	Events(db dbx.DBTX) events.Repository
}

// Repositories is the set of repositories bound to one unit of work.
type Repositories interface {
	Records() records.Repository
	Counters() counters.Repository
	Pending() pending.Repository
	Events() events.Repository
}

// UnitOfWork runs functions against a consistent view of every store.
//
// Do commits all writes made through repos if fn returns nil and none of
// them otherwise. View is the read-only counterpart.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	View(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Close() error
}
