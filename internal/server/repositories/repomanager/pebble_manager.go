package repomanager

import (
	"context"

	"github.com/cockroachdb/pebble"
	"github.com/dmitrijs2005/gophreveal/internal/kvx"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/counters"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/events"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/pending"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/records"
)

// PebbleUnitOfWork runs each unit of work in one Pebble batch.
type PebbleUnitOfWork struct {
	store *kvx.Store
}

// NewPebbleUnitOfWork opens the Pebble database at dir. opts may be nil.
func NewPebbleUnitOfWork(dir string, opts *pebble.Options) (*PebbleUnitOfWork, error) {
	s, err := kvx.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	return &PebbleUnitOfWork{store: s}, nil
}

func (u *PebbleUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return u.store.WithBatch(ctx, func(ctx context.Context, kv kvx.KV) error {
		return fn(ctx, &kvRepos{kv: kv})
	})
}

func (u *PebbleUnitOfWork) View(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return u.store.View(ctx, func(ctx context.Context, kv kvx.KV) error {
		return fn(ctx, &kvRepos{kv: kv})
	})
}

func (u *PebbleUnitOfWork) Close() error {
	return u.store.Close()
}

type kvRepos struct {
	kv kvx.KV
}

func (r *kvRepos) Records() records.Repository   { return records.NewPebbleRepository(r.kv) }
func (r *kvRepos) Counters() counters.Repository { return counters.NewPebbleRepository(r.kv) }
func (r *kvRepos) Pending() pending.Repository   { return pending.NewPebbleRepository(r.kv) }
func (r *kvRepos) Events() events.Repository     { return events.NewPebbleRepository(r.kv) }

// NewPebbleUnitOfWorkFromStore wraps an already opened store.
func NewPebbleUnitOfWorkFromStore(s *kvx.Store) *PebbleUnitOfWork {
	return &PebbleUnitOfWork{store: s}
}
