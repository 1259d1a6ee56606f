// Package kvx provides the key-value counterpart of dbx: a minimal KV
// interface implemented by a Pebble indexed batch, and a helper that runs a
// function against that batch and commits it atomically.
package kvx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cockroachdb/pebble"
)

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = errors.New("kv: key not found")

// KV is the subset of key-value operations used by our repos.
type KV interface {
	// Get returns a copy of the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	// Scan calls fn for every key with the given prefix in ascending key
	// order. Returning a non-nil error from fn stops the scan.
	Scan(prefix []byte, fn func(key, value []byte) error) error
	// ScanFrom is Scan restricted to keys greater than or equal to start.
	ScanFrom(prefix, start []byte, fn func(key, value []byte) error) error
}

// Store owns a Pebble database and serialises units of work on it.
type Store struct {
	db *pebble.DB
	mu sync.Mutex
}

// Open opens (or creates) a Pebble database at path. opts may be nil.
func Open(path string, opts *pebble.Options) (*Store, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithBatch runs fn against a fresh indexed batch. The batch is committed
// with pebble.Sync when fn returns nil and discarded otherwise; panics
// discard the batch and are rethrown.
//
// Units of work are serialised, so a read-modify-write inside fn cannot
// interleave with another one.
func (s *Store) WithBatch(ctx context.Context, fn func(ctx context.Context, kv KV) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewIndexedBatch()
	defer func() {
		if p := recover(); p != nil {
			_ = b.Close()
			panic(p)
		}
		if err != nil {
			_ = b.Close()
			return
		}
		if cerr := b.Commit(pebble.Sync); cerr != nil {
			_ = b.Close()
			err = fmt.Errorf("pebble commit: %w", cerr)
			return
		}
		err = b.Close()
	}()

	err = fn(ctx, &batchKV{b: b})
	return err
}

// View runs fn against a read-only point-in-time snapshot of the database.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.db.NewSnapshot()
	defer snap.Close()
	return fn(ctx, &snapshotKV{s: snap})
}

// reader is satisfied by both *pebble.Batch and *pebble.Snapshot.
type reader interface {
	Get(key []byte) ([]byte, io.Closer, error)
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
}

type batchKV struct {
	b *pebble.Batch
}

func (k *batchKV) Get(key []byte) ([]byte, error) {
	return get(k.b, key)
}

func (k *batchKV) Set(key, value []byte) error {
	return k.b.Set(key, value, nil)
}

func (k *batchKV) Delete(key []byte) error {
	return k.b.Delete(key, nil)
}

func (k *batchKV) Scan(prefix []byte, fn func(key, value []byte) error) error {
	return scan(k.b, prefix, nil, fn)
}

func (k *batchKV) ScanFrom(prefix, start []byte, fn func(key, value []byte) error) error {
	return scan(k.b, prefix, start, fn)
}

type snapshotKV struct {
	s *pebble.Snapshot
}

func (k *snapshotKV) Get(key []byte) ([]byte, error) {
	return get(k.s, key)
}

func (k *snapshotKV) Set(key, value []byte) error {
	return errors.New("kv: snapshot is read-only")
}

func (k *snapshotKV) Delete(key []byte) error {
	return errors.New("kv: snapshot is read-only")
}

func (k *snapshotKV) Scan(prefix []byte, fn func(key, value []byte) error) error {
	return scan(k.s, prefix, nil, fn)
}

func (k *snapshotKV) ScanFrom(prefix, start []byte, fn func(key, value []byte) error) error {
	return scan(k.s, prefix, start, fn)
}

func get(r reader, key []byte) ([]byte, error) {
	v, closer, err := r.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	return bytes.Clone(v), nil
}

// scan visits the keys with the given prefix, starting at start when it is
// non-nil.
func scan(r reader, prefix, start []byte, fn func(key, value []byte) error) error {
	iter, err := r.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: PrefixEnd(prefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	valid := iter.First()
	if start != nil {
		valid = iter.SeekGE(start)
	}
	for ; valid; valid = iter.Next() {
		if err := fn(bytes.Clone(iter.Key()), bytes.Clone(iter.Value())); err != nil {
			return err
		}
	}
	return iter.Error()
}

// PrefixEnd returns the smallest key greater than every key with the given
// prefix, or nil when no such key exists.
func PrefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
