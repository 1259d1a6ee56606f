package kvx

import (
	"context"
	"errors"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("kvx-test", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func read(t *testing.T, s *Store, key string) ([]byte, error) {
	t.Helper()
	var v []byte
	err := s.View(context.Background(), func(ctx context.Context, kv KV) error {
		var err error
		v, err = kv.Get([]byte(key))
		return err
	})
	return v, err
}

func TestWithBatch_CommitsOnSuccess(t *testing.T) {
	s := setupStore(t)

	err := s.WithBatch(context.Background(), func(ctx context.Context, kv KV) error {
		return kv.Set([]byte("a"), []byte("1"))
	})
	require.NoError(t, err)

	v, err := read(t, s, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)
}

func TestWithBatch_ReadsOwnWrites(t *testing.T) {
	s := setupStore(t)

	err := s.WithBatch(context.Background(), func(ctx context.Context, kv KV) error {
		require.NoError(t, kv.Set([]byte("a"), []byte("1")))
		v, err := kv.Get([]byte("a"))
		require.NoError(t, err)
		require.Equal(t, []byte("1"), v)

		require.NoError(t, kv.Delete([]byte("a")))
		_, err = kv.Get([]byte("a"))
		require.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestWithBatch_DiscardsOnError(t *testing.T) {
	s := setupStore(t)

	err := s.WithBatch(context.Background(), func(ctx context.Context, kv KV) error {
		require.NoError(t, kv.Set([]byte("a"), []byte("1")))
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")

	_, err = read(t, s, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWithBatch_DiscardsOnPanic(t *testing.T) {
	s := setupStore(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		_, err := read(t, s, "a")
		require.ErrorIs(t, err, ErrNotFound)
	}()

	_ = s.WithBatch(context.Background(), func(ctx context.Context, kv KV) error {
		require.NoError(t, kv.Set([]byte("a"), []byte("1")))
		panic("kaput")
	})
}

func TestWithBatch_CancelledContext(t *testing.T) {
	s := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithBatch(ctx, func(ctx context.Context, kv KV) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestScan_PrefixOrder(t *testing.T) {
	s := setupStore(t)

	err := s.WithBatch(context.Background(), func(ctx context.Context, kv KV) error {
		for _, k := range []string{"p/b", "p/a", "q/a", "p/c", "o/z"} {
			if err := kv.Set([]byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	var keys []string
	err = s.View(context.Background(), func(ctx context.Context, kv KV) error {
		return kv.Scan([]byte("p/"), func(key, value []byte) error {
			keys = append(keys, string(key))
			return nil
		})
	})
	require.NoError(t, err)
	require.Equal(t, []string{"p/a", "p/b", "p/c"}, keys)
}

func TestScanFrom_StartsAtKey(t *testing.T) {
	s := setupStore(t)

	err := s.WithBatch(context.Background(), func(ctx context.Context, kv KV) error {
		for _, k := range []string{"o/z", "p/a", "p/b", "p/c", "q/a"} {
			if err := kv.Set([]byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		start string
		want  []string
	}{
		{"existing key", "p/b", []string{"p/b", "p/c"}},
		{"between keys", "p/aa", []string{"p/b", "p/c"}},
		{"before prefix", "a", []string{"p/a", "p/b", "p/c"}},
		{"past last key", "p/d", nil},
		{"past prefix", "z", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var keys []string
			err := s.View(context.Background(), func(ctx context.Context, kv KV) error {
				return kv.ScanFrom([]byte("p/"), []byte(tt.start), func(key, value []byte) error {
					keys = append(keys, string(key))
					return nil
				})
			})
			require.NoError(t, err)
			require.Equal(t, tt.want, keys)
		})
	}
}

func TestScan_StopsOnError(t *testing.T) {
	s := setupStore(t)
	stop := errors.New("stop")

	err := s.WithBatch(context.Background(), func(ctx context.Context, kv KV) error {
		require.NoError(t, kv.Set([]byte("p/a"), nil))
		require.NoError(t, kv.Set([]byte("p/b"), nil))

		n := 0
		err := kv.Scan([]byte("p/"), func(key, value []byte) error {
			n++
			return stop
		})
		require.Equal(t, 1, n)
		return err
	})
	require.ErrorIs(t, err, stop)
}

func TestView_IsReadOnly(t *testing.T) {
	s := setupStore(t)
	err := s.View(context.Background(), func(ctx context.Context, kv KV) error {
		return kv.Set([]byte("a"), []byte("1"))
	})
	require.Error(t, err)
}

func TestPrefixEnd(t *testing.T) {
	tests := []struct {
		in   []byte
		want []byte
	}{
		{[]byte("p/"), []byte("p0")},
		{[]byte{0x01, 0xff}, []byte{0x02}},
		{[]byte{0xff, 0xff}, nil},
		{nil, nil},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, PrefixEnd(tt.in))
	}
}
