package counters

import (
	"context"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/kvx"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"github.com/dmitrijs2005/gophreveal/internal/server/topics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRepo(t *testing.T, fn func(ctx context.Context, r *PebbleRepository)) {
	t.Helper()
	s, err := kvx.Open("counters", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	err = s.WithBatch(context.Background(), func(ctx context.Context, kv kvx.KV) error {
		fn(ctx, NewPebbleRepository(kv))
		return nil
	})
	require.NoError(t, err)
}

func TestPebble_PutRegistersOnce(t *testing.T) {
	withRepo(t, func(ctx context.Context, r *PebbleRepository) {
		_, err := r.Get(ctx, "bio")
		require.ErrorIs(t, err, common.ErrorNotFound)

		require.NoError(t, r.Put(ctx, &models.TopicCounter{Topic: "bio", Count: []byte("clr:1")}))
		require.NoError(t, r.Put(ctx, &models.TopicCounter{Topic: "chem", Count: []byte("clr:1")}))
		require.NoError(t, r.Put(ctx, &models.TopicCounter{Topic: "bio", Count: []byte("clr:2")}))

		c, err := r.Get(ctx, "bio")
		require.NoError(t, err)
		assert.Equal(t, []byte("clr:2"), []byte(c.Count))
		assert.True(t, c.Initialized)

		list, err := r.Topics(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"bio", "chem"}, list)
	})
}

func TestPebble_TopicByHash(t *testing.T) {
	withRepo(t, func(ctx context.Context, r *PebbleRepository) {
		require.NoError(t, r.Put(ctx, &models.TopicCounter{Topic: "géologie", Count: []byte("clr:1")}))

		got, err := r.TopicByHash(ctx, topics.Hash("géologie"))
		require.NoError(t, err)
		assert.Equal(t, "géologie", got)

		_, err = r.TopicByHash(ctx, topics.Hash("bio"))
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestPebble_ResetClearsCountersAndRegistry(t *testing.T) {
	withRepo(t, func(ctx context.Context, r *PebbleRepository) {
		for _, topic := range []string{"bio", "chem"} {
			require.NoError(t, r.Put(ctx, &models.TopicCounter{Topic: topic, Count: []byte("clr:1")}))
		}

		n, err := r.Reset(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		list, err := r.Topics(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		_, err = r.Get(ctx, "bio")
		require.ErrorIs(t, err, common.ErrorNotFound)
		_, err = r.TopicByHash(ctx, topics.Hash("chem"))
		require.ErrorIs(t, err, common.ErrorNotFound)

		// topics can be registered again after a reset
		require.NoError(t, r.Put(ctx, &models.TopicCounter{Topic: "chem", Count: []byte("clr:1")}))
		list, err = r.Topics(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"chem"}, list)
	})
}
