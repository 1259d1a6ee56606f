package counters

import (
	"context"

	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

// Repository stores encrypted per-topic counters together with the topic
// registry. A topic is registered exactly when it has a counter.
type Repository interface {
	// Get returns the counter for topic or common.ErrorNotFound.
	Get(ctx context.Context, topic string) (*models.TopicCounter, error)
	// Put stores c.Count, registering c.Topic when it is new.
	Put(ctx context.Context, c *models.TopicCounter) error
	// Topics lists registered topics in registration order.
	Topics(ctx context.Context) ([]string, error)
	// TopicByHash returns the registered topic whose hash is hash.
	TopicByHash(ctx context.Context, hash []byte) (string, error)
	// Reset deletes every counter and empties the registry. It returns the
	// number of counters removed.
	Reset(ctx context.Context) (int, error)
}
