package client

import (
	"context"

	"github.com/dmitrijs2005/gophreveal/internal/api"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Submit(ctx context.Context, title, body, topic []byte) (int64, error)
	RequestReveal(ctx context.Context, id int64) (string, error)
	RequestTopicCount(ctx context.Context, topic string) (string, error)
	Revealed(ctx context.Context, id int64) (*api.RevealedRecord, error)
	Metadata(ctx context.Context, id int64) (*api.Metadata, error)
	Counter(ctx context.Context, topic string) (*api.EncryptedCounter, error)
	ResetCounters(ctx context.Context) error
	Cancel(ctx context.Context, correlationID string) error
	Topics(ctx context.Context) ([]string, error)
	Events(ctx context.Context, after int64, limit int32) ([]*api.Event, error)
}
