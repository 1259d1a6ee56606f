package events

import (
	"context"

	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

// Repository is the append-only notification outbox.
type Repository interface {
	// Append assigns the next sequence number to e and stores it.
	Append(ctx context.Context, e *models.Event) error
	// List returns up to limit events with Seq > after, in order.
	List(ctx context.Context, after int64, limit int) ([]*models.Event, error)
}
