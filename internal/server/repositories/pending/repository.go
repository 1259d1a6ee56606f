package pending

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

// Repository tracks outstanding decryption requests by correlation id.
type Repository interface {
	// Create stores a new request; common.ErrDuplicateRequest if the
	// correlation id is already pending.
	Create(ctx context.Context, p *models.PendingRequest) error
	// Get returns the request or common.ErrorNotFound.
	Get(ctx context.Context, cid string) (*models.PendingRequest, error)
	// Delete removes the request; common.ErrorNotFound if it is unknown.
	Delete(ctx context.Context, cid string) error
	// Expired lists requests whose deadline is at or before now.
	Expired(ctx context.Context, now time.Time) ([]*models.PendingRequest, error)
}
