// Package requests persists the decryption requests issued from this
// client, so their correlation ids can be listed and cancelled later.
package requests

import (
	"context"

	"github.com/dmitrijs2005/gophreveal/internal/client/models"
)

type Repository interface {
	// Add records a request; re-adding a correlation id replaces it.
	Add(ctx context.Context, r *models.Request) error

	// List returns requests, most recent first.
	List(ctx context.Context) ([]*models.Request, error)

	// Delete forgets a request. Unknown ids are not an error.
	Delete(ctx context.Context, correlationID string) error
}
