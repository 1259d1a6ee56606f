package records

import (
	"context"

	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

// Repository stores submitted records and their revealed plaintext.
type Repository interface {
	// Create assigns the next id to r, stores it together with an empty
	// revealed row and returns the id.
	Create(ctx context.Context, r *models.Record) (int64, error)
	Get(ctx context.Context, id int64) (*models.Record, error)
	GetRevealed(ctx context.Context, id int64) (*models.RevealedRecord, error)
	// GetRevealedForUpdate is GetRevealed that also locks the row until the
	// surrounding unit of work ends.
	GetRevealedForUpdate(ctx context.Context, id int64) (*models.RevealedRecord, error)
	// MarkRevealed stores the plaintext and sets Revealed. It fails with
	// common.ErrAlreadyProcessed if the record was revealed before.
	MarkRevealed(ctx context.Context, r *models.RevealedRecord) error
}
