// Package records provides the record store: encrypted records and their
// revealed plaintext, backed by PostgreSQL or Pebble.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/dbx"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Record) (int64, error) {
	query := `INSERT INTO records (title, body, topic) VALUES ($1, $2, $3) RETURNING id, created_at`

	if err := r.db.QueryRowContext(ctx, query, []byte(rec.Title), []byte(rec.Body), []byte(rec.Topic)).
		Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO revealed_records (record_id) VALUES ($1)`, rec.ID); err != nil {
		return 0, fmt.Errorf("insert revealed record: %w", err)
	}
	return rec.ID, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Record, error) {
	query := `SELECT id, title, body, topic, created_at FROM records WHERE id = $1`

	var title, body, topic []byte
	rec := &models.Record{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &title, &body, &topic, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("select record: %w", err)
	}
	rec.Title, rec.Body, rec.Topic = title, body, topic
	return rec, nil
}

func (r *PostgresRepository) GetRevealed(ctx context.Context, id int64) (*models.RevealedRecord, error) {
	return r.getRevealed(ctx, id, "")
}

func (r *PostgresRepository) GetRevealedForUpdate(ctx context.Context, id int64) (*models.RevealedRecord, error) {
	return r.getRevealed(ctx, id, " FOR UPDATE")
}

func (r *PostgresRepository) getRevealed(ctx context.Context, id int64, suffix string) (*models.RevealedRecord, error) {
	query := `SELECT record_id, title, body, topic, revealed FROM revealed_records WHERE record_id = $1` + suffix

	rr := &models.RevealedRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rr.ID, &rr.Title, &rr.Body, &rr.Topic, &rr.Revealed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("select revealed record: %w", err)
	}
	return rr, nil
}

func (r *PostgresRepository) MarkRevealed(ctx context.Context, rr *models.RevealedRecord) error {
	query := `
		UPDATE revealed_records SET title = $2, body = $3, topic = $4, revealed = true
		WHERE record_id = $1 AND revealed = false
	`
	res, err := r.db.ExecContext(ctx, query, rr.ID, rr.Title, rr.Body, rr.Topic)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		rr.Revealed = true
		return nil
	case 0:
		return common.ErrAlreadyProcessed
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
