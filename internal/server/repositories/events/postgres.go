// Package events provides the notification outbox. Events are written in
// the same unit of work as the state change they describe.
package events

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophreveal/internal/dbx"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

// PostgresRepository implements the outbox over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (kind, record_id, topic, count, correlation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq
	`
	err := r.db.QueryRowContext(ctx, query,
		e.Kind, e.RecordID, e.Topic, strconv.FormatUint(e.Count, 10), e.CorrelationID, e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, after int64, limit int) ([]*models.Event, error) {
	query := `
		SELECT seq, kind, record_id, topic, count::text, correlation_id, created_at
		FROM events WHERE seq > $1 ORDER BY seq LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []*models.Event
	for rows.Next() {
		var (
			e     models.Event
			count string
		)
		if err := rows.Scan(&e.Seq, &e.Kind, &e.RecordID, &e.Topic, &count, &e.CorrelationID, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Count, err = strconv.ParseUint(count, 10, 64); err != nil {
			return nil, fmt.Errorf("event %d count: %w", e.Seq, err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
