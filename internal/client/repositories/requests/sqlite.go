package requests

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/client/models"
	"github.com/dmitrijs2005/gophreveal/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, req *models.Request) error {
	query := `INSERT INTO requests (correlation_id, kind, target, requested_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(correlation_id) DO UPDATE SET kind = excluded.kind, target = excluded.target, requested_at = excluded.requested_at`

	_, err := r.db.ExecContext(ctx, query, req.CorrelationID, string(req.Kind), req.Target, req.RequestedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to add request: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Request, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT correlation_id, kind, target, requested_at FROM requests ORDER BY requested_at DESC, correlation_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var result []*models.Request
	for rows.Next() {
		var (
			req  models.Request
			kind string
			at   int64
		)
		if err := rows.Scan(&req.CorrelationID, &kind, &req.Target, &at); err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		req.Kind = models.RequestKind(kind)
		req.RequestedAt = time.Unix(0, at).UTC()
		result = append(result, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate request rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, correlationID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE correlation_id = ?`, correlationID); err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}
