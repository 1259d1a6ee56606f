// Package pending provides the correlation tracker storage: outstanding
// decryption requests keyed by correlation id.
package pending

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/dbx"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

// PostgresRepository implements pending request storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.PendingRequest) error {
	query := `
		INSERT INTO pending_requests (correlation_id, kind, record_id, topic_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.CorrelationID, string(p.Kind), p.RecordID, p.TopicHash, p.CreatedAt, nullTime(p.ExpiresAt))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", common.ErrDuplicateRequest, p.CorrelationID)
		}
		return fmt.Errorf("insert pending request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, cid string) (*models.PendingRequest, error) {
	query := `
		SELECT correlation_id, kind, record_id, topic_hash, created_at, expires_at
		FROM pending_requests WHERE correlation_id = $1
	`
	p, err := scanPending(r.db.QueryRowContext(ctx, query, cid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("select pending request: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, cid string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_requests WHERE correlation_id = $1`, cid)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Expired(ctx context.Context, now time.Time) ([]*models.PendingRequest, error) {
	query := `
		SELECT correlation_id, kind, record_id, topic_hash, created_at, expires_at
		FROM pending_requests WHERE expires_at IS NOT NULL AND expires_at <= $1
		ORDER BY expires_at
	`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to select expired requests: %w", err)
	}
	defer rows.Close()

	var result []*models.PendingRequest
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPending(s scanner) (*models.PendingRequest, error) {
	var (
		p       models.PendingRequest
		kind    string
		expires sql.NullTime
	)
	if err := s.Scan(&p.CorrelationID, &kind, &p.RecordID, &p.TopicHash, &p.CreatedAt, &expires); err != nil {
		return nil, err
	}
	p.Kind = models.TargetKind(kind)
	if expires.Valid {
		p.ExpiresAt = expires.Time
	}
	return &p, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
