// Package counters provides the aggregate counter table and the topic
// registry, backed by PostgreSQL or Pebble.
package counters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/dbx"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"github.com/dmitrijs2005/gophreveal/internal/server/topics"
)

// PostgresRepository implements counter storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, topic string) (*models.TopicCounter, error) {
	var count []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT count FROM topic_counters WHERE topic = $1`, topic).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("select counter: %w", err)
	}
	return &models.TopicCounter{Topic: topic, Count: count, Initialized: true}, nil
}

func (r *PostgresRepository) Put(ctx context.Context, c *models.TopicCounter) error {
	query := `
		INSERT INTO topic_counters (topic, topic_hash, count)
		VALUES ($1, $2, $3)
		ON CONFLICT (topic) DO UPDATE SET count = EXCLUDED.count
	`
	if _, err := r.db.ExecContext(ctx, query, c.Topic, topics.Hash(c.Topic), []byte(c.Count)); err != nil {
		return fmt.Errorf("upsert counter: %w", err)
	}
	c.Initialized = true
	return nil
}

func (r *PostgresRepository) Topics(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT topic FROM topic_counters ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select topics: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) TopicByHash(ctx context.Context, hash []byte) (string, error) {
	var t string
	err := r.db.QueryRowContext(ctx,
		`SELECT topic FROM topic_counters WHERE topic_hash = $1`, hash).Scan(&t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("select topic by hash: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Reset(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM topic_counters`)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return int(n), nil
}
