package pending

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pendingColumns = []string{"correlation_id", "kind", "record_id", "topic_hash", "created_at", "expires_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_NullExpiry(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO pending_requests`).
		WithArgs("cid-1", "record", int64(3), []byte(nil), now, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.PendingRequest{
		CorrelationID: "cid-1", Kind: models.TargetRecord, RecordID: 3, CreatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_WithExpiry(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)
	mock.ExpectExec(`INSERT INTO pending_requests`).
		WithArgs("cid-2", "topic", int64(0), []byte{1, 2}, now, exp).
		WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), &models.PendingRequest{
		CorrelationID: "cid-2", Kind: models.TargetTopic, TopicHash: []byte{1, 2}, CreatedAt: now, ExpiresAt: exp,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert pending request")
}

func TestCreate_DuplicateID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO pending_requests`).
		WithArgs("cid-1", "record", int64(3), []byte(nil), now, nil).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.PendingRequest{
		CorrelationID: "cid-1", Kind: models.TargetRecord, RecordID: 3, CreatedAt: now,
	})
	require.ErrorIs(t, err, common.ErrDuplicateRequest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q := `SELECT correlation_id, kind, record_id, topic_hash, created_at, expires_at\s+FROM pending_requests WHERE correlation_id = \$1`

	mock.ExpectQuery(q).WithArgs("a").
		WillReturnRows(sqlmock.NewRows(pendingColumns).AddRow("a", "record", int64(5), nil, now, nil))
	mock.ExpectQuery(q).WithArgs("b").
		WillReturnRows(sqlmock.NewRows(pendingColumns).AddRow("b", "topic", int64(0), []byte{9}, now, now.Add(time.Minute)))
	mock.ExpectQuery(q).WithArgs("c").WillReturnError(sql.ErrNoRows)

	p, err := repo.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, &models.PendingRequest{CorrelationID: "a", Kind: models.TargetRecord, RecordID: 5, CreatedAt: now}, p)

	p, err = repo.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, models.TargetTopic, p.Kind)
	assert.Equal(t, []byte{9}, p.TopicHash)
	assert.Equal(t, now.Add(time.Minute), p.ExpiresAt)

	_, err = repo.Get(context.Background(), "c")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `DELETE FROM pending_requests WHERE correlation_id = \$1`
	mock.ExpectExec(q).WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("b").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs("c").WillReturnError(errors.New("db is down"))

	require.NoError(t, repo.Delete(context.Background(), "a"))
	require.ErrorIs(t, repo.Delete(context.Background(), "b"), common.ErrorNotFound)
	err := repo.Delete(context.Background(), "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM pending_requests WHERE expires_at IS NOT NULL AND expires_at <= \$1`).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(pendingColumns).
			AddRow("a", "record", int64(1), nil, now.Add(-time.Hour), now.Add(-time.Minute)).
			AddRow("b", "topic", int64(0), []byte{1}, now.Add(-time.Hour), now))

	got, err := repo.Expired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].CorrelationID)
	assert.Equal(t, "b", got[1].CorrelationID)
}
