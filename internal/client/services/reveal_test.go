package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/api"
	"github.com/dmitrijs2005/gophreveal/internal/client/client"
	"github.com/dmitrijs2005/gophreveal/internal/client/models"
	"github.com/dmitrijs2005/gophreveal/internal/client/repositories/requests"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, client.RunMigrations(context.Background(), db))
	return db
}

// ---- fake client ----

type fakeClient struct {
	RevealErr error
	CancelErr error
	CloseErr  error
	PingErr   error

	LastCancel string
	LastSubmit [][]byte
}

func (f *fakeClient) Close() error                   { return f.CloseErr }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Submit(ctx context.Context, title, body, topic []byte) (int64, error) {
	f.LastSubmit = [][]byte{title, body, topic}
	return 1, nil
}

func (f *fakeClient) RequestReveal(ctx context.Context, id int64) (string, error) {
	return "cid-record", f.RevealErr
}

func (f *fakeClient) RequestTopicCount(ctx context.Context, topic string) (string, error) {
	return "cid-topic", f.RevealErr
}

func (f *fakeClient) Revealed(ctx context.Context, id int64) (*api.RevealedRecord, error) {
	return &api.RevealedRecord{ID: id}, nil
}

func (f *fakeClient) Metadata(ctx context.Context, id int64) (*api.Metadata, error) {
	return &api.Metadata{ID: id}, nil
}

func (f *fakeClient) Counter(ctx context.Context, topic string) (*api.EncryptedCounter, error) {
	return &api.EncryptedCounter{Topic: topic}, nil
}

func (f *fakeClient) ResetCounters(ctx context.Context) error { return nil }

func (f *fakeClient) Cancel(ctx context.Context, correlationID string) error {
	f.LastCancel = correlationID
	return f.CancelErr
}

func (f *fakeClient) Topics(ctx context.Context) ([]string, error) { return []string{"bio"}, nil }

func (f *fakeClient) Events(ctx context.Context, after int64, limit int32) ([]*api.Event, error) {
	return []*api.Event{{Seq: after + 1}}, nil
}

func newService(t *testing.T, fc *fakeClient) *revealService {
	t.Helper()
	s := NewRevealService(fc, requests.NewSQLiteRepository(setupDB(t))).(*revealService)
	tick := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return s
}

// ---- TESTS ----

func TestRequests_AreJournaled(t *testing.T) {
	s := newService(t, &fakeClient{})
	ctx := context.Background()

	cid, err := s.RequestReveal(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "cid-record", cid)

	cid, err = s.RequestTopicCount(ctx, "bio")
	require.NoError(t, err)
	require.Equal(t, "cid-topic", cid)

	list, err := s.Requests(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "cid-topic", list[0].CorrelationID)
	require.Equal(t, models.RequestTopic, list[0].Kind)
	require.Equal(t, "bio", list[0].Target)
	require.Equal(t, "cid-record", list[1].CorrelationID)
	require.Equal(t, models.RequestRecord, list[1].Kind)
	require.Equal(t, "7", list[1].Target)
}

func TestRequests_FailureIsNotJournaled(t *testing.T) {
	s := newService(t, &fakeClient{RevealErr: client.ErrUnauthorized})
	ctx := context.Background()

	_, err := s.RequestReveal(ctx, 7)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	_, err = s.RequestTopicCount(ctx, "bio")
	require.ErrorIs(t, err, client.ErrUnauthorized)

	list, err := s.Requests(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCancel_DropsJournalEntry(t *testing.T) {
	fc := &fakeClient{}
	s := newService(t, fc)
	ctx := context.Background()

	cid, err := s.RequestReveal(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(ctx, cid))
	require.Equal(t, cid, fc.LastCancel)

	list, err := s.Requests(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCancel_UnknownOnServerStillDropped(t *testing.T) {
	fc := &fakeClient{}
	s := newService(t, fc)
	ctx := context.Background()

	cid, err := s.RequestReveal(ctx, 7)
	require.NoError(t, err)

	fc.CancelErr = client.ErrNotFound
	require.ErrorIs(t, s.Cancel(ctx, cid), client.ErrNotFound)

	list, err := s.Requests(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCancel_OtherErrorKeepsEntry(t *testing.T) {
	fc := &fakeClient{}
	s := newService(t, fc)
	ctx := context.Background()

	cid, err := s.RequestReveal(ctx, 7)
	require.NoError(t, err)

	fc.CancelErr = client.ErrUnauthorized
	require.ErrorIs(t, s.Cancel(ctx, cid), client.ErrUnauthorized)

	list, err := s.Requests(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestPassThrough(t *testing.T) {
	fc := &fakeClient{PingErr: client.ErrUnavailable, CloseErr: errors.New("closed")}
	s := newService(t, fc)
	ctx := context.Background()

	id, err := s.Submit(ctx, []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, fc.LastSubmit)

	rr, err := s.Revealed(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), rr.ID)

	meta, err := s.Metadata(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, int64(4), meta.ID)

	c, err := s.Counter(ctx, "bio")
	require.NoError(t, err)
	require.Equal(t, "bio", c.Topic)

	require.NoError(t, s.ResetCounters(ctx))

	topics, err := s.Topics(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"bio"}, topics)

	events, err := s.Events(ctx, 9, 1)
	require.NoError(t, err)
	require.Equal(t, int64(10), events[0].Seq)

	require.ErrorIs(t, s.Ping(ctx), client.ErrUnavailable)
	require.EqualError(t, s.Close(ctx), "closed")
}
