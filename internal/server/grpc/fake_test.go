package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/api"
	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/logging"
	"github.com/dmitrijs2005/gophreveal/internal/server/auth"
	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
	"github.com/dmitrijs2005/gophreveal/internal/server/metrics"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "secret"

type fakeService struct {
	err        error
	lastCaller string
	lastID     int64
	lastTopic  string
	lastLimit  int
	handle     fhe.Handle
	events     []*models.Event
}

func (f *fakeService) Submit(ctx context.Context, title, body, topic fhe.Handle) (int64, error) {
	return 42, f.err
}

func (f *fakeService) RequestRecordDecryption(ctx context.Context, caller string, id int64) (string, error) {
	f.lastCaller, f.lastID = caller, id
	return "cid-1", f.err
}

func (f *fakeService) RequestTopicCounterDecryption(ctx context.Context, caller, topic string) (string, error) {
	f.lastCaller, f.lastTopic = caller, topic
	return "cid-2", f.err
}

func (f *fakeService) GetRevealed(ctx context.Context, id int64) (*models.RevealedRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.RevealedRecord{ID: id, Title: "t", Body: "b", Topic: "bio", Revealed: true}, nil
}

func (f *fakeService) GetMetadata(ctx context.Context, id int64) (*models.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Record{ID: id, Title: fhe.Handle("T"), Body: fhe.Handle("B"), Topic: fhe.Handle("P"),
		CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeService) GetEncryptedCounter(ctx context.Context, topic string) (fhe.Handle, error) {
	f.lastTopic = topic
	return f.handle, f.err
}

func (f *fakeService) ResetAllCounters(ctx context.Context, caller string) error {
	f.lastCaller = caller
	return f.err
}

func (f *fakeService) CancelPendingRequest(ctx context.Context, caller, cid string) error {
	f.lastCaller = caller
	return f.err
}

func (f *fakeService) Topics(ctx context.Context) ([]string, error) {
	return []string{"bio", "chem"}, f.err
}

func (f *fakeService) Events(ctx context.Context, after int64, limit int) ([]*models.Event, error) {
	f.lastLimit = limit
	return f.events, f.err
}

// newTestClient serves s over an in-memory listener.
func newTestClient(t *testing.T, svc Service, m *metrics.Metrics) api.RevealServiceClient {
	t.Helper()

	s := NewGRPCServer("bufnet", logging.Nop{}, svc, m, testSecret)
	lis := bufconn.Listen(1 << 20)
	srv := s.newServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return api.NewRevealServiceClient(conn)
}

func withToken(t *testing.T, caller string) context.Context {
	t.Helper()
	tok, err := auth.GenerateToken(caller, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)
}
