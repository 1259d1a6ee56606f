package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophreveal/internal/api"
	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

/*************
 * Fake api client
 *************/

type fakeAPI struct {
	// inputs captured
	lastSubmit   *api.SubmitRecordRequest
	lastReveal   *api.RequestRecordDecryptionRequest
	lastCount    *api.RequestTopicCounterDecryptionRequest
	lastRevealed *api.GetRevealedRecordRequest
	lastMeta     *api.GetMetadataRequest
	lastCounter  *api.GetEncryptedCounterRequest
	lastCancel   *api.CancelRequestRequest
	lastEvents   *api.ListEventsRequest
	resetCalls   int

	// outputs preset
	pingResp *api.PingResponse
	revealed *api.RevealedRecord
	meta     *api.Metadata
	counter  *api.EncryptedCounter
	topics   []string
	events   []*api.Event
	err      error
}

func (f *fakeAPI) SubmitRecord(ctx context.Context, in *api.SubmitRecordRequest, opts ...grpc.CallOption) (*api.SubmitRecordResponse, error) {
	f.lastSubmit = in
	return &api.SubmitRecordResponse{ID: 11}, f.err
}
func (f *fakeAPI) RequestRecordDecryption(ctx context.Context, in *api.RequestRecordDecryptionRequest, opts ...grpc.CallOption) (*api.DecryptionRequestResponse, error) {
	f.lastReveal = in
	return &api.DecryptionRequestResponse{CorrelationID: "cid-r"}, f.err
}
func (f *fakeAPI) RequestTopicCounterDecryption(ctx context.Context, in *api.RequestTopicCounterDecryptionRequest, opts ...grpc.CallOption) (*api.DecryptionRequestResponse, error) {
	f.lastCount = in
	return &api.DecryptionRequestResponse{CorrelationID: "cid-t"}, f.err
}
func (f *fakeAPI) GetRevealedRecord(ctx context.Context, in *api.GetRevealedRecordRequest, opts ...grpc.CallOption) (*api.RevealedRecord, error) {
	f.lastRevealed = in
	return f.revealed, f.err
}
func (f *fakeAPI) GetMetadata(ctx context.Context, in *api.GetMetadataRequest, opts ...grpc.CallOption) (*api.Metadata, error) {
	f.lastMeta = in
	return f.meta, f.err
}
func (f *fakeAPI) GetEncryptedCounter(ctx context.Context, in *api.GetEncryptedCounterRequest, opts ...grpc.CallOption) (*api.EncryptedCounter, error) {
	f.lastCounter = in
	return f.counter, f.err
}
func (f *fakeAPI) ResetCounters(ctx context.Context, in *api.ResetCountersRequest, opts ...grpc.CallOption) (*api.Empty, error) {
	f.resetCalls++
	return &api.Empty{}, f.err
}
func (f *fakeAPI) CancelRequest(ctx context.Context, in *api.CancelRequestRequest, opts ...grpc.CallOption) (*api.Empty, error) {
	f.lastCancel = in
	return &api.Empty{}, f.err
}
func (f *fakeAPI) ListTopics(ctx context.Context, in *api.ListTopicsRequest, opts ...grpc.CallOption) (*api.ListTopicsResponse, error) {
	return &api.ListTopicsResponse{Topics: f.topics}, f.err
}
func (f *fakeAPI) ListEvents(ctx context.Context, in *api.ListEventsRequest, opts ...grpc.CallOption) (*api.ListEventsResponse, error) {
	f.lastEvents = in
	return &api.ListEventsResponse{Events: f.events}, f.err
}
func (f *fakeAPI) Ping(ctx context.Context, in *api.PingRequest, opts ...grpc.CallOption) (*api.PingResponse, error) {
	return f.pingResp, f.err
}

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_AttachesToken(t *testing.T) {
	c := &GRPCClient{accessToken: "A1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Equal(t, []string{"A1"}, toks)
		return nil
	}

	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "stale")
	require.NoError(t, c.accessTokenInterceptor(ctx, "/svc/Method", nil, nil, nil, invoker))
}

func TestInterceptor_NoTokenNoHeader(t *testing.T) {
	c := &GRPCClient{}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return status.Error(codes.Internal, "boom")
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.NoError(t, c.mapError(nil))
	require.ErrorIs(t, c.mapError(status.Error(codes.Unauthenticated, "x")), ErrUnauthorized)
	require.ErrorIs(t, c.mapError(status.Error(codes.PermissionDenied, "x")), ErrUnauthorized)
	require.ErrorIs(t, c.mapError(status.Error(codes.Unavailable, "x")), ErrUnavailable)
	require.ErrorIs(t, c.mapError(status.Error(codes.DeadlineExceeded, "x")), ErrUnavailable)
	require.ErrorIs(t, c.mapError(status.Error(codes.NotFound, "x")), ErrNotFound)
	require.ErrorIs(t, c.mapError(status.Error(codes.FailedPrecondition, "x")), ErrAlreadyProcessed)
	require.ErrorIs(t, c.mapError(status.Error(codes.InvalidArgument, "x")), ErrInvalidArgument)
	require.ErrorIs(t, c.mapError(status.Error(codes.Aborted, "x")), ErrConflict)
	require.ErrorContains(t, c.mapError(status.Error(codes.NotFound, "record 9")), "record 9")
	require.ErrorContains(t, c.mapError(errors.New("plain")), "rpc error:")
}

/*************
 * Ping tests
 *************/

func TestPing_OK(t *testing.T) {
	c := &GRPCClient{client: &fakeAPI{pingResp: &api.PingResponse{Status: "OK"}}}
	require.NoError(t, c.Ping(context.Background()))
}

func TestPing_NotOK_ReturnsUnavailable(t *testing.T) {
	c := &GRPCClient{client: &fakeAPI{pingResp: &api.PingResponse{Status: "NOT_OK"}}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestPing_MapsRPCError(t *testing.T) {
	c := &GRPCClient{client: &fakeAPI{err: status.Error(codes.Unavailable, "down")}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

/*************
 * Operation tests
 *************/

func TestOperations_PassArgumentsThrough(t *testing.T) {
	f := &fakeAPI{
		revealed: &api.RevealedRecord{ID: 3, Title: "t", Revealed: true},
		meta:     &api.Metadata{ID: 3, Title: []byte("T")},
		counter:  &api.EncryptedCounter{Topic: "bio", Handle: []byte("h"), Initialized: true},
		topics:   []string{"bio"},
		events:   []*api.Event{{Seq: 1, Kind: "record_revealed", RecordID: 3}},
	}
	c := &GRPCClient{client: f}
	ctx := context.Background()

	id, err := c.Submit(ctx, []byte("a"), []byte("b"), []byte("c"))
	require.NoError(t, err)
	require.Equal(t, int64(11), id)
	require.Equal(t, &api.SubmitRecordRequest{Title: []byte("a"), Body: []byte("b"), Topic: []byte("c")}, f.lastSubmit)

	cid, err := c.RequestReveal(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "cid-r", cid)
	require.Equal(t, int64(3), f.lastReveal.ID)

	cid, err = c.RequestTopicCount(ctx, "bio")
	require.NoError(t, err)
	require.Equal(t, "cid-t", cid)
	require.Equal(t, "bio", f.lastCount.Topic)

	rr, err := c.Revealed(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, f.revealed, rr)
	require.Equal(t, int64(3), f.lastRevealed.ID)

	meta, err := c.Metadata(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, f.meta, meta)

	counter, err := c.Counter(ctx, "bio")
	require.NoError(t, err)
	require.Equal(t, f.counter, counter)
	require.Equal(t, "bio", f.lastCounter.Topic)

	require.NoError(t, c.ResetCounters(ctx))
	require.Equal(t, 1, f.resetCalls)

	require.NoError(t, c.Cancel(ctx, "cid-r"))
	require.Equal(t, "cid-r", f.lastCancel.CorrelationID)

	topics, err := c.Topics(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"bio"}, topics)

	events, err := c.Events(ctx, 5, 20)
	require.NoError(t, err)
	require.Equal(t, f.events, events)
	require.Equal(t, &api.ListEventsRequest{After: 5, Limit: 20}, f.lastEvents)
}

func TestOperations_MapErrors(t *testing.T) {
	c := &GRPCClient{client: &fakeAPI{err: status.Error(codes.NotFound, "record 3")}}
	ctx := context.Background()

	_, err := c.Submit(ctx, nil, nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.RequestReveal(ctx, 3)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.RequestTopicCount(ctx, "bio")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.Revealed(ctx, 3)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.Metadata(ctx, 3)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.Counter(ctx, "bio")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, c.ResetCounters(ctx), ErrNotFound)
	require.ErrorIs(t, c.Cancel(ctx, "x"), ErrNotFound)
	_, err = c.Topics(ctx)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.Events(ctx, 0, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClose_WithoutConnection(t *testing.T) {
	require.NoError(t, (&GRPCClient{}).Close())
}

func TestNewRevealClient(t *testing.T) {
	c, err := NewRevealClient("127.0.0.1:1", "tok")
	require.NoError(t, err)
	require.Equal(t, "tok", c.accessToken)
	require.NoError(t, c.Close())
}
