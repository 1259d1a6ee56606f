package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophreveal/internal/api"
	"github.com/dmitrijs2005/gophreveal/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.RevealServiceClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewRevealClient connects to the server at endpointURL. A non-empty
// accessToken is attached to every call.
func NewRevealClient(endpointURL, accessToken string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewRevealServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Submit(ctx context.Context, title, body, topic []byte) (int64, error) {
	resp, err := s.client.SubmitRecord(ctx, &api.SubmitRecordRequest{Title: title, Body: body, Topic: topic})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.ID, nil
}

func (s *GRPCClient) RequestReveal(ctx context.Context, id int64) (string, error) {
	resp, err := s.client.RequestRecordDecryption(ctx, &api.RequestRecordDecryptionRequest{ID: id})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.CorrelationID, nil
}

func (s *GRPCClient) RequestTopicCount(ctx context.Context, topic string) (string, error) {
	resp, err := s.client.RequestTopicCounterDecryption(ctx, &api.RequestTopicCounterDecryptionRequest{Topic: topic})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.CorrelationID, nil
}

func (s *GRPCClient) Revealed(ctx context.Context, id int64) (*api.RevealedRecord, error) {
	resp, err := s.client.GetRevealedRecord(ctx, &api.GetRevealedRecordRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Metadata(ctx context.Context, id int64) (*api.Metadata, error) {
	resp, err := s.client.GetMetadata(ctx, &api.GetMetadataRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Counter(ctx context.Context, topic string) (*api.EncryptedCounter, error) {
	resp, err := s.client.GetEncryptedCounter(ctx, &api.GetEncryptedCounterRequest{Topic: topic})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ResetCounters(ctx context.Context) error {
	_, err := s.client.ResetCounters(ctx, &api.ResetCountersRequest{})
	return s.mapError(err)
}

func (s *GRPCClient) Cancel(ctx context.Context, correlationID string) error {
	_, err := s.client.CancelRequest(ctx, &api.CancelRequestRequest{CorrelationID: correlationID})
	return s.mapError(err)
}

func (s *GRPCClient) Topics(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListTopics(ctx, &api.ListTopicsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Topics, nil
}

func (s *GRPCClient) Events(ctx context.Context, after int64, limit int32) ([]*api.Event, error) {
	resp, err := s.client.ListEvents(ctx, &api.ListEventsRequest{After: after, Limit: limit})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Events, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrAlreadyProcessed, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Aborted:
		return fmt.Errorf("%w: %s", ErrConflict, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
