package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophreveal/internal/api"
	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultEventsLimit = 100
	maxEventsLimit     = 1000
)

// Service is the part of services.RevealService exposed over gRPC.
type Service interface {
	Submit(ctx context.Context, title, body, topic fhe.Handle) (int64, error)
	RequestRecordDecryption(ctx context.Context, caller string, id int64) (string, error)
	RequestTopicCounterDecryption(ctx context.Context, caller, topic string) (string, error)
	GetRevealed(ctx context.Context, id int64) (*models.RevealedRecord, error)
	GetMetadata(ctx context.Context, id int64) (*models.Record, error)
	GetEncryptedCounter(ctx context.Context, topic string) (fhe.Handle, error)
	ResetAllCounters(ctx context.Context, caller string) error
	CancelPendingRequest(ctx context.Context, caller, cid string) error
	Topics(ctx context.Context) ([]string, error)
	Events(ctx context.Context, after int64, limit int) ([]*models.Event, error)
}

func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
	}
	return st
}

func (s *GRPCServer) SubmitRecord(ctx context.Context, req *api.SubmitRecordRequest) (*api.SubmitRecordResponse, error) {
	id, err := s.reveal.Submit(ctx, req.Title, req.Body, req.Topic)
	if err != nil {
		return nil, s.fail(ctx, "SubmitRecord", err)
	}
	return &api.SubmitRecordResponse{ID: id}, nil
}

func (s *GRPCServer) RequestRecordDecryption(ctx context.Context, req *api.RequestRecordDecryptionRequest) (*api.DecryptionRequestResponse, error) {
	cid, err := s.reveal.RequestRecordDecryption(ctx, callerFromContext(ctx), req.ID)
	if err != nil {
		return nil, s.fail(ctx, "RequestRecordDecryption", err)
	}
	return &api.DecryptionRequestResponse{CorrelationID: cid}, nil
}

func (s *GRPCServer) RequestTopicCounterDecryption(ctx context.Context, req *api.RequestTopicCounterDecryptionRequest) (*api.DecryptionRequestResponse, error) {
	cid, err := s.reveal.RequestTopicCounterDecryption(ctx, callerFromContext(ctx), req.Topic)
	if err != nil {
		return nil, s.fail(ctx, "RequestTopicCounterDecryption", err)
	}
	return &api.DecryptionRequestResponse{CorrelationID: cid}, nil
}

func (s *GRPCServer) GetRevealedRecord(ctx context.Context, req *api.GetRevealedRecordRequest) (*api.RevealedRecord, error) {
	rr, err := s.reveal.GetRevealed(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "GetRevealedRecord", err)
	}
	return &api.RevealedRecord{ID: rr.ID, Title: rr.Title, Body: rr.Body, Topic: rr.Topic, Revealed: rr.Revealed}, nil
}

func (s *GRPCServer) GetMetadata(ctx context.Context, req *api.GetMetadataRequest) (*api.Metadata, error) {
	rec, err := s.reveal.GetMetadata(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "GetMetadata", err)
	}
	return &api.Metadata{ID: rec.ID, Title: rec.Title, Body: rec.Body, Topic: rec.Topic, CreatedAt: rec.CreatedAt}, nil
}

func (s *GRPCServer) GetEncryptedCounter(ctx context.Context, req *api.GetEncryptedCounterRequest) (*api.EncryptedCounter, error) {
	h, err := s.reveal.GetEncryptedCounter(ctx, req.Topic)
	if err != nil {
		return nil, s.fail(ctx, "GetEncryptedCounter", err)
	}
	return &api.EncryptedCounter{Topic: req.Topic, Handle: h, Initialized: len(h) > 0}, nil
}

func (s *GRPCServer) ResetCounters(ctx context.Context, req *api.ResetCountersRequest) (*api.Empty, error) {
	if err := s.reveal.ResetAllCounters(ctx, callerFromContext(ctx)); err != nil {
		return nil, s.fail(ctx, "ResetCounters", err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) CancelRequest(ctx context.Context, req *api.CancelRequestRequest) (*api.Empty, error) {
	if err := s.reveal.CancelPendingRequest(ctx, callerFromContext(ctx), req.CorrelationID); err != nil {
		return nil, s.fail(ctx, "CancelRequest", err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) ListTopics(ctx context.Context, req *api.ListTopicsRequest) (*api.ListTopicsResponse, error) {
	list, err := s.reveal.Topics(ctx)
	if err != nil {
		return nil, s.fail(ctx, "ListTopics", err)
	}
	return &api.ListTopicsResponse{Topics: list}, nil
}

func (s *GRPCServer) ListEvents(ctx context.Context, req *api.ListEventsRequest) (*api.ListEventsResponse, error) {
	limit := int(req.Limit)
	switch {
	case limit <= 0:
		limit = defaultEventsLimit
	case limit > maxEventsLimit:
		limit = maxEventsLimit
	}

	list, err := s.reveal.Events(ctx, req.After, limit)
	if err != nil {
		return nil, s.fail(ctx, "ListEvents", err)
	}

	out := make([]*api.Event, 0, len(list))
	for _, e := range list {
		out = append(out, &api.Event{
			Seq:           e.Seq,
			Kind:          e.Kind,
			RecordID:      e.RecordID,
			Topic:         e.Topic,
			Count:         e.Count,
			CorrelationID: e.CorrelationID,
			CreatedAt:     e.CreatedAt,
		})
	}
	return &api.ListEventsResponse{Events: out}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}
