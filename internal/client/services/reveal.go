// Package services contains application services for the gophreveal client.
// RevealService pairs the remote API with the local request journal: every
// decryption request issued from this client is recorded so it can be listed
// and cancelled later.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/api"
	"github.com/dmitrijs2005/gophreveal/internal/client/client"
	"github.com/dmitrijs2005/gophreveal/internal/client/models"
	"github.com/dmitrijs2005/gophreveal/internal/client/repositories/requests"
)

type RevealService interface {
	Submit(ctx context.Context, title, body, topic []byte) (int64, error)
	RequestReveal(ctx context.Context, id int64) (string, error)
	RequestTopicCount(ctx context.Context, topic string) (string, error)
	Revealed(ctx context.Context, id int64) (*api.RevealedRecord, error)
	Metadata(ctx context.Context, id int64) (*api.Metadata, error)
	Counter(ctx context.Context, topic string) (*api.EncryptedCounter, error)
	ResetCounters(ctx context.Context) error
	// Cancel withdraws a pending request on the server and drops it from
	// the journal. A request the server no longer knows is still dropped.
	Cancel(ctx context.Context, correlationID string) error
	Topics(ctx context.Context) ([]string, error)
	Events(ctx context.Context, after int64, limit int32) ([]*api.Event, error)
	// Requests lists the journal, most recent first.
	Requests(ctx context.Context) ([]*models.Request, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type revealService struct {
	client   client.Client
	requests requests.Repository
	now      func() time.Time
}

func NewRevealService(c client.Client, repo requests.Repository) RevealService {
	return &revealService{client: c, requests: repo, now: time.Now}
}

func (s *revealService) Submit(ctx context.Context, title, body, topic []byte) (int64, error) {
	return s.client.Submit(ctx, title, body, topic)
}

func (s *revealService) record(ctx context.Context, cid string, kind models.RequestKind, target string) error {
	req := &models.Request{CorrelationID: cid, Kind: kind, Target: target, RequestedAt: s.now().UTC()}
	if err := s.requests.Add(ctx, req); err != nil {
		return fmt.Errorf("request %s issued but not journaled: %w", cid, err)
	}
	return nil
}

func (s *revealService) RequestReveal(ctx context.Context, id int64) (string, error) {
	cid, err := s.client.RequestReveal(ctx, id)
	if err != nil {
		return "", err
	}
	return cid, s.record(ctx, cid, models.RequestRecord, fmt.Sprint(id))
}

func (s *revealService) RequestTopicCount(ctx context.Context, topic string) (string, error) {
	cid, err := s.client.RequestTopicCount(ctx, topic)
	if err != nil {
		return "", err
	}
	return cid, s.record(ctx, cid, models.RequestTopic, topic)
}

func (s *revealService) Revealed(ctx context.Context, id int64) (*api.RevealedRecord, error) {
	return s.client.Revealed(ctx, id)
}

func (s *revealService) Metadata(ctx context.Context, id int64) (*api.Metadata, error) {
	return s.client.Metadata(ctx, id)
}

func (s *revealService) Counter(ctx context.Context, topic string) (*api.EncryptedCounter, error) {
	return s.client.Counter(ctx, topic)
}

func (s *revealService) ResetCounters(ctx context.Context) error {
	return s.client.ResetCounters(ctx)
}

func (s *revealService) Cancel(ctx context.Context, correlationID string) error {
	err := s.client.Cancel(ctx, correlationID)
	if err != nil && !errors.Is(err, client.ErrNotFound) {
		return err
	}
	if derr := s.requests.Delete(ctx, correlationID); derr != nil {
		return derr
	}
	return err
}

func (s *revealService) Topics(ctx context.Context) ([]string, error) {
	return s.client.Topics(ctx)
}

func (s *revealService) Events(ctx context.Context, after int64, limit int32) ([]*api.Event, error) {
	return s.client.Events(ctx, after, limit)
}

func (s *revealService) Requests(ctx context.Context) ([]*models.Request, error) {
	return s.requests.List(ctx)
}

func (s *revealService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *revealService) Close(ctx context.Context) error {
	return s.client.Close()
}
