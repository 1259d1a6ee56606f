// Package services implements the reveal core: record submission,
// decryption requests, oracle callbacks and topic counters.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/logging"
	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"github.com/dmitrijs2005/gophreveal/internal/server/oracle"
	"github.com/dmitrijs2005/gophreveal/internal/server/policy"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreveal/internal/server/topics"
)

// Publisher receives events once the unit of work that wrote them has
// committed.
type Publisher interface {
	Publish(ctx context.Context, events ...*models.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...*models.Event) {}

// RevealService owns every state transition of records, pending requests
// and topic counters. Each public method is one unit of work.
type RevealService struct {
	uow       repomanager.UnitOfWork
	arith     fhe.Arithmetic
	requester oracle.Requester
	verifier  oracle.Verifier
	policy    policy.Policy
	publisher Publisher
	logger    logging.Logger
	ttl       time.Duration
	now       func() time.Time
}

type Option func(*RevealService)

// WithPolicy replaces the default policy.DenyAll.
func WithPolicy(p policy.Policy) Option {
	return func(s *RevealService) { s.policy = p }
}

func WithPublisher(p Publisher) Option {
	return func(s *RevealService) { s.publisher = p }
}

func WithLogger(l logging.Logger) Option {
	return func(s *RevealService) { s.logger = l }
}

// WithRequestTTL bounds how long a decryption request can be completed.
// Zero keeps requests valid until completed or cancelled.
func WithRequestTTL(d time.Duration) Option {
	return func(s *RevealService) { s.ttl = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *RevealService) { s.now = now }
}

func NewRevealService(uow repomanager.UnitOfWork, arith fhe.Arithmetic, requester oracle.Requester, verifier oracle.Verifier, opts ...Option) *RevealService {
	s := &RevealService{
		uow:       uow,
		arith:     arith,
		requester: requester,
		verifier:  verifier,
		policy:    policy.DenyAll{},
		publisher: nopPublisher{},
		logger:    logging.Nop{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("module", "reveal")
	return s
}

// emitter appends events to the outbox of the current unit of work.
type emitter func(e *models.Event) error

// do runs fn as one unit of work and publishes the events it emitted
// after commit.
func (s *RevealService) do(ctx context.Context, fn func(ctx context.Context, repos repomanager.Repositories, emit emitter) error) error {
	var emitted []*models.Event

	err := s.uow.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		emit := func(e *models.Event) error {
			e.CreatedAt = s.now().UTC()
			if err := repos.Events().Append(ctx, e); err != nil {
				return err
			}
			emitted = append(emitted, e)
			return nil
		}
		return fn(ctx, repos, emit)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, emitted...)
	return nil
}

func (s *RevealService) view(ctx context.Context, fn func(ctx context.Context, repos repomanager.Repositories) error) error {
	return s.uow.View(ctx, fn)
}

// Submit stores a new encrypted record and returns its id.
func (s *RevealService) Submit(ctx context.Context, title, body, topic fhe.Handle) (int64, error) {
	var id int64
	err := s.do(ctx, func(ctx context.Context, repos repomanager.Repositories, emit emitter) error {
		rec := &models.Record{Title: title, Body: body, Topic: topic}
		var err error
		if id, err = repos.Records().Create(ctx, rec); err != nil {
			return err
		}
		return emit(&models.Event{Kind: models.EventRecordSubmitted, RecordID: id})
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug(ctx, "record submitted", "record_id", id)
	return id, nil
}

func (s *RevealService) GetMetadata(ctx context.Context, id int64) (*models.Record, error) {
	var rec *models.Record
	err := s.view(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		rec, err = repos.Records().Get(ctx, id)
		return err
	})
	return rec, err
}

// GetRevealed returns the plaintext of a record; fields are empty and
// Revealed is false until the record has been revealed.
func (s *RevealService) GetRevealed(ctx context.Context, id int64) (*models.RevealedRecord, error) {
	var rr *models.RevealedRecord
	err := s.view(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		rr, err = repos.Records().GetRevealed(ctx, id)
		return err
	})
	return rr, err
}

// GetEncryptedCounter returns the counter handle for topic, or
// fhe.Uninitialized if the topic has none.
func (s *RevealService) GetEncryptedCounter(ctx context.Context, topic string) (fhe.Handle, error) {
	h := fhe.Uninitialized
	err := s.view(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		c, err := repos.Counters().Get(ctx, topic)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil
		case err != nil:
			return err
		}
		h = c.Count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Topics lists the registered topics in registration order.
func (s *RevealService) Topics(ctx context.Context) ([]string, error) {
	var list []string
	err := s.view(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		list, err = repos.Counters().Topics(ctx)
		return err
	})
	return list, err
}

// Events returns up to limit outbox entries after seq.
func (s *RevealService) Events(ctx context.Context, after int64, limit int) ([]*models.Event, error) {
	var list []*models.Event
	err := s.view(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		list, err = repos.Events().List(ctx, after, limit)
		return err
	})
	return list, err
}

// RequestRecordDecryption asks the oracle to decrypt record id and returns
// the correlation id the callback will carry.
//
// The oracle is called between two units of work so that the store is not
// held while the request is published; the second one re-checks the
// record before recording the pending request.
func (s *RevealService) RequestRecordDecryption(ctx context.Context, caller string, id int64) (string, error) {
	if !s.policy.CanRequestReveal(caller, id) {
		return "", common.ErrorUnauthorized
	}

	var rec *models.Record
	err := s.view(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		if rec, err = repos.Records().Get(ctx, id); err != nil {
			return err
		}
		return checkNotRevealed(ctx, repos, id, false)
	})
	if err != nil {
		return "", err
	}

	cid, err := s.requester.RequestDecryption(ctx, []fhe.Handle{rec.Title, rec.Body, rec.Topic}, common.CallbackRecord)
	if err != nil {
		return "", fmt.Errorf("request decryption: %w", err)
	}

	err = s.do(ctx, func(ctx context.Context, repos repomanager.Repositories, emit emitter) error {
		if err := checkNotRevealed(ctx, repos, id, true); err != nil {
			return err
		}
		if err := repos.Pending().Create(ctx, s.pending(cid, models.TargetRecord, id, nil)); err != nil {
			return err
		}
		return emit(&models.Event{Kind: models.EventDecryptionRequested, RecordID: id, CorrelationID: cid})
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "record decryption requested", "record_id", id, "correlation_id", cid, "caller", caller)
	return cid, nil
}

// RequestTopicCounterDecryption asks the oracle to decrypt the counter of
// an initialized topic.
func (s *RevealService) RequestTopicCounterDecryption(ctx context.Context, caller, topic string) (string, error) {
	if !s.policy.CanRequestTopicCount(caller) {
		return "", common.ErrorUnauthorized
	}

	var counter *models.TopicCounter
	err := s.view(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		var err error
		counter, err = repos.Counters().Get(ctx, topic)
		return err
	})
	if err != nil {
		return "", err
	}
	if !s.arith.IsInitialized(counter.Count) {
		return "", common.ErrorNotFound
	}

	cid, err := s.requester.RequestDecryption(ctx, []fhe.Handle{counter.Count}, common.CallbackTopicCount)
	if err != nil {
		return "", fmt.Errorf("request decryption: %w", err)
	}

	err = s.do(ctx, func(ctx context.Context, repos repomanager.Repositories, emit emitter) error {
		// a reset may have run while the oracle was called
		if _, err := repos.Counters().Get(ctx, topic); err != nil {
			return err
		}
		if err := repos.Pending().Create(ctx, s.pending(cid, models.TargetTopic, 0, topics.Hash(topic))); err != nil {
			return err
		}
		return emit(&models.Event{Kind: models.EventTopicCounterDecryptionRequested, Topic: topic, CorrelationID: cid})
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "topic counter decryption requested", "topic", topic, "correlation_id", cid, "caller", caller)
	return cid, nil
}

func (s *RevealService) pending(cid string, kind models.TargetKind, id int64, hash []byte) *models.PendingRequest {
	now := s.now().UTC()
	p := &models.PendingRequest{
		CorrelationID: cid,
		Kind:          kind,
		RecordID:      id,
		TopicHash:     hash,
		CreatedAt:     now,
	}
	if s.ttl > 0 {
		p.ExpiresAt = now.Add(s.ttl)
	}
	return p
}

// checkNotRevealed fails with common.ErrAlreadyProcessed for revealed
// records. lock must be false inside read-only units of work.
func checkNotRevealed(ctx context.Context, repos repomanager.Repositories, id int64, lock bool) error {
	get := repos.Records().GetRevealed
	if lock {
		get = repos.Records().GetRevealedForUpdate
	}
	rr, err := get(ctx, id)
	if err != nil {
		return err
	}
	if rr.Revealed {
		return common.ErrAlreadyProcessed
	}
	return nil
}

// ResetAllCounters deletes every topic counter and empties the registry.
// Records are not touched.
func (s *RevealService) ResetAllCounters(ctx context.Context, caller string) error {
	if !s.policy.CanReset(caller) {
		return common.ErrorUnauthorized
	}

	var n int
	err := s.do(ctx, func(ctx context.Context, repos repomanager.Repositories, emit emitter) error {
		var err error
		if n, err = repos.Counters().Reset(ctx); err != nil {
			return err
		}
		return emit(&models.Event{Kind: models.EventCountersReset})
	})
	if err != nil {
		return err
	}

	s.logger.Warn(ctx, "topic counters reset", "counters", n, "caller", caller)
	return nil
}

// CancelPendingRequest withdraws an outstanding decryption request; a
// later callback for it fails with common.ErrorNotFound.
func (s *RevealService) CancelPendingRequest(ctx context.Context, caller, cid string) error {
	if !s.policy.CanReset(caller) {
		return common.ErrorUnauthorized
	}

	err := s.do(ctx, func(ctx context.Context, repos repomanager.Repositories, emit emitter) error {
		p, err := repos.Pending().Get(ctx, cid)
		if err != nil {
			return err
		}
		if err := repos.Pending().Delete(ctx, cid); err != nil {
			return err
		}
		return emit(&models.Event{Kind: models.EventRequestCancelled, RecordID: p.RecordID, CorrelationID: cid})
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "decryption request cancelled", "correlation_id", cid, "caller", caller)
	return nil
}

// ExpirePendingRequests deletes every request whose deadline is at or
// before now and returns how many were removed.
func (s *RevealService) ExpirePendingRequests(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := s.do(ctx, func(ctx context.Context, repos repomanager.Repositories, emit emitter) error {
		expired, err := repos.Pending().Expired(ctx, now)
		if err != nil {
			return err
		}
		for _, p := range expired {
			if err := repos.Pending().Delete(ctx, p.CorrelationID); err != nil {
				return err
			}
			if err := emit(&models.Event{Kind: models.EventRequestExpired, RecordID: p.RecordID, CorrelationID: p.CorrelationID}); err != nil {
				return err
			}
		}
		n = len(expired)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info(ctx, "pending requests expired", "count", n)
	}
	return n, nil
}
