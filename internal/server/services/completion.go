package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"github.com/dmitrijs2005/gophreveal/internal/server/oracle"
	"github.com/dmitrijs2005/gophreveal/internal/server/repositories/repomanager"
)

// completion describes the second phase of a decryption request: the
// oracle callback that applies its effect exactly once.
type completion struct {
	kind    models.TargetKind
	unknown string
	// check runs before the proof is verified.
	check func(ctx context.Context, repos repomanager.Repositories, p *models.PendingRequest) error
	// apply decodes the verified payload and applies its effect.
	apply func(ctx context.Context, repos repomanager.Repositories, p *models.PendingRequest, payload []byte, emit emitter) error
}

// complete consumes the pending request cid. Either the effect is applied
// and the request deleted, or nothing changes.
func (s *RevealService) complete(ctx context.Context, c completion, cid string, payload, proof []byte) error {
	return s.do(ctx, func(ctx context.Context, repos repomanager.Repositories, emit emitter) error {
		p, err := repos.Pending().Get(ctx, cid)
		if errors.Is(err, common.ErrorNotFound) || (err == nil && p.Kind != c.kind) {
			return fmt.Errorf("%w: %s %q", common.ErrorNotFound, c.unknown, cid)
		}
		if err != nil {
			return err
		}
		if p.Expired(s.now()) {
			return fmt.Errorf("%w: %q", common.ErrRequestExpired, cid)
		}

		if c.check != nil {
			if err := c.check(ctx, repos, p); err != nil {
				return err
			}
		}

		if err := s.verifier.Verify(ctx, cid, payload, proof); err != nil {
			if !errors.Is(err, common.ErrVerificationFailed) {
				err = fmt.Errorf("%w: %v", common.ErrVerificationFailed, err)
			}
			return err
		}

		if err := c.apply(ctx, repos, p, payload, emit); err != nil {
			return err
		}
		return repos.Pending().Delete(ctx, cid)
	})
}

// OnRecordDecrypted reveals the record bound to cid and folds its topic
// into the topic counters.
func (s *RevealService) OnRecordDecrypted(ctx context.Context, cid string, payload, proof []byte) error {
	var id int64
	err := s.complete(ctx, completion{
		kind:    models.TargetRecord,
		unknown: "bad request id",
		check: func(ctx context.Context, repos repomanager.Repositories, p *models.PendingRequest) error {
			return checkNotRevealed(ctx, repos, p.RecordID, true)
		},
		apply: func(ctx context.Context, repos repomanager.Repositories, p *models.PendingRequest, payload []byte, emit emitter) error {
			rp, err := oracle.DecodeRecordPayload(payload)
			if err != nil {
				return err
			}
			id = p.RecordID
			if err := repos.Records().MarkRevealed(ctx, &models.RevealedRecord{
				ID: p.RecordID, Title: rp.Title, Body: rp.Body, Topic: rp.Topic,
			}); err != nil {
				return err
			}
			if err := s.foldTopic(ctx, repos, rp.Topic); err != nil {
				return err
			}
			return emit(&models.Event{Kind: models.EventRecordRevealed, RecordID: p.RecordID, CorrelationID: cid})
		},
	}, cid, payload, proof)
	if err != nil {
		s.logger.Warn(ctx, "record callback rejected", "correlation_id", cid, "error", err)
		return err
	}

	s.logger.Info(ctx, "record revealed", "record_id", id, "correlation_id", cid)
	return nil
}

// foldTopic adds one to the encrypted counter of topic, creating it at
// zero and registering the topic on first sight.
func (s *RevealService) foldTopic(ctx context.Context, repos repomanager.Repositories, topic string) error {
	c, err := repos.Counters().Get(ctx, topic)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		zero, err := s.arith.EncryptConstant(0)
		if err != nil {
			return fmt.Errorf("encrypt zero: %w", err)
		}
		c = &models.TopicCounter{Topic: topic, Count: zero}
	case err != nil:
		return err
	}

	one, err := s.arith.EncryptConstant(1)
	if err != nil {
		return fmt.Errorf("encrypt one: %w", err)
	}
	sum, err := s.arith.Add(c.Count, one)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	c.Count = sum
	return repos.Counters().Put(ctx, c)
}

// OnTopicCountDecrypted reports the decrypted counter bound to cid. The
// counter itself is left untouched.
func (s *RevealService) OnTopicCountDecrypted(ctx context.Context, cid string, payload, proof []byte) error {
	var (
		topic string
		count uint64
	)
	err := s.complete(ctx, completion{
		kind:    models.TargetTopic,
		unknown: "unknown topic request",
		apply: func(ctx context.Context, repos repomanager.Repositories, p *models.PendingRequest, payload []byte, emit emitter) error {
			var err error
			if count, err = oracle.DecodeCount(payload); err != nil {
				return err
			}
			topic, err = repos.Counters().TopicByHash(ctx, p.TopicHash)
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: topic not found", common.ErrorNotFound)
			}
			if err != nil {
				return err
			}
			return emit(&models.Event{Kind: models.EventTopicCountDecrypted, Topic: topic, Count: count, CorrelationID: cid})
		},
	}, cid, payload, proof)
	if err != nil {
		s.logger.Warn(ctx, "topic count callback rejected", "correlation_id", cid, "error", err)
		return err
	}

	s.logger.Info(ctx, "topic count decrypted", "topic", topic, "correlation_id", cid)
	return nil
}
