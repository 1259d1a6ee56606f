package pending

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/kvx"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

const pendingPrefix = "pending/"

type pendingValue struct {
	Kind      models.TargetKind `json:"kind"`
	RecordID  int64             `json:"record_id,omitempty"`
	TopicHash []byte            `json:"topic_hash,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// PebbleRepository implements pending request storage over a kvx.KV.
type PebbleRepository struct {
	kv kvx.KV
}

// NewPebbleRepository constructs a repository bound to the given KV.
func NewPebbleRepository(kv kvx.KV) *PebbleRepository {
	return &PebbleRepository{kv: kv}
}

func key(cid string) []byte {
	return kvx.Key(pendingPrefix, []byte(cid))
}

// Create fails with common.ErrDuplicateRequest if cid is already pending.
func (r *PebbleRepository) Create(ctx context.Context, p *models.PendingRequest) error {
	if _, err := r.kv.Get(key(p.CorrelationID)); err == nil {
		return fmt.Errorf("%w: %s", common.ErrDuplicateRequest, p.CorrelationID)
	} else if !errors.Is(err, kvx.ErrNotFound) {
		return err
	}
	return kvx.SetJSON(r.kv, key(p.CorrelationID), pendingValue{
		Kind:      p.Kind,
		RecordID:  p.RecordID,
		TopicHash: p.TopicHash,
		CreatedAt: p.CreatedAt,
		ExpiresAt: p.ExpiresAt,
	})
}

func (r *PebbleRepository) Get(ctx context.Context, cid string) (*models.PendingRequest, error) {
	var v pendingValue
	if err := kvx.GetJSON(r.kv, key(cid), &v); err != nil {
		if errors.Is(err, kvx.ErrNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return v.model(cid), nil
}

func (r *PebbleRepository) Delete(ctx context.Context, cid string) error {
	if _, err := r.kv.Get(key(cid)); err != nil {
		if errors.Is(err, kvx.ErrNotFound) {
			return common.ErrorNotFound
		}
		return err
	}
	return r.kv.Delete(key(cid))
}

// Expired scans every pending request; the set is expected to stay small.
func (r *PebbleRepository) Expired(ctx context.Context, now time.Time) ([]*models.PendingRequest, error) {
	var result []*models.PendingRequest
	err := r.kv.Scan([]byte(pendingPrefix), func(k, value []byte) error {
		var v pendingValue
		if err := kvx.Decode(value, &v); err != nil {
			return err
		}
		p := v.model(string(k[len(pendingPrefix):]))
		if p.Expired(now) {
			result = append(result, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ExpiresAt.Before(result[j].ExpiresAt)
	})
	return result, nil
}

func (v *pendingValue) model(cid string) *models.PendingRequest {
	return &models.PendingRequest{
		CorrelationID: cid,
		Kind:          v.Kind,
		RecordID:      v.RecordID,
		TopicHash:     v.TopicHash,
		CreatedAt:     v.CreatedAt,
		ExpiresAt:     v.ExpiresAt,
	}
}
