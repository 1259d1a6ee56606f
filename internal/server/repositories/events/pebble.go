package events

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophreveal/internal/kvx"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

const (
	seqKey      = "seq/events"
	eventPrefix = "event/"
)

var errStop = errors.New("stop")

// PebbleRepository implements the outbox over a kvx.KV.
type PebbleRepository struct {
	kv kvx.KV
}

// NewPebbleRepository constructs a repository bound to the given KV.
func NewPebbleRepository(kv kvx.KV) *PebbleRepository {
	return &PebbleRepository{kv: kv}
}

func (r *PebbleRepository) Append(ctx context.Context, e *models.Event) error {
	seq, err := kvx.NextSeq(r.kv, []byte(seqKey))
	if err != nil {
		return err
	}
	e.Seq = seq
	return kvx.SetJSON(r.kv, kvx.Key(eventPrefix, kvx.ID(seq)), e)
}

func (r *PebbleRepository) List(ctx context.Context, after int64, limit int) ([]*models.Event, error) {
	var result []*models.Event
	if limit <= 0 {
		return result, nil
	}
	if after < 0 {
		after = 0
	}
	start := kvx.Key(eventPrefix, kvx.ID(after+1))
	err := r.kv.ScanFrom([]byte(eventPrefix), start, func(_, value []byte) error {
		var e models.Event
		if err := kvx.Decode(value, &e); err != nil {
			return err
		}
		result = append(result, &e)
		if len(result) == limit {
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	return result, nil
}
