package records

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/kvx"
	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

const (
	seqKey         = "seq/records"
	recordPrefix   = "record/"
	revealedPrefix = "revealed/"
)

type recordValue struct {
	Title     fhe.Handle `json:"title"`
	Body      fhe.Handle `json:"body"`
	Topic     fhe.Handle `json:"topic"`
	CreatedAt time.Time  `json:"created_at"`
}

type revealedValue struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Topic    string `json:"topic"`
	Revealed bool   `json:"revealed"`
}

// PebbleRepository implements record storage over a kvx.KV.
type PebbleRepository struct {
	kv  kvx.KV
	now func() time.Time
}

// NewPebbleRepository constructs a repository bound to the given KV.
func NewPebbleRepository(kv kvx.KV) *PebbleRepository {
	return &PebbleRepository{kv: kv, now: time.Now}
}

func (r *PebbleRepository) Create(ctx context.Context, rec *models.Record) (int64, error) {
	id, err := kvx.NextSeq(r.kv, []byte(seqKey))
	if err != nil {
		return 0, err
	}
	rec.ID = id
	rec.CreatedAt = r.now().UTC()

	if err := kvx.SetJSON(r.kv, kvx.Key(recordPrefix, kvx.ID(id)), recordValue{
		Title: rec.Title, Body: rec.Body, Topic: rec.Topic, CreatedAt: rec.CreatedAt,
	}); err != nil {
		return 0, err
	}
	if err := kvx.SetJSON(r.kv, kvx.Key(revealedPrefix, kvx.ID(id)), revealedValue{}); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PebbleRepository) Get(ctx context.Context, id int64) (*models.Record, error) {
	var v recordValue
	if err := kvx.GetJSON(r.kv, kvx.Key(recordPrefix, kvx.ID(id)), &v); err != nil {
		return nil, mapErr(err)
	}
	return &models.Record{ID: id, Title: v.Title, Body: v.Body, Topic: v.Topic, CreatedAt: v.CreatedAt}, nil
}

func (r *PebbleRepository) GetRevealed(ctx context.Context, id int64) (*models.RevealedRecord, error) {
	var v revealedValue
	if err := kvx.GetJSON(r.kv, kvx.Key(revealedPrefix, kvx.ID(id)), &v); err != nil {
		return nil, mapErr(err)
	}
	return &models.RevealedRecord{ID: id, Title: v.Title, Body: v.Body, Topic: v.Topic, Revealed: v.Revealed}, nil
}

// GetRevealedForUpdate is GetRevealed; units of work on a kvx.Store are
// already serialised.
func (r *PebbleRepository) GetRevealedForUpdate(ctx context.Context, id int64) (*models.RevealedRecord, error) {
	return r.GetRevealed(ctx, id)
}

func (r *PebbleRepository) MarkRevealed(ctx context.Context, rr *models.RevealedRecord) error {
	cur, err := r.GetRevealed(ctx, rr.ID)
	if err != nil {
		return err
	}
	if cur.Revealed {
		return common.ErrAlreadyProcessed
	}
	if err := kvx.SetJSON(r.kv, kvx.Key(revealedPrefix, kvx.ID(rr.ID)), revealedValue{
		Title: rr.Title, Body: rr.Body, Topic: rr.Topic, Revealed: true,
	}); err != nil {
		return err
	}
	rr.Revealed = true
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, kvx.ErrNotFound) {
		return common.ErrorNotFound
	}
	return err
}
