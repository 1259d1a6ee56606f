package counters

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/kvx"
	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
	"github.com/dmitrijs2005/gophreveal/internal/server/topics"
)

// Key layout:
//
//	counter/<topic>       -> counterValue
//	topichash/<hash>      -> topic
//	registry/<position>   -> topic
const (
	seqKey         = "seq/registry"
	counterPrefix  = "counter/"
	hashPrefix     = "topichash/"
	registryPrefix = "registry/"
)

type counterValue struct {
	Count    fhe.Handle `json:"count"`
	Position int64      `json:"position"`
}

// PebbleRepository implements counter storage over a kvx.KV.
type PebbleRepository struct {
	kv kvx.KV
}

// NewPebbleRepository constructs a repository bound to the given KV.
func NewPebbleRepository(kv kvx.KV) *PebbleRepository {
	return &PebbleRepository{kv: kv}
}

func (r *PebbleRepository) Get(ctx context.Context, topic string) (*models.TopicCounter, error) {
	v, err := r.get(topic)
	if err != nil {
		return nil, err
	}
	return &models.TopicCounter{Topic: topic, Count: v.Count, Initialized: true}, nil
}

func (r *PebbleRepository) get(topic string) (*counterValue, error) {
	var v counterValue
	if err := kvx.GetJSON(r.kv, kvx.Key(counterPrefix, []byte(topic)), &v); err != nil {
		if errors.Is(err, kvx.ErrNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *PebbleRepository) Put(ctx context.Context, c *models.TopicCounter) error {
	v, err := r.get(c.Topic)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		pos, err := kvx.NextSeq(r.kv, []byte(seqKey))
		if err != nil {
			return err
		}
		v = &counterValue{Position: pos}
		if err := r.kv.Set(kvx.Key(registryPrefix, kvx.ID(pos)), []byte(c.Topic)); err != nil {
			return err
		}
		if err := r.kv.Set(kvx.Key(hashPrefix, topics.Hash(c.Topic)), []byte(c.Topic)); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	v.Count = c.Count
	if err := kvx.SetJSON(r.kv, kvx.Key(counterPrefix, []byte(c.Topic)), v); err != nil {
		return err
	}
	c.Initialized = true
	return nil
}

func (r *PebbleRepository) Topics(ctx context.Context) ([]string, error) {
	var result []string
	err := r.kv.Scan([]byte(registryPrefix), func(_, value []byte) error {
		result = append(result, string(value))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PebbleRepository) TopicByHash(ctx context.Context, hash []byte) (string, error) {
	v, err := r.kv.Get(kvx.Key(hashPrefix, hash))
	if err != nil {
		if errors.Is(err, kvx.ErrNotFound) {
			return "", common.ErrorNotFound
		}
		return "", err
	}
	return string(v), nil
}

// Reset collects the keys first and deletes them after the scans finish.
func (r *PebbleRepository) Reset(ctx context.Context) (int, error) {
	var keys [][]byte
	n := 0
	for _, prefix := range []string{counterPrefix, hashPrefix, registryPrefix} {
		err := r.kv.Scan([]byte(prefix), func(key, _ []byte) error {
			keys = append(keys, key)
			if prefix == counterPrefix {
				n++
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	for _, k := range keys {
		if err := r.kv.Delete(k); err != nil {
			return 0, err
		}
	}
	return n, nil
}
