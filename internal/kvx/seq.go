package kvx

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Key joins a prefix and a suffix into a new key.
func Key(prefix string, suffix []byte) []byte {
	k := make([]byte, 0, len(prefix)+len(suffix))
	k = append(k, prefix...)
	return append(k, suffix...)
}

// ID encodes id as 8 big-endian bytes, so keys sort numerically.
func ID(id int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// NextSeq increments the counter stored under key and returns the new value.
// The first call on a fresh key returns 1.
func NextSeq(kv KV, key []byte) (int64, error) {
	var cur int64
	v, err := kv.Get(key)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return 0, err
	case len(v) != 8:
		return 0, fmt.Errorf("kv: corrupt sequence %q", key)
	default:
		cur = int64(binary.BigEndian.Uint64(v))
	}
	cur++
	if err := kv.Set(key, ID(cur)); err != nil {
		return 0, err
	}
	return cur, nil
}

// GetJSON decodes the JSON value stored under key into dst.
func GetJSON(kv KV, key []byte, dst any) error {
	v, err := kv.Get(key)
	if err != nil {
		return err
	}
	if err := Decode(v, dst); err != nil {
		return fmt.Errorf("kv: decode %q: %w", key, err)
	}
	return nil
}

// Decode decodes a JSON value read from a scan.
func Decode(value []byte, dst any) error {
	return json.Unmarshal(value, dst)
}

// SetJSON stores the JSON encoding of v under key.
func SetJSON(kv KV, key []byte, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(key, b)
}
