// Package oracle talks to the asynchronous decryption oracle: it publishes
// decryption requests and verifies the proofs carried by the callbacks.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
)

// Requester publishes a decryption request for the given ciphertexts. The
// oracle later invokes the named callback with the same correlation id.
// RequestDecryption must not wait for the decryption itself.
type Requester interface {
	RequestDecryption(ctx context.Context, handles []fhe.Handle, callback string) (string, error)
}

// Verifier checks that payload is the authentic decryption for cid.
// Failures wrap common.ErrVerificationFailed.
type Verifier interface {
	Verify(ctx context.Context, cid string, payload, proof []byte) error
}

// RecordPayload is the decrypted form of a record's three ciphertexts.
type RecordPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Topic string `json:"topic"`
}

type recordWire struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
	Topic *string `json:"topic"`
}

type countWire struct {
	Count *uint64 `json:"count"`
}

// DecodeRecordPayload parses {"title","body","topic"}. All three keys are
// required.
func DecodeRecordPayload(b []byte) (*RecordPayload, error) {
	var w recordWire
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorMalformedPayload, err)
	}
	if w.Title == nil || w.Body == nil || w.Topic == nil {
		return nil, fmt.Errorf("%w: title, body and topic are required", common.ErrorMalformedPayload)
	}
	return &RecordPayload{Title: *w.Title, Body: *w.Body, Topic: *w.Topic}, nil
}

// EncodeRecordPayload is the inverse of DecodeRecordPayload.
func EncodeRecordPayload(p RecordPayload) []byte {
	b, _ := json.Marshal(p)
	return b
}

// DecodeCount parses {"count": n} where n is an unsigned 64-bit integer.
func DecodeCount(b []byte) (uint64, error) {
	var w countWire
	if err := json.Unmarshal(b, &w); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrorMalformedPayload, err)
	}
	if w.Count == nil {
		return 0, fmt.Errorf("%w: count is required", common.ErrorMalformedPayload)
	}
	return *w.Count, nil
}

// EncodeCount is the inverse of DecodeCount.
func EncodeCount(n uint64) []byte {
	b, _ := json.Marshal(countWire{Count: &n})
	return b
}
