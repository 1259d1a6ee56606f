package models

import "time"

// TargetKind says what a pending decryption request will complete.
type TargetKind string

const (
	TargetRecord TargetKind = "record"
	TargetTopic  TargetKind = "topic"
)

// PendingRequest maps an oracle correlation id to the target awaiting its
// callback. RecordID is set for TargetRecord, TopicHash for TargetTopic.
type PendingRequest struct {
	CorrelationID string
	Kind          TargetKind
	RecordID      int64
	TopicHash     []byte
	CreatedAt     time.Time
	// ExpiresAt is zero when the request never expires.
	ExpiresAt time.Time
}

// Expired reports whether the request has a deadline at or before now.
func (p *PendingRequest) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !p.ExpiresAt.After(now)
}
