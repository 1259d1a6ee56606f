package models

import "time"

// Event kinds written to the outbox.
const (
	EventRecordSubmitted                 = "record_submitted"
	EventDecryptionRequested             = "decryption_requested"
	EventRecordRevealed                  = "record_revealed"
	EventTopicCounterDecryptionRequested = "topic_counter_decryption_requested"
	EventTopicCountDecrypted             = "topic_count_decrypted"
	EventCountersReset                   = "counters_reset"
	EventRequestCancelled                = "decryption_request_cancelled"
	EventRequestExpired                  = "decryption_request_expired"
)

// Event is an observable state change. Seq is assigned on append and is
// strictly increasing. Unused fields stay zero.
type Event struct {
	Seq           int64     `json:"seq"`
	Kind          string    `json:"kind"`
	RecordID      int64     `json:"record_id,omitempty"`
	Topic         string    `json:"topic,omitempty"`
	Count         uint64    `json:"count,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
