// Package models holds the client-side data types.
package models

import "time"

// RequestKind tells what a journaled decryption request targets.
type RequestKind string

const (
	RequestRecord RequestKind = "record"
	RequestTopic  RequestKind = "topic"
)

// Request is a decryption request this client issued. Target is the record
// id or the topic name.
type Request struct {
	CorrelationID string
	Kind          RequestKind
	Target        string
	RequestedAt   time.Time
}
