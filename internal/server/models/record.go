// Package models defines the server-side data models persisted by the
// repositories.
package models

import (
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
)

// Record is a submitted confidential record. It is immutable after creation.
type Record struct {
	ID        int64
	Title     fhe.Handle
	Body      fhe.Handle
	Topic     fhe.Handle
	CreatedAt time.Time
}

// RevealedRecord holds the plaintext of a record once its decryption has
// been verified. It exists from submission on with empty fields and
// Revealed=false, and flips to true at most once.
type RevealedRecord struct {
	ID       int64
	Title    string
	Body     string
	Topic    string
	Revealed bool
}
