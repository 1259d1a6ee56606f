// Package common defines shared constants and sentinel errors used across
// client and server layers of gophreveal. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Reveal lifecycle errors.
	ErrAlreadyProcessed   = errors.New("already processed")
	ErrVerificationFailed = errors.New("proof verification failed")

	// ErrDuplicateRequest is returned when the oracle hands out a
	// correlation id that is still pending.
	ErrDuplicateRequest = errors.New("duplicate correlation id")

	// ErrRequestExpired is returned for a pending decryption request whose
	// deadline has passed. It wraps ErrorNotFound so callers treating the
	// request as unknown keep working.
	ErrRequestExpired = fmt.Errorf("request expired: %w", ErrorNotFound)

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Payload decoding errors.
	ErrorMalformedPayload = errors.New("malformed payload")
)
