// Package common contains shared constants and sentinel errors used across
// gophreveal components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Callback names passed to the decryption oracle. The oracle echoes them
// back so the completion lands on the matching handler.
const (
	CallbackRecord     = "record"
	CallbackTopicCount = "topic_count"
)
