// Package topics derives the fixed-size topic identifiers used to refer to
// a topic counter without naming the topic.
package topics

import "golang.org/x/crypto/sha3"

// HashSize is the length of a topic hash in bytes.
const HashSize = 32

// Hash returns the Keccak-256 digest of the UTF-8 topic label.
func Hash(topic string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(topic))
	return h.Sum(nil)
}
