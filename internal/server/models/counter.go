package models

import "github.com/dmitrijs2005/gophreveal/internal/server/fhe"

// TopicCounter is the encrypted number of revealed records carrying Topic.
// A counter exists only for topics in the registry.
type TopicCounter struct {
	Topic       string
	Count       fhe.Handle
	Initialized bool
}
