// Package notify fans committed events out to in-process subscribers.
package notify

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophreveal/internal/logging"
	"github.com/dmitrijs2005/gophreveal/internal/server/models"
)

// Subscriber receives events after the unit of work that produced them
// has committed.
type Subscriber interface {
	Notify(ctx context.Context, e *models.Event)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, e *models.Event)

func (f SubscriberFunc) Notify(ctx context.Context, e *models.Event) { f(ctx, e) }

// Notifier delivers events to every subscriber in publish order.
type Notifier struct {
	mu   sync.RWMutex
	subs []Subscriber
}

func NewNotifier(subs ...Subscriber) *Notifier {
	return &Notifier{subs: subs}
}

func (n *Notifier) Subscribe(s Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, s)
}

// Publish calls each subscriber synchronously for each event.
func (n *Notifier) Publish(ctx context.Context, events ...*models.Event) {
	n.mu.RLock()
	subs := n.subs
	n.mu.RUnlock()

	for _, e := range events {
		for _, s := range subs {
			s.Notify(ctx, e)
		}
	}
}

// LogSubscriber writes every event to the log.
type LogSubscriber struct {
	logger logging.Logger
}

func NewLogSubscriber(logger logging.Logger) *LogSubscriber {
	return &LogSubscriber{logger: logger.With("module", "events")}
}

func (s *LogSubscriber) Notify(ctx context.Context, e *models.Event) {
	args := []any{"seq", e.Seq, "kind", e.Kind}
	if e.RecordID != 0 {
		args = append(args, "record_id", e.RecordID)
	}
	if e.Topic != "" {
		args = append(args, "topic", e.Topic)
	}
	if e.Kind == models.EventTopicCountDecrypted {
		args = append(args, "count", e.Count)
	}
	if e.CorrelationID != "" {
		args = append(args, "correlation_id", e.CorrelationID)
	}
	s.logger.Info(ctx, "event", args...)
}
