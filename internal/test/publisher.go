package test

import (
	"context"
	"sync"

	"github.com/Jayasakthi-07/foodie/internal/notify"
)

// Published is a single recorded notification.
type Published struct {
	Topic string
	Event notify.Event
}

// PublisherStub records every published event.
type PublisherStub struct {
	mu        sync.Mutex
	published []Published

	Err       error
	PublishFn func(context.Context, string, notify.Event) error
}

// Publish implements notify.Publisher.
func (p *PublisherStub) Publish(ctx context.Context, topic string, event notify.Event) error {
	p.mu.Lock()
	p.published = append(p.published, Published{Topic: topic, Event: event})
	p.mu.Unlock()

	if p.PublishFn != nil {
		return p.PublishFn(ctx, topic, event)
	}
	return p.Err
}

// All returns a snapshot of recorded notifications.
func (p *PublisherStub) All() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Published, len(p.published))
	copy(out, p.published)
	return out
}

// ForTopic returns notifications sent to topic.
func (p *PublisherStub) ForTopic(topic string) []Published {
	var out []Published
	for _, item := range p.All() {
		if item.Topic == topic {
			out = append(out, item)
		}
	}
	return out
}

// Reset clears recorded notifications.
func (p *PublisherStub) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = nil
}

var _ notify.Publisher = (*PublisherStub)(nil)
