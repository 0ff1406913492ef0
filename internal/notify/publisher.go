package notify

import (
	"context"
	"errors"
	"fmt"
)

// Publisher delivers events to subscribers of a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

// Fanout forwards every event to all wrapped publishers.
type Fanout []Publisher

// Publish implements Publisher. A failing backend does not stop the others.
func (f Fanout) Publish(ctx context.Context, topic string, event Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, topic, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }

// PublishAll sends event to every topic and reports all failures together.
func PublishAll(ctx context.Context, p Publisher, event Event, topics ...string) error {
	var errs []error
	for _, topic := range topics {
		if err := p.Publish(ctx, topic, event); err != nil {
			errs = append(errs, fmt.Errorf("publish %s to %s: %w", event.Name, topic, err))
		}
	}
	return errors.Join(errs...)
}
