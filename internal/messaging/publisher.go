// Package messaging wraps watermill with typed publish functions and
// generic JSON consumers, so producers and handlers never touch raw
// message payloads.
package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publish sends one typed event to a fixed topic.
type Publish[T any] func(event *T) error

// NewPublishFunc binds an event type to a topic. The returned function
// marshals the event as JSON and publishes it under a fresh UUID.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			publishedTotal.WithLabelValues(topic, "error").Inc()

			return fmt.Errorf("marshal event for %s: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)

		if err := publisher.Publish(topic, msg); err != nil {
			publishedTotal.WithLabelValues(topic, "error").Inc()

			return fmt.Errorf("publish to %s: %w", topic, err)
		}

		publishedTotal.WithLabelValues(topic, "ok").Inc()

		return nil
	}
}

// PublisherGroup owns the lifecycle of the underlying publisher shared by
// every typed publish function.
type PublisherGroup struct {
	publisher message.Publisher
}

// NewPublisherGroup creates a new publisher group.
func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher returns the underlying message publisher for creating typed
// publish functions.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the underlying publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
