package kafka

import (
	"context"

	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// MessagePublisher is the outbound surface the event publisher needs.
// *Producer satisfies it.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *common.ProducerMessage) error
}

// EventPublisher maps domain events onto bus topics.  It implements the
// application layer's publisher port.
type EventPublisher struct {
	producer MessagePublisher
	source   string
	topics   map[string]string
}

// NewEventPublisher builds a publisher that routes events by type.  Events
// with no route are published to the analysis.completed topic's sibling
// matching their type name.
func NewEventPublisher(producer MessagePublisher, source string) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		source:   source,
		topics: map[string]string{
			"document.ingested":  TopicDocumentIngested,
			"analysis.requested": TopicAnalysisRequested,
			"analysis.completed": TopicAnalysisCompleted,
		},
	}
}

// Publish wraps the domain event in an envelope and sends it to the topic
// registered for its type.  The event type doubles as the topic name when no
// explicit route exists.
func (p *EventPublisher) Publish(ctx context.Context, event common.DomainEvent) error {
	env := &EventEnvelope{
		EventID:       event.EventID.String(),
		EventType:     event.EventType,
		Source:        p.source,
		Timestamp:     event.OccurredAt,
		SchemaVersion: "v1",
		Payload:       event.Payload,
	}

	topic, ok := p.topics[event.EventType]
	if !ok {
		topic = event.EventType
	}

	msg, err := env.ToMessage(topic)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}
