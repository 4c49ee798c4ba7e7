package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/edufin/loansim/internal/domain/event"
	pkgkafka "github.com/edufin/loansim/pkg/kafka"
)

// EventPublisher implements port.EventPublisher by writing events to Kafka.
// Messages are keyed by aggregate ID so a loan's lifecycle stays ordered.
type EventPublisher struct {
	producer *pkgkafka.Producer
	logger   *slog.Logger
}

func NewEventPublisher(producer *pkgkafka.Producer, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, logger: logger}
}

// Publish serialises and sends domain events.
func (p *EventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"payload_size", len(payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type": evt.EventType(),
				"event_id":   evt.EventID(),
			},
		})
	}

	if err := p.producer.Publish(ctx, messages...); err != nil {
		return fmt.Errorf("publish domain events: %w", err)
	}
	return nil
}
