package kafka

import (
	"encoding/json"
	"time"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

// Topics для Kafka
const (
	TopicMemberEvents    = "shop.member.events"
	TopicCartEvents      = "shop.cart.events"
	TopicOrderEvents     = "shop.order.events"
	TopicDeadLetterQueue = "shop.dlq"
)

// Kafka headers, которые выставляются на каждом сообщении outbox.
const (
	HeaderEventType     = "x-event-type"
	HeaderAggregateType = "x-aggregate-type"
	HeaderOutboxID      = "x-outbox-id"
)

// Envelope - формат сообщения, в котором событие outbox уходит в Kafka.
type Envelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}

// NewEnvelope оборачивает сообщение outbox.
func NewEnvelope(msg domain.OutboxMessage, publishedAt time.Time) Envelope {
	payload := json.RawMessage(msg.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return Envelope{
		ID:            msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       payload,
		PublishedAt:   publishedAt.UTC(),
	}
}

// TopicForAggregate выбирает topic по типу агрегата; неизвестные типы уходят в fallback.
func TopicForAggregate(aggregateType, fallback string) string {
	switch aggregateType {
	case domain.AggregateMember:
		return TopicMemberEvents
	case domain.AggregateCart:
		return TopicCartEvents
	case domain.AggregateOrder:
		return TopicOrderEvents
	}
	if fallback == "" {
		return TopicOrderEvents
	}
	return fallback
}
