package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

var errPublisherNotInitialized = errors.New("kafka outbox publisher is not initialized")

// OutboxTopicPublisher публикует outbox-сообщения в topic своего агрегата.
// Если задан fixedTopic, все сообщения идут в него (так работает DLQ-паблишер).
type OutboxTopicPublisher struct {
	producer      *Producer
	fallbackTopic string
	fixedTopic    string
	now           func() time.Time
}

// NewOutboxPublisher создаёт паблишер, раскладывающий события по topic агрегатов.
// fallbackTopic используется для неизвестных типов агрегатов.
func NewOutboxPublisher(producer *Producer, fallbackTopic string) *OutboxTopicPublisher {
	return &OutboxTopicPublisher{
		producer:      producer,
		fallbackTopic: fallbackTopic,
		now:           time.Now,
	}
}

// NewDLQPublisher создаёт паблишер, который пишет всё в один topic.
func NewDLQPublisher(producer *Producer, topic string) *OutboxTopicPublisher {
	if topic == "" {
		topic = TopicDeadLetterQueue
	}
	return &OutboxTopicPublisher{
		producer:   producer,
		fixedTopic: topic,
		now:        time.Now,
	}
}

// Topic возвращает topic, в который уйдёт сообщение.
func (p *OutboxTopicPublisher) Topic(event domain.OutboxMessage) string {
	if p.fixedTopic != "" {
		return p.fixedTopic
	}
	return TopicForAggregate(event.AggregateType, p.fallbackTopic)
}

func (p *OutboxTopicPublisher) Publish(ctx context.Context, event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return errPublisherNotInitialized
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	headers := map[string]string{
		HeaderEventType:     event.EventType,
		HeaderAggregateType: event.AggregateType,
		HeaderOutboxID:      event.ID,
	}
	return p.producer.Publish(ctx, p.Topic(event), key, NewEnvelope(event, p.now()), headers)
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
