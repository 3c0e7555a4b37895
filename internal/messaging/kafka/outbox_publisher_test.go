package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

func TestTopicForAggregate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		aggregate string
		fallback  string
		want      string
	}{
		{aggregate: domain.AggregateMember, want: TopicMemberEvents},
		{aggregate: domain.AggregateCart, want: TopicCartEvents},
		{aggregate: domain.AggregateOrder, fallback: "custom", want: TopicOrderEvents},
		{aggregate: "unknown", fallback: "custom", want: "custom"},
		{aggregate: "unknown", want: TopicOrderEvents},
	}
	for _, tc := range cases {
		if got := TopicForAggregate(tc.aggregate, tc.fallback); got != tc.want {
			t.Fatalf("TopicForAggregate(%q, %q) = %q, want %q", tc.aggregate, tc.fallback, got, tc.want)
		}
	}
}

func TestOutboxPublisher_PublishEnvelope(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	publishedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var envelope Envelope
		if err := json.Unmarshal(val, &envelope); err != nil {
			return err
		}
		if envelope.ID != "outbox-1" || envelope.EventType != domain.EventOrderPlaced {
			return fmt.Errorf("unexpected envelope: %+v", envelope)
		}
		if string(envelope.Payload) != `{"order_id":"order-123"}` {
			return fmt.Errorf("unexpected payload: %s", envelope.Payload)
		}
		if !envelope.PublishedAt.Equal(publishedAt) {
			return fmt.Errorf("unexpected published_at: %s", envelope.PublishedAt)
		}
		return nil
	})

	publisher := NewOutboxPublisher(newProducer(mockProducer), "")
	publisher.now = func() time.Time { return publishedAt }

	msg := domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: domain.AggregateOrder,
		AggregateID:   "order-123",
		EventType:     domain.EventOrderPlaced,
		Payload:       []byte(`{"order_id":"order-123"}`),
	}
	if got := publisher.Topic(msg); got != TopicOrderEvents {
		t.Fatalf("unexpected topic: %s", got)
	}
	if err := publisher.Publish(context.Background(), msg); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishProducerError(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewOutboxPublisher(newProducer(mockProducer), TopicOrderEvents)
	err := publisher.Publish(context.Background(), domain.OutboxMessage{
		ID:            "outbox-2",
		AggregateType: domain.AggregateMember,
		AggregateID:   "42",
		EventType:     domain.EventMemberJoined,
		Payload:       []byte(`{"member_id":42}`),
	})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("expected broker error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDLQPublisher_UsesFixedTopic(t *testing.T) {
	t.Parallel()

	publisher := NewDLQPublisher(nil, "")
	msg := domain.OutboxMessage{AggregateType: domain.AggregateCart}
	if got := publisher.Topic(msg); got != TopicDeadLetterQueue {
		t.Fatalf("expected DLQ topic, got %s", got)
	}
	if err := publisher.Publish(context.Background(), msg); !errors.Is(err, errPublisherNotInitialized) {
		t.Fatalf("expected not initialized error, got %v", err)
	}
}

func TestNewEnvelope_EmptyPayload(t *testing.T) {
	t.Parallel()

	envelope := NewEnvelope(domain.OutboxMessage{ID: "outbox-3"}, time.Now())
	if string(envelope.Payload) != "null" {
		t.Fatalf("expected null payload, got %s", envelope.Payload)
	}
}
