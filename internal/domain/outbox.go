package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// Типы агрегатов и событий, которые сервисы кладут в outbox.
const (
	AggregateMember = "member"
	AggregateCart   = "cart"
	AggregateOrder  = "order"

	EventMemberJoined = "member.joined"
	EventCartCleared  = "cart.cleared"
	EventOrderPlaced  = "order.placed"
)

// MemberJoinedEvent публикуется после успешной регистрации.
type MemberJoinedEvent struct {
	MemberID int64     `json:"member_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// CartClearedEvent публикуется после полной очистки корзины.
type CartClearedEvent struct {
	MemberID  int64     `json:"member_id"`
	Removed   int       `json:"removed"`
	ClearedAt time.Time `json:"cleared_at"`
}

// OrderPlacedEvent публикуется после оформления заказа.
type OrderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	MemberID   int64     `json:"member_id"`
	TotalPrice int64     `json:"total_price"`
	ItemCount  int       `json:"item_count"`
	PlacedAt   time.Time `json:"placed_at"`
}

// NewOutboxMessage сериализует событие в сообщение outbox.
func NewOutboxMessage(aggregateType, aggregateID, eventType string, event any) (OutboxMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
	}, nil
}

// MemberAggregateID возвращает ключ агрегата участника для outbox.
func MemberAggregateID(memberID int64) string {
	return strconv.FormatInt(memberID, 10)
}
