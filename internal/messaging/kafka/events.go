package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
	"github.com/vladislavdragonenkov/contract/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderCanceled      EventType = "order.canceled"
)

// DefaultStatusTopic — топик событий смены статуса по умолчанию.
const DefaultStatusTopic = "contract.order.status"

// Kafka headers
const (
	HeaderEventType = "x-event-type"
	HeaderEventID   = "x-event-id"
)

// StatusChangedEvent — сообщение о смене статуса заказа.
type StatusChangedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  EventType `json:"event_type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Reason     string    `json:"reason,omitempty"`
	ChangedBy  string    `json:"changed_by,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewStatusChangedEvent строит сообщение из доменного изменения статуса.
func NewStatusChangedEvent(change domain.StatusChange) *StatusChangedEvent {
	return &StatusChangedEvent{
		EventID:    change.EventID,
		EventType:  eventTypeFor(change),
		OrderID:    change.OrderID,
		CustomerID: change.CustomerID,
		FromStatus: string(change.From),
		ToStatus:   string(change.To),
		Reason:     change.Reason,
		ChangedBy:  change.ChangedBy,
		Timestamp:  change.OccurredAt.UTC(),
	}
}

func eventTypeFor(change domain.StatusChange) EventType {
	switch {
	case change.From == "":
		return EventTypeOrderCreated
	case change.To == lifecycle.Cancelled:
		return EventTypeOrderCanceled
	default:
		return EventTypeOrderStatusChanged
	}
}
