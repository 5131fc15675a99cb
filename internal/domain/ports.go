package domain

import (
	"context"
	"time"

	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
)

// StatusChange — событие смены статуса заказа. Для создания заказа From пустой.
type StatusChange struct {
	EventID    string
	OrderID    string
	CustomerID string
	From       lifecycle.Status
	To         lifecycle.Status
	Reason     string
	ChangedBy  string
	OccurredAt time.Time
}

// StatusEventPublisher публикует события смены статуса наружу.
type StatusEventPublisher interface {
	PublishStatusChange(ctx context.Context, change StatusChange) error
}

// NopPublisher ничего не публикует; используется, когда брокер не настроен.
type NopPublisher struct{}

func (NopPublisher) PublishStatusChange(context.Context, StatusChange) error { return nil }
