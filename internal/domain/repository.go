package domain

import "context"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrOrderAlreadyExists, если ID занят.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id string) (Order, error)
	// ListByCustomer возвращает страницу заказов клиента (новые первыми) и общее число заказов.
	ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]Order, int64, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(ctx context.Context, order Order) error
}

// HistoryRepository хранит историю смены статусов заказа.
type HistoryRepository interface {
	Append(ctx context.Context, change StatusChange) error
	// List возвращает изменения заказа в хронологическом порядке.
	List(ctx context.Context, orderID string) ([]StatusChange, error)
}
