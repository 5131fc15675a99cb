package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/contract/internal/domain"
)

// historyRepositoryInMemory хранит историю статусов в памяти.
type historyRepositoryInMemory struct {
	mu      sync.RWMutex
	changes map[string][]domain.StatusChange
}

// NewHistoryRepository создаёт in-memory реализацию HistoryRepository.
func NewHistoryRepository() domain.HistoryRepository {
	return &historyRepositoryInMemory{changes: make(map[string][]domain.StatusChange)}
}

// Append добавляет изменение, сохраняя хронологический порядок.
func (r *historyRepositoryInMemory) Append(ctx context.Context, change domain.StatusChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := append(r.changes[change.OrderID], change)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].OccurredAt.Before(list[j].OccurredAt)
	})
	r.changes[change.OrderID] = list
	return nil
}

// List возвращает копию истории заказа.
func (r *historyRepositoryInMemory) List(ctx context.Context, orderID string) ([]domain.StatusChange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	changes := r.changes[orderID]
	result := make([]domain.StatusChange, len(changes))
	copy(result, changes)
	return result, nil
}

var _ domain.HistoryRepository = (*historyRepositoryInMemory)(nil)
