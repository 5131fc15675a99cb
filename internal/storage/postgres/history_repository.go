package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
	"github.com/vladislavdragonenkov/contract/internal/domain"
)

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository создаёт PostgreSQL-реализацию HistoryRepository.
func NewHistoryRepository(store *Store) domain.HistoryRepository {
	return &historyRepository{db: store.DB()}
}

// Append сохраняет изменение статуса. Повторная запись с тем же EventID игнорируется.
func (r *historyRepository) Append(ctx context.Context, change domain.StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_status_history (
			event_id, order_id, customer_id, from_status, to_status, reason, changed_by, occurred_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (event_id) DO NOTHING
	`,
		change.EventID, change.OrderID, change.CustomerID,
		string(change.From), string(change.To),
		change.Reason, change.ChangedBy, change.OccurredAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("insert status change: %w", err)
	}
	return nil
}

func (r *historyRepository) List(ctx context.Context, orderID string) ([]domain.StatusChange, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT event_id, order_id, customer_id, from_status, to_status, reason, changed_by, occurred_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	defer rows.Close()

	changes := make([]domain.StatusChange, 0)
	for rows.Next() {
		var (
			change   domain.StatusChange
			from, to string
		)
		if err := rows.Scan(
			&change.EventID, &change.OrderID, &change.CustomerID, &from, &to,
			&change.Reason, &change.ChangedBy, &change.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		change.From = lifecycle.Status(from)
		change.To = lifecycle.Status(to)
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status changes: %w", err)
	}
	return changes, nil
}

var _ domain.HistoryRepository = (*historyRepository)(nil)
