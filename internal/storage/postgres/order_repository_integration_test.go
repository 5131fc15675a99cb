package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
	"github.com/vladislavdragonenkov/contract/internal/domain"
)

func TestOrderRepository_PostgresCreateGetListAndSave(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()

	now := time.Now().UTC().Round(time.Microsecond)
	order1 := sampleOrder("order-1", "customer-1", now.Add(-2*time.Minute))
	order2 := sampleOrder("order-2", "customer-1", now.Add(-time.Minute))
	order3 := sampleOrder("order-3", "customer-1", now)

	for _, order := range []domain.Order{order1, order2, order3} {
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("create %s: %v", order.ID, err)
		}
	}

	got, err := repo.Get(ctx, order1.ID)
	if err != nil {
		t.Fatalf("get order1: %v", err)
	}
	if got.ID != order1.ID || got.CustomerID != order1.CustomerID || got.Status != order1.Status {
		t.Fatalf("unexpected order payload: %+v", got)
	}
	if got.Currency != "USD" || got.AmountMinor != order1.AmountMinor {
		t.Fatalf("unexpected money fields: %+v", got)
	}

	page, total, err := repo.ListByCustomer(ctx, "customer-1", 1, 1)
	if err != nil {
		t.Fatalf("list by customer with offset: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(page) != 1 || page[0].ID != order2.ID {
		t.Fatalf("unexpected page: %+v", page)
	}

	all, _, err := repo.ListByCustomer(ctx, "customer-1", 0, 0)
	if err != nil {
		t.Fatalf("list by customer without limit: %v", err)
	}
	if len(all) != 3 || all[0].ID != order3.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}

	got.Status = lifecycle.Confirmed
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("save order: %v", err)
	}

	updated, err := repo.Get(ctx, order1.ID)
	if err != nil {
		t.Fatalf("get updated order: %v", err)
	}
	if updated.Status != lifecycle.Confirmed {
		t.Fatalf("unexpected status after save: %s", updated.Status)
	}
	if updated.Version != got.Version+1 {
		t.Fatalf("unexpected version after save: got=%d want=%d", updated.Version, got.Version+1)
	}
}

func TestOrderRepository_PostgresErrors(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()

	now := time.Now().UTC().Round(time.Microsecond)
	base := sampleOrder("order-errors", "customer-2", now)

	if _, err := repo.Get(ctx, "missing-order"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	if err := repo.Save(ctx, base); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on save missing, got %v", err)
	}

	if err := repo.Create(ctx, base); err != nil {
		t.Fatalf("create base order: %v", err)
	}
	if err := repo.Create(ctx, base); !errors.Is(err, domain.ErrOrderAlreadyExists) {
		t.Fatalf("expected ErrOrderAlreadyExists on duplicate create, got %v", err)
	}

	stale := base
	stale.Status = lifecycle.Confirmed
	stale.UpdatedAt = now.Add(time.Minute)
	stale.Version = 42
	if err := repo.Save(ctx, stale); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected ErrOrderVersionConflict on stale save, got %v", err)
	}
}

func TestPgErrorClassification(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("expected unique violation for code 23505")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "22001"}) {
		t.Fatal("unexpected unique violation for non-unique code")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Fatal("plain error must not be unique violation")
	}
	if !isForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("expected foreign key violation for code 23503")
	}
	if isForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation must not be reported as foreign key violation")
	}
}

func sampleOrder(id, customerID string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:          id,
		CustomerID:  customerID,
		Status:      lifecycle.Pending,
		Currency:    "USD",
		AmountMinor: 300,
		Version:     0,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}
