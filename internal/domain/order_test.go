package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
	"github.com/vladislavdragonenkov/contract/internal/domain"
)

// helper для создания корректного заказа.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:          "order-1",
		CustomerID:  "customer-1",
		Status:      lifecycle.Pending,
		Currency:    "USD",
		AmountMinor: 500,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
		want error
	}{
		{
			name: "no id",
			mut:  func(o *domain.Order) { o.ID = "" },
			want: domain.ErrOrderIDRequired,
		},
		{
			name: "no customer",
			mut:  func(o *domain.Order) { o.CustomerID = "" },
			want: domain.ErrCustomerRequired,
		},
		{
			name: "no currency",
			mut:  func(o *domain.Order) { o.Currency = "" },
			want: domain.ErrCurrencyRequired,
		},
		{
			name: "lowercase currency",
			mut:  func(o *domain.Order) { o.Currency = "usd" },
			want: domain.ErrCurrencyInvalid,
		},
		{
			name: "zero amount",
			mut:  func(o *domain.Order) { o.AmountMinor = 0 },
			want: domain.ErrAmountNotPositive,
		},
		{
			name: "unknown status",
			mut:  func(o *domain.Order) { o.Status = lifecycle.Status("LOST") },
			want: domain.ErrStatusInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			errs := order.ValidateInvariants()
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if !errors.Is(errs[0], tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, errs[0])
			}
		})
	}
}

func TestOrderTransition(t *testing.T) {
	order := makeOrder()
	at := order.CreatedAt.Add(time.Minute)

	change, ok := order.Transition(lifecycle.Confirmed, at)
	if !ok {
		t.Fatal("expected PENDING -> CONFIRMED to be allowed")
	}
	if change.From != lifecycle.Pending || change.To != lifecycle.Confirmed {
		t.Fatalf("unexpected change: %+v", change)
	}
	if order.Status != lifecycle.Confirmed || !order.UpdatedAt.Equal(at) {
		t.Fatalf("order not updated: %+v", order)
	}
	if order.Version != 0 {
		t.Fatalf("version must be bumped by repository, got %d", order.Version)
	}

	if _, ok := order.Transition(lifecycle.Delivered, at); ok {
		t.Fatal("expected CONFIRMED -> DELIVERED to be rejected")
	}
	if order.Status != lifecycle.Confirmed {
		t.Fatalf("rejected transition must not change status, got %s", order.Status)
	}
}
