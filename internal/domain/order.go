package domain

import (
	"time"

	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
)

// Order — заказ с текущим статусом жизненного цикла.
type Order struct {
	ID         string
	CustomerID string
	Status     lifecycle.Status
	// Currency — код валюты ISO 4217.
	Currency string
	// AmountMinor — сумма в минимальных денежных единицах (например, копейки).
	AmountMinor int64
	// Version используется для optimistic locking.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.ID == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.Currency == "" {
		errs = append(errs, ErrCurrencyRequired)
	} else if !isCurrencyCode(o.Currency) {
		errs = append(errs, ErrCurrencyInvalid)
	}
	if o.AmountMinor <= 0 {
		errs = append(errs, ErrAmountNotPositive)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}

	return errs
}

// Transition переводит заказ в новый статус, если переход разрешён.
// Версия не меняется: её увеличивает репозиторий при сохранении.
func (o *Order) Transition(target lifecycle.Status, at time.Time) (StatusChange, bool) {
	if !lifecycle.CanTransition(o.Status, target) {
		return StatusChange{}, false
	}
	change := StatusChange{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		From:       o.Status,
		To:         target,
		OccurredAt: at,
	}
	o.Status = target
	o.UpdatedAt = at
	return change, true
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
