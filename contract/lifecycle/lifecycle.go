// Package lifecycle описывает жизненный цикл заказа: набор статусов, их атрибуты
// и допустимые переходы.
//
// Пакет только отвечает на вопросы вида "можно ли"; ошибку о недопустимом переходе
// (ERR-5005) строит вызывающий сервис.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// Status — статус заказа. Значение совпадает с внешним кодом статуса.
type Status string

const (
	// Pending — заказ создан и ждёт подтверждения.
	Pending Status = "PENDING"
	// Confirmed — заказ подтверждён и собирается.
	Confirmed Status = "CONFIRMED"
	// Shipped — заказ передан в доставку.
	Shipped Status = "SHIPPED"
	// Delivered — заказ доставлен.
	Delivered Status = "DELIVERED"
	// Cancelled — заказ отменён. Внешний код исторически пишется с одной L.
	Cancelled Status = "CANCELED"
)

// ErrUnknownStatus возвращается при разборе неизвестного кода статуса.
var ErrUnknownStatus = errors.New("unknown order status")

type attributes struct {
	label       string
	final       bool
	cancellable bool
}

// Атрибуты хранятся явно и не выводятся из таблицы переходов.
var statusAttributes = map[Status]attributes{
	Pending:   {label: "Pending", final: false, cancellable: true},
	Confirmed: {label: "Confirmed", final: false, cancellable: true},
	Shipped:   {label: "Shipped", final: false, cancellable: false},
	Delivered: {label: "Delivered", final: true, cancellable: false},
	Cancelled: {label: "Cancelled", final: true, cancellable: false},
}

// Терминальные статусы в таблице не перечисляются: их отсекает CanTransition.
var transitions = map[Status][]Status{
	Pending:   {Confirmed, Cancelled},
	Confirmed: {Shipped, Cancelled},
	Shipped:   {Delivered},
}

var ordered = []Status{Pending, Confirmed, Shipped, Delivered, Cancelled}

// Statuses возвращает все статусы в порядке жизненного цикла.
func Statuses() []Status {
	out := make([]Status, len(ordered))
	copy(out, ordered)
	return out
}

// Initial — статус нового заказа.
func Initial() Status {
	return Pending
}

// CanTransition сообщает, допустим ли переход current -> target.
// Из терминального статуса переходов нет, таблица при этом не просматривается.
func CanTransition(current, target Status) bool {
	if IsFinal(current) {
		return false
	}
	for _, allowed := range transitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsCancellable сообщает, можно ли отменить заказ в этом статусе.
func IsCancellable(s Status) bool {
	return statusAttributes[s].cancellable
}

// IsFinal сообщает, является ли статус терминальным.
func IsFinal(s Status) bool {
	return statusAttributes[s].final
}

// AllowedTargets возвращает статусы, в которые можно перейти из s.
func AllowedTargets(s Status) []Status {
	if IsFinal(s) {
		return nil
	}
	targets := transitions[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// ParseStatus разбирает внешний код без учёта регистра.
func ParseStatus(code string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, s := range ordered {
		if string(s) == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, code)
}

// Code возвращает внешний код статуса.
func (s Status) Code() string {
	return string(s)
}

// Label возвращает отображаемое название статуса.
func (s Status) Label() string {
	return statusAttributes[s].label
}

func (s Status) IsFinal() bool       { return IsFinal(s) }
func (s Status) IsCancellable() bool { return IsCancellable(s) }

// CanTransitionTo — то же, что CanTransition(s, target).
func (s Status) CanTransitionTo(target Status) bool {
	return CanTransition(s, target)
}

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s Status) Valid() bool {
	_, ok := statusAttributes[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// MarshalText пишет внешний код; неизвестный статус не сериализуется.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return []byte(s), nil
}

// UnmarshalText разбирает внешний код без учёта регистра.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
