package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора заказа.
	ErrOrderIDRequired = errors.New("order id is required")
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующего кода валюты.
	ErrCurrencyRequired = errors.New("currency is required")
	// Ошибка кода валюты не в формате ISO 4217.
	ErrCurrencyInvalid = errors.New("currency must be a three-letter ISO 4217 code")
	// Ошибка неположительной суммы заказа.
	ErrAmountNotPositive = errors.New("amount_minor must be positive")
	// Ошибка неизвестного статуса заказа.
	ErrStatusInvalid = errors.New("order status is unknown")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists возвращается при повторном создании заказа с тем же ID.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrEventPublish — ошибка при публикации события об изменении статуса.
	ErrEventPublish = errors.New("status event publish failed")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}

// IsNotFound проверяет, что заказ не найден.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}
