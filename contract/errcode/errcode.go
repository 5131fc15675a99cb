// Package errcode содержит неизменяемый каталог кодов ошибок, общий для всех сервисов.
//
// Символьный код (ERR-xxxx) — публичный контракт: клиентские SDK ветвятся именно по нему,
// а не по HTTP-статусу или тексту сообщения. Коды не переиспользуются и не перенумеровываются.
// Числовые диапазоны (1000 — общие, 2000 — аутентификация, 3000 — авторизация,
// 4000 — пользователи, 5000 — заказы, 6000 — хранилище, 7000 — межсервисное
// взаимодействие) — соглашение, код их не разбирает.
package errcode

import (
	"errors"
	"fmt"
	"net/http"
)

// Code — стабильный символьный код ошибки.
type Code string

const (
	// Общие ошибки (1000-1999).
	InternalServerError Code = "ERR-1000"
	InvalidRequest      Code = "ERR-1001"
	ValidationError     Code = "ERR-1002"
	ResourceNotFound    Code = "ERR-1003"

	// Аутентификация (2000-2999).
	AuthenticationFailed Code = "ERR-2000"
	InvalidCredentials   Code = "ERR-2001"
	TokenExpired         Code = "ERR-2002"
	TokenInvalid         Code = "ERR-2003"
	UnauthorizedAccess   Code = "ERR-2004"

	// Авторизация (3000-3999).
	AccessDenied            Code = "ERR-3000"
	InsufficientPermissions Code = "ERR-3001"
	ForbiddenOperation      Code = "ERR-3002"

	// Пользователи (4000-4999).
	UserNotFound      Code = "ERR-4000"
	UserAlreadyExists Code = "ERR-4001"
	UserDisabled      Code = "ERR-4002"
	InvalidEmail      Code = "ERR-4003"
	WeakPassword      Code = "ERR-4004"
	PasswordMismatch  Code = "ERR-4005"

	// Заказы (5000-5999).
	OrderNotFound                Code = "ERR-5000"
	OrderAlreadyCancelled        Code = "ERR-5001"
	OrderCannotBeCancelled       Code = "ERR-5002"
	InvalidOrderStatus           Code = "ERR-5003"
	InvalidOrderAmount           Code = "ERR-5004"
	OrderStatusTransitionInvalid Code = "ERR-5005"

	// Хранилище (6000-6999).
	DatabaseError       Code = "ERR-6000"
	DuplicateEntry      Code = "ERR-6001"
	ConstraintViolation Code = "ERR-6002"

	// Межсервисное взаимодействие (7000-7999).
	ServiceUnavailable Code = "ERR-7000"
	ServiceTimeout     Code = "ERR-7001"
	CommunicationError Code = "ERR-7002"
)

// ErrUnknownCode возвращается Lookup, если код отсутствует в каталоге.
var ErrUnknownCode = errors.New("unknown error code")

// Entry — запись каталога: код, имя, подсказка HTTP-статуса и сообщение по умолчанию.
type Entry struct {
	Code       Code
	Name       string
	HTTPStatus int
	Message    string
}

// String возвращает "код: сообщение".
func (e Entry) String() string {
	return string(e.Code) + ": " + e.Message
}

// Порядок объявления — порядок перечисления в All().
var entries = []Entry{
	{InternalServerError, "INTERNAL_SERVER_ERROR", http.StatusInternalServerError, "Internal server error"},
	{InvalidRequest, "INVALID_REQUEST", http.StatusBadRequest, "Invalid request"},
	{ValidationError, "VALIDATION_ERROR", http.StatusBadRequest, "Validation error"},
	{ResourceNotFound, "RESOURCE_NOT_FOUND", http.StatusNotFound, "Resource not found"},

	{AuthenticationFailed, "AUTHENTICATION_FAILED", http.StatusUnauthorized, "Authentication failed"},
	{InvalidCredentials, "INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid credentials"},
	{TokenExpired, "TOKEN_EXPIRED", http.StatusUnauthorized, "Token expired"},
	{TokenInvalid, "TOKEN_INVALID", http.StatusUnauthorized, "Invalid token"},
	{UnauthorizedAccess, "UNAUTHORIZED_ACCESS", http.StatusUnauthorized, "Unauthorized access"},

	{AccessDenied, "ACCESS_DENIED", http.StatusForbidden, "Access denied"},
	{InsufficientPermissions, "INSUFFICIENT_PERMISSIONS", http.StatusForbidden, "Insufficient permissions"},
	{ForbiddenOperation, "FORBIDDEN_OPERATION", http.StatusForbidden, "Forbidden operation"},

	{UserNotFound, "USER_NOT_FOUND", http.StatusNotFound, "User not found"},
	{UserAlreadyExists, "USER_ALREADY_EXISTS", http.StatusConflict, "User already exists"},
	{UserDisabled, "USER_DISABLED", http.StatusForbidden, "User is disabled"},
	{InvalidEmail, "INVALID_EMAIL", http.StatusBadRequest, "Invalid email"},
	{WeakPassword, "WEAK_PASSWORD", http.StatusBadRequest, "Password is too weak"},
	{PasswordMismatch, "PASSWORD_MISMATCH", http.StatusBadRequest, "Passwords do not match"},

	{OrderNotFound, "ORDER_NOT_FOUND", http.StatusNotFound, "Order not found"},
	{OrderAlreadyCancelled, "ORDER_ALREADY_CANCELLED", http.StatusConflict, "Order already cancelled"},
	{OrderCannotBeCancelled, "ORDER_CANNOT_BE_CANCELLED", http.StatusConflict, "Order cannot be cancelled"},
	{InvalidOrderStatus, "INVALID_ORDER_STATUS", http.StatusBadRequest, "Invalid order status"},
	{InvalidOrderAmount, "INVALID_ORDER_AMOUNT", http.StatusBadRequest, "Invalid order amount"},
	{OrderStatusTransitionInvalid, "ORDER_STATUS_TRANSITION_INVALID", http.StatusConflict, "Invalid status transition"},

	{DatabaseError, "DATABASE_ERROR", http.StatusInternalServerError, "Database error"},
	{DuplicateEntry, "DUPLICATE_ENTRY", http.StatusConflict, "Duplicate entry"},
	{ConstraintViolation, "CONSTRAINT_VIOLATION", http.StatusConflict, "Constraint violation"},

	{ServiceUnavailable, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "Service unavailable"},
	{ServiceTimeout, "SERVICE_TIMEOUT", http.StatusGatewayTimeout, "Service timeout"},
	{CommunicationError, "COMMUNICATION_ERROR", http.StatusBadGateway, "Communication error"},
}

var (
	byCode = indexByCode(entries)
	byName = indexByName(entries)
)

func indexByCode(list []Entry) map[Code]Entry {
	index := make(map[Code]Entry, len(list))
	for _, entry := range list {
		if _, exists := index[entry.Code]; exists {
			panic(fmt.Sprintf("errcode: duplicate code %s", entry.Code))
		}
		index[entry.Code] = entry
	}
	return index
}

func indexByName(list []Entry) map[string]Entry {
	index := make(map[string]Entry, len(list))
	for _, entry := range list {
		if _, exists := index[entry.Name]; exists {
			panic(fmt.Sprintf("errcode: duplicate name %s", entry.Name))
		}
		index[entry.Name] = entry
	}
	return index
}

// Lookup возвращает запись каталога по символьному коду или ErrUnknownCode.
func Lookup(code string) (Entry, error) {
	entry, ok := byCode[Code(code)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	return entry, nil
}

// ByName ищет запись по имени перечисления (например, "ORDER_NOT_FOUND").
func ByName(name string) (Entry, bool) {
	entry, ok := byName[name]
	return entry, ok
}

// All возвращает копию каталога в порядке объявления.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Known сообщает, есть ли код в каталоге.
func (c Code) Known() bool {
	_, ok := byCode[c]
	return ok
}

// Entry возвращает запись каталога; неизвестный код даёт INTERNAL_SERVER_ERROR.
func (c Code) Entry() Entry {
	if entry, ok := byCode[c]; ok {
		return entry
	}
	return byCode[InternalServerError]
}

// HTTPStatus — подсказка HTTP-статуса для кода.
func (c Code) HTTPStatus() int {
	return c.Entry().HTTPStatus
}

func (c Code) String() string {
	return string(c)
}
