package apperr

import (
	"fmt"

	"github.com/vladislavdragonenkov/contract/contract/errcode"
	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
)

// Готовые конструкторы для типовых ситуаций.

// NotFound — ресурс не найден по значению поля.
func NotFound(resource, field string, value any) *Error {
	return Newf(errcode.ResourceNotFound, "%s not found with %s: '%v'", resource, field, value)
}

func UserNotFound(id string) *Error {
	return Newf(errcode.UserNotFound, "User not found with id: '%s'", id)
}

func UserNotFoundByEmail(email string) *Error {
	return Newf(errcode.UserNotFound, "User not found with email: '%s'", email)
}

func OrderNotFound(id string) *Error {
	return Newf(errcode.OrderNotFound, "Order not found with id: '%s'", id)
}

func OrderNotFoundByNumber(number string) *Error {
	return Newf(errcode.OrderNotFound, "Order not found with number: '%s'", number)
}

// InvalidParameter — параметр запроса некорректен. Параметр попадает и в список полей.
func InvalidParameter(name, reason string) *Error {
	return Newf(errcode.ValidationError, "Invalid parameter: %s. Reason: %s", name, reason).
		AddFieldError(name, reason)
}

// MissingParameter — обязательный параметр отсутствует.
func MissingParameter(name string) *Error {
	return Newf(errcode.ValidationError, "Missing required parameter: %s", name).
		AddFieldError(name, "is required")
}

func InvalidEmail(email string) *Error {
	return Newf(errcode.InvalidEmail, "Invalid email format: %s", email)
}

func WeakPassword() *Error {
	return New(errcode.WeakPassword,
		"Password must be at least 8 characters long and contain an uppercase letter, a lowercase letter and a digit")
}

// AlreadyExists — нарушение уникальности.
func AlreadyExists(resource, field string, value any) *Error {
	return Newf(errcode.DuplicateEntry, "%s with %s '%v' already exists", resource, field, value)
}

func InvalidCredentials() *Error {
	return New(errcode.InvalidCredentials, "Incorrect email or password")
}

func TokenExpired() *Error {
	return New(errcode.TokenExpired, "Your session has expired, please sign in again")
}

func InvalidToken() *Error {
	return New(errcode.TokenInvalid, "Token is invalid or malformed")
}

func MissingToken() *Error {
	return New(errcode.UnauthorizedAccess, "Authentication token is missing")
}

func InsufficientPermissions() *Error {
	return New(errcode.InsufficientPermissions, "You do not have the permissions required for this action")
}

func AdminOnly() *Error {
	return New(errcode.InsufficientPermissions, "This action is reserved for administrators")
}

// ResourceAccess — вызывающему запрещён доступ к конкретному ресурсу.
func ResourceAccess(resource string) *Error {
	return Newf(errcode.AccessDenied, "You are not allowed to access this resource: %s", resource)
}

func OperationNotAllowed(operation string) *Error {
	return Newf(errcode.ForbiddenOperation, "Operation '%s' is not allowed", operation)
}

// Internal — непредвиденная ошибка. cause может быть nil.
func Internal(details string, cause error) *Error {
	return Wrap(errcode.InternalServerError, details, cause)
}

func DatabaseError(operation string, cause error) *Error {
	return Wrap(errcode.DatabaseError, fmt.Sprintf("Database operation failed: %s", operation), cause)
}

func ServiceUnavailable(service string) *Error {
	return Newf(errcode.ServiceUnavailable, "Service %s is currently unavailable", service)
}

func ServiceTimeout(service string) *Error {
	return Newf(errcode.ServiceTimeout, "Service %s did not respond in time", service)
}

func CommunicationError(service, details string) *Error {
	return Newf(errcode.CommunicationError, "Communication with service %s failed: %s", service, details)
}

// InvalidTransition — переход между статусами заказа запрещён.
func InvalidTransition(from, to lifecycle.Status) *Error {
	return Newf(errcode.OrderStatusTransitionInvalid,
		"Cannot change order status from %s to %s", from, to)
}

func OrderAlreadyCancelled(id string) *Error {
	return Newf(errcode.OrderAlreadyCancelled, "Order '%s' is already cancelled", id)
}

// OrderCannotBeCancelled — статус заказа не допускает отмены.
func OrderCannotBeCancelled(id string, status lifecycle.Status) *Error {
	return Newf(errcode.OrderCannotBeCancelled,
		"Order '%s' cannot be cancelled in status %s", id, status)
}

func InvalidOrderStatus(value string) *Error {
	return Newf(errcode.InvalidOrderStatus, "Unknown order status: '%s'", value)
}

func InvalidOrderAmount(amountMinor int64) *Error {
	return Newf(errcode.InvalidOrderAmount, "Order amount must be positive, got %d", amountMinor)
}
