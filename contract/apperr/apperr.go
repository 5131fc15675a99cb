// Package apperr реализует единую ошибку предметной области: запись каталога errcode,
// необязательные детали и упорядоченный список ошибок полей.
//
// Пакет только конструирует ошибки и превращает их в тела ответов. Логирование,
// повторы и выбор стратегии остаются за вызывающим сервисом.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/contract/contract/envelope"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
)

// Error — ошибка предметной области. После создания меняется только список ошибок полей,
// и только добавлением.
type Error struct {
	entry   errcode.Entry
	message string
	details string
	fields  []envelope.FieldError
	cause   error
}

// New создаёт ошибку по коду каталога. Неизвестный код даёт INTERNAL_SERVER_ERROR.
func New(code errcode.Code, details string) *Error {
	return &Error{entry: code.Entry(), details: details}
}

// Newf создаёт ошибку с форматированными деталями.
func Newf(code errcode.Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap создаёт ошибку с причиной. Причина доступна через errors.Unwrap,
// но в тело ответа не попадает.
func Wrap(code errcode.Code, details string, cause error) *Error {
	err := New(code, details)
	err.cause = cause
	return err
}

// FromEntry создаёт ошибку из произвольной записи. Используется на стороне клиента,
// когда код может отсутствовать в локальной версии каталога.
func FromEntry(entry errcode.Entry, details string) *Error {
	return &Error{entry: entry, details: details}
}

// AddFieldError добавляет ошибку поля и возвращает ту же ошибку.
func (e *Error) AddFieldError(field, message string, rejectedValue ...any) *Error {
	fe := envelope.FieldError{Field: field, Message: message}
	if len(rejectedValue) > 0 {
		fe.RejectedValue = rejectedValue[0]
	}
	e.fields = append(e.fields, fe)
	return e
}

// WithMessage возвращает копию ошибки с переопределённым сообщением.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.fields = e.FieldErrors()
	clone.message = message
	return &clone
}

func (e *Error) Code() errcode.Code   { return e.entry.Code }
func (e *Error) Entry() errcode.Entry { return e.entry }
func (e *Error) Details() string      { return e.details }
func (e *Error) HTTPStatus() int      { return e.entry.HTTPStatus }
func (e *Error) Unwrap() error        { return e.cause }

// Message возвращает переопределённое сообщение или сообщение каталога.
func (e *Error) Message() string {
	if e.message != "" {
		return e.message
	}
	return e.entry.Message
}

// FieldErrors возвращает копию списка ошибок полей.
func (e *Error) FieldErrors() []envelope.FieldError {
	if len(e.fields) == 0 {
		return nil
	}
	out := make([]envelope.FieldError, len(e.fields))
	copy(out, e.fields)
	return out
}

func (e *Error) HasFieldErrors() bool {
	return len(e.fields) > 0
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.entry.Code))
	b.WriteByte(' ')
	b.WriteString(e.Message())
	if e.details != "" {
		b.WriteString(": ")
		b.WriteString(e.details)
	}
	for _, fe := range e.fields {
		fmt.Fprintf(&b, "; %s: %s", fe.Field, fe.Message)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Is сравнивает ошибки по символьному коду, детали не учитываются.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.entry.Code == e.entry.Code
}

// From достаёт *Error из цепочки ошибок.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode сообщает, содержит ли цепочка ошибку с указанным кодом.
func HasCode(err error, code errcode.Code) bool {
	appErr, ok := From(err)
	return ok && appErr.Code() == code
}

// CodeOf возвращает код ошибки; для ошибок вне пакета это INTERNAL_SERVER_ERROR.
func CodeOf(err error) errcode.Code {
	if appErr, ok := From(err); ok {
		return appErr.Code()
	}
	return errcode.InternalServerError
}
