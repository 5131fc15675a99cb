// Package envelope описывает форму ответов, общую для всех сервисов: успешный ответ,
// ответ с ошибкой, ответ с ошибками валидации и страницу результатов.
//
// Отсутствующие необязательные поля не сериализуются вовсе (ключ отсутствует, а не null):
// клиенты используют наличие ключа как признак.
package envelope

import (
	"reflect"
	"time"
)

// DefaultSuccessMessage подставляется, если Success вызван без сообщения.
const DefaultSuccessMessage = "Operation succeeded"

// now — источник времени для меток timestamp; подменяется в тестах.
var now = func() time.Time { return time.Now().UTC() }

// Envelope — обёртка успешного (или неуспешного, см. Error) ответа.
type Envelope[T any] struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Data      *T        `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path,omitempty"`
}

// Success оборачивает данные в успешный ответ.
func Success[T any](data T, message ...string) Envelope[T] {
	msg := DefaultSuccessMessage
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return Envelope[T]{
		Success:   true,
		Message:   msg,
		Data:      present(data),
		Timestamp: now(),
	}
}

// SuccessMessage — успешный ответ без данных.
func SuccessMessage(message string) Envelope[any] {
	return Envelope[any]{
		Success:   true,
		Message:   message,
		Timestamp: now(),
	}
}

// Error — неуспешный ответ с сообщением и, возможно, данными.
func Error[T any](message string, data ...T) Envelope[T] {
	env := Envelope[T]{
		Success:   false,
		Message:   message,
		Timestamp: now(),
	}
	if len(data) > 0 {
		env.Data = present(data[0])
	}
	return env
}

// WithPath возвращает копию ответа с путём запроса.
func (e Envelope[T]) WithPath(path string) Envelope[T] {
	e.Path = path
	return e
}

// HasData сообщает, присутствуют ли данные.
func (e Envelope[T]) HasData() bool {
	return e.Data != nil
}

// present возвращает указатель на данные или nil, если значение по сути отсутствует
// (nil-указатель, nil-срез, nil-map, nil-интерфейс).
func present[T any](data T) *T {
	v := reflect.ValueOf(&data).Elem()
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return &data
}
