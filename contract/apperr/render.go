package apperr

import (
	"time"

	"github.com/vladislavdragonenkov/contract/contract/envelope"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
)

type renderOptions struct {
	status    int
	message   string
	path      string
	timestamp time.Time
}

// Option настраивает тело ответа.
type Option func(*renderOptions)

// WithStatus переопределяет HTTP-статус из каталога.
func WithStatus(status int) Option {
	return func(o *renderOptions) { o.status = status }
}

// WithMessage переопределяет сообщение ответа.
func WithMessage(message string) Option {
	return func(o *renderOptions) { o.message = message }
}

// WithPath записывает путь запроса.
func WithPath(path string) Option {
	return func(o *renderOptions) { o.path = path }
}

// WithTimestamp задаёт метку времени вместо текущей.
func WithTimestamp(ts time.Time) Option {
	return func(o *renderOptions) { o.timestamp = ts }
}

func (e *Error) options(opts []Option) renderOptions {
	o := renderOptions{status: e.HTTPStatus(), message: e.Message()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ToEnvelope строит тело ответа с ошибкой.
func (e *Error) ToEnvelope(opts ...Option) envelope.ErrorEnvelope {
	o := e.options(opts)
	env := envelope.NewErrorEnvelope(o.status, string(e.Code()), o.message, e.details)
	env.Path = o.path
	if !o.timestamp.IsZero() {
		env.Timestamp = o.timestamp.UTC()
	}
	return env
}

// ToValidationEnvelope строит тело ответа со списком ошибок полей.
func (e *Error) ToValidationEnvelope(opts ...Option) envelope.ValidationErrorEnvelope {
	o := e.options(opts)
	env := envelope.NewValidationErrorEnvelope(o.status, o.message, e.fields)
	env.Path = o.path
	if !o.timestamp.IsZero() {
		env.Timestamp = o.timestamp.UTC()
	}
	return env
}

// Response выбирает форму ответа для произвольной ошибки и возвращает статус и тело.
// Ошибка с полями даёт ValidationErrorEnvelope, остальные ErrorEnvelope.
// Ошибка вне пакета превращается в INTERNAL_SERVER_ERROR, её текст наружу не попадает.
func Response(err error, opts ...Option) (int, any) {
	appErr, ok := From(err)
	if !ok {
		appErr = New(errcode.InternalServerError, "")
	}
	if appErr.HasFieldErrors() {
		body := appErr.ToValidationEnvelope(opts...)
		return body.Status, body
	}
	body := appErr.ToEnvelope(opts...)
	return body.Status, body
}

// FromEnvelope восстанавливает ошибку из тела ответа. Код, которого нет в локальном
// каталоге, сохраняется как есть вместе со статусом и сообщением из ответа.
func FromEnvelope(env envelope.ErrorEnvelope) *Error {
	entry, err := errcode.Lookup(env.ErrorCode)
	if err != nil {
		entry = errcode.Entry{
			Code:       errcode.Code(env.ErrorCode),
			HTTPStatus: env.Status,
			Message:    env.Message,
		}
	}
	appErr := FromEntry(entry, env.Details)
	if env.Message != entry.Message {
		appErr.message = env.Message
	}
	return appErr
}

// FromValidationEnvelope восстанавливает VALIDATION_ERROR со списком полей.
func FromValidationEnvelope(env envelope.ValidationErrorEnvelope) *Error {
	appErr := New(errcode.ValidationError, "")
	if env.Message != appErr.entry.Message {
		appErr.message = env.Message
	}
	appErr.fields = append(appErr.fields, env.Errors...)
	return appErr
}
