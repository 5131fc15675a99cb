package envelope

import "time"

// ErrorEnvelope — тело ответа с ошибкой.
type ErrorEnvelope struct {
	Status    int       `json:"status"`
	ErrorCode string    `json:"errorCode"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Path      string    `json:"path,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FieldError описывает ошибку одного поля запроса.
type FieldError struct {
	Field         string `json:"field"`
	Message       string `json:"message"`
	RejectedValue any    `json:"rejectedValue,omitempty"`
}

// ValidationErrorEnvelope — тело ответа с ошибками валидации.
// Ключ errors присутствует всегда, даже для пустого списка.
type ValidationErrorEnvelope struct {
	Status    int          `json:"status"`
	Message   string       `json:"message"`
	Errors    []FieldError `json:"errors"`
	Path      string       `json:"path,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewErrorEnvelope собирает ErrorEnvelope с текущей меткой времени.
func NewErrorEnvelope(status int, code, message, details string) ErrorEnvelope {
	return ErrorEnvelope{
		Status:    status,
		ErrorCode: code,
		Message:   message,
		Details:   details,
		Timestamp: now(),
	}
}

// NewValidationErrorEnvelope собирает ValidationErrorEnvelope; nil-список становится пустым.
func NewValidationErrorEnvelope(status int, message string, fields []FieldError) ValidationErrorEnvelope {
	errs := make([]FieldError, len(fields))
	copy(errs, fields)
	return ValidationErrorEnvelope{
		Status:    status,
		Message:   message,
		Errors:    errs,
		Timestamp: now(),
	}
}

// AddFieldError добавляет ошибку поля.
func (v *ValidationErrorEnvelope) AddFieldError(field, message string, rejectedValue ...any) {
	fe := FieldError{Field: field, Message: message}
	if len(rejectedValue) > 0 {
		fe.RejectedValue = rejectedValue[0]
	}
	v.Errors = append(v.Errors, fe)
}
