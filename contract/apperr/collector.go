package apperr

import "github.com/vladislavdragonenkov/contract/contract/errcode"

// Collector накапливает ошибки полей, чтобы клиент получил их все за один ответ.
type Collector struct {
	err *Error
}

// Validation начинает накопление ошибок VALIDATION_ERROR.
func Validation() *Collector {
	return &Collector{err: New(errcode.ValidationError, "")}
}

// Check добавляет ошибку поля, если ok == false.
func (c *Collector) Check(ok bool, field, message string, rejectedValue ...any) *Collector {
	if !ok {
		c.err.AddFieldError(field, message, rejectedValue...)
	}
	return c
}

// Add безусловно добавляет ошибку поля.
func (c *Collector) Add(field, message string, rejectedValue ...any) *Collector {
	c.err.AddFieldError(field, message, rejectedValue...)
	return c
}

// Failed сообщает, есть ли накопленные ошибки.
func (c *Collector) Failed() bool {
	return c.err.HasFieldErrors()
}

// Err возвращает накопленную ошибку или nil-интерфейс, если всё корректно.
func (c *Collector) Err() error {
	if !c.err.HasFieldErrors() {
		return nil
	}
	return c.err
}
