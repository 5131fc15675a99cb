package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vladislavdragonenkov/contract/contract/apperr"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
)

// Теги, которые Validator добавляет к стандартным тегам go-playground/validator.
const (
	TagEmail              = "contract_email"
	TagPhone              = "contract_phone"
	TagUUID               = "contract_uuid"
	TagStrongPassword     = "strong_password"
	TagVeryStrongPassword = "very_strong_password"
	TagOrderStatus        = "order_status"
)

// Значения этих тегов не возвращаются клиенту в rejectedValue.
var secretTags = map[string]bool{
	TagStrongPassword:     true,
	TagVeryStrongPassword: true,
}

var tagMessages = map[string]string{
	"required":            "is required",
	"min":                 "is too short",
	"max":                 "is too long",
	"gt":                  "must be greater than allowed minimum",
	"gte":                 "is below allowed minimum",
	"lte":                 "is above allowed maximum",
	"len":                 "has invalid length",
	"oneof":               "has unsupported value",
	"alpha":               "must contain only letters",
	"uppercase":           "must be upper case",
	TagEmail:              "must be a valid email address",
	TagPhone:              "must be a valid phone number",
	TagUUID:               "must be a valid UUID",
	TagStrongPassword:     PasswordRequirements(),
	TagVeryStrongPassword: "Password must also contain a special character from " + PasswordSpecialChars,
	TagOrderStatus:        "must be a known order status",
}

// Validator проверяет структуры по тегам validate и собирает все ошибки полей
// в одну ошибку VALIDATION_ERROR.
type Validator struct {
	validate *validator.Validate
}

// NewValidator создаёт валидатор с зарегистрированными тегами пакета.
// Имена полей в ошибках берутся из тега json.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	mustRegister(v, TagEmail, stringPredicate(IsValidEmail))
	mustRegister(v, TagPhone, stringPredicate(IsValidPhone))
	mustRegister(v, TagUUID, stringPredicate(IsValidUUID))
	mustRegister(v, TagStrongPassword, stringPredicate(IsStrongPassword))
	mustRegister(v, TagVeryStrongPassword, stringPredicate(IsVeryStrongPassword))
	mustRegister(v, TagOrderStatus, stringPredicate(func(s string) bool {
		return lifecycle.Status(s).Valid()
	}))

	return &Validator{validate: v}
}

var defaultValidator = NewValidator()

// Struct проверяет структуру валидатором по умолчанию.
func Struct(s any) error {
	return defaultValidator.Struct(s)
}

// Struct возвращает nil или *apperr.Error с полным списком ошибок полей.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(errcode.InvalidRequest, "request payload cannot be validated", err)
	}

	collector := apperr.Validation()
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		if secretTags[fe.Tag()] {
			collector.Add(field, messageFor(fe))
			continue
		}
		collector.Add(field, messageFor(fe), fe.Value())
	}
	return collector.Err()
}

// Var проверяет одно значение; field используется как имя поля в ошибке.
func (v *Validator) Var(field string, value any, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(errcode.InvalidRequest, "value cannot be validated", err)
	}

	collector := apperr.Validation()
	for _, fe := range fieldErrs {
		if secretTags[fe.Tag()] {
			collector.Add(field, messageFor(fe))
			continue
		}
		collector.Add(field, messageFor(fe), value)
	}
	return collector.Err()
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

func stringPredicate(pred func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return pred(field.String())
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// fieldPath убирает имя корневой структуры: "CreateOrder.customerId" -> "customerId".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return "failed on '" + fe.Tag() + "' validation"
}
