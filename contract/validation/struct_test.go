package validation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/contract/contract/apperr"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,contract_email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,contract_phone"`
	Password string `json:"password" validate:"required,very_strong_password"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
}

type statusRequest struct {
	OrderID string           `json:"orderId" validate:"required,contract_uuid"`
	Status  lifecycle.Status `json:"status" validate:"required,order_status"`
}

type nested struct {
	Owner signupRequest `json:"owner"`
}

func TestValidator_Struct_OK(t *testing.T) {
	v := NewValidator()

	err := v.Struct(signupRequest{
		Email:    "user@domain.co",
		Password: "Pass@1234",
		Name:     "Ann",
	})
	assert.NoError(t, err)

	err = v.Struct(statusRequest{
		OrderID: "550e8400-e29b-41d4-a716-446655440000",
		Status:  lifecycle.Shipped,
	})
	assert.NoError(t, err)
}

func TestValidator_Struct_CollectsAllFields(t *testing.T) {
	err := NewValidator().Struct(signupRequest{
		Email:    "user@@domain.com",
		Phone:    "12",
		Password: "Pass1234",
		Name:     "A",
	})
	require.Error(t, err)

	appErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, errcode.ValidationError, appErr.Code())
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())

	fields := appErr.FieldErrors()
	require.Len(t, fields, 4)

	byField := map[string]string{}
	for _, fe := range fields {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must be a valid phone number", byField["phone"])
	assert.Contains(t, byField["password"], "special character")
	assert.Equal(t, "is too short", byField["name"])

	for _, fe := range fields {
		if fe.Field == "password" {
			assert.Nil(t, fe.RejectedValue)
		}
		if fe.Field == "email" {
			assert.Equal(t, "user@@domain.com", fe.RejectedValue)
		}
	}
}

func TestValidator_Struct_OrderStatus(t *testing.T) {
	err := Struct(statusRequest{OrderID: "nope", Status: lifecycle.Status("LOST")})
	require.Error(t, err)

	appErr, ok := apperr.From(err)
	require.True(t, ok)
	fields := appErr.FieldErrors()
	require.Len(t, fields, 2)
	assert.Equal(t, "orderId", fields[0].Field)
	assert.Equal(t, "status", fields[1].Field)
	assert.Equal(t, "must be a known order status", fields[1].Message)
}

func TestValidator_Struct_NestedFieldPath(t *testing.T) {
	err := Struct(nested{Owner: signupRequest{Email: "a@b.co", Password: "Pass@1234"}})
	require.Error(t, err)

	appErr, _ := apperr.From(err)
	fields := appErr.FieldErrors()
	require.Len(t, fields, 1)
	assert.Equal(t, "owner.name", fields[0].Field)
	assert.Equal(t, "is required", fields[0].Message)
}

func TestValidator_Struct_NotAStruct(t *testing.T) {
	err := Struct("string payload")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, errcode.InvalidRequest))
}

func TestValidator_Var(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Var("email", "user@domain.co", "contract_email"))

	err := v.Var("email", "nope", "required,contract_email")
	require.Error(t, err)
	appErr, _ := apperr.From(err)
	require.Len(t, appErr.FieldErrors(), 1)
	assert.Equal(t, "email", appErr.FieldErrors()[0].Field)
	assert.Equal(t, "nope", appErr.FieldErrors()[0].RejectedValue)

	err = v.Var("password", "weak", "strong_password")
	require.Error(t, err)
	appErr, _ = apperr.From(err)
	assert.Nil(t, appErr.FieldErrors()[0].RejectedValue)
}
