package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/contract/contract/envelope"
	"github.com/vladislavdragonenkov/contract/contract/errcode"
	"github.com/vladislavdragonenkov/contract/contract/lifecycle"
)

func TestNew_UsesCatalogEntry(t *testing.T) {
	err := New(errcode.OrderNotFound, "id=42")

	assert.Equal(t, errcode.OrderNotFound, err.Code())
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
	assert.Equal(t, "Order not found", err.Message())
	assert.Equal(t, "id=42", err.Details())
	assert.False(t, err.HasFieldErrors())
	assert.Nil(t, err.FieldErrors())
	assert.Equal(t, "ERR-5000 Order not found: id=42", err.Error())
}

func TestNew_UnknownCodeFallsBackToInternal(t *testing.T) {
	err := New(errcode.Code("ERR-9999"), "")
	assert.Equal(t, errcode.InternalServerError, err.Code())
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(errcode.DatabaseError, "save order", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	wrapped := fmt.Errorf("repository: %w", err)
	got, ok := From(wrapped)
	require.True(t, ok)
	assert.Equal(t, errcode.DatabaseError, got.Code())
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(errcode.OrderNotFound, "id=1")
	b := New(errcode.OrderNotFound, "id=2")
	c := New(errcode.UserNotFound, "id=1")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", a), b))
	assert.False(t, errors.Is(a, errors.New("ERR-5000")))
}

func TestHasCode_AndCodeOf(t *testing.T) {
	err := fmt.Errorf("service: %w", OrderAlreadyCancelled("o-1"))
	assert.True(t, HasCode(err, errcode.OrderAlreadyCancelled))
	assert.False(t, HasCode(err, errcode.OrderNotFound))
	assert.False(t, HasCode(errors.New("plain"), errcode.InternalServerError))
	assert.False(t, HasCode(nil, errcode.InternalServerError))

	assert.Equal(t, errcode.OrderAlreadyCancelled, CodeOf(err))
	assert.Equal(t, errcode.InternalServerError, CodeOf(errors.New("plain")))
}

func TestAddFieldError_AppendsInOrder(t *testing.T) {
	err := New(errcode.ValidationError, "").
		AddFieldError("email", "invalid email", "bad@").
		AddFieldError("password", "too weak")

	fields := err.FieldErrors()
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "bad@", fields[0].RejectedValue)
	assert.Equal(t, "password", fields[1].Field)
	assert.Nil(t, fields[1].RejectedValue)

	fields[0].Field = "mutated"
	assert.Equal(t, "email", err.FieldErrors()[0].Field)
}

func TestWithMessage_DoesNotTouchOriginal(t *testing.T) {
	base := New(errcode.AccessDenied, "")
	custom := base.WithMessage("Nope")

	assert.Equal(t, "Access denied", base.Message())
	assert.Equal(t, "Nope", custom.Message())
	assert.Equal(t, base.Code(), custom.Code())
}

func TestCollector(t *testing.T) {
	t.Run("no failures yields nil error", func(t *testing.T) {
		err := Validation().
			Check(true, "email", "invalid").
			Check(true, "name", "required").
			Err()
		assert.NoError(t, err)
		assert.True(t, err == nil)
	})

	t.Run("collects every failure", func(t *testing.T) {
		c := Validation().
			Check(false, "email", "invalid email", "x").
			Check(true, "name", "required").
			Check(false, "phone", "invalid phone", "12")
		require.True(t, c.Failed())

		err := c.Err()
		require.Error(t, err)
		appErr, ok := From(err)
		require.True(t, ok)
		assert.Equal(t, errcode.ValidationError, appErr.Code())
		fields := appErr.FieldErrors()
		require.Len(t, fields, 2)
		assert.Equal(t, "email", fields[0].Field)
		assert.Equal(t, "phone", fields[1].Field)
	})
}

func TestToEnvelope(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	err := OrderNotFound("o-1")

	env := err.ToEnvelope(WithPath("/api/v1/orders/o-1"), WithTimestamp(ts))
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, "ERR-5000", env.ErrorCode)
	assert.Equal(t, "Order not found", env.Message)
	assert.Equal(t, "Order not found with id: 'o-1'", env.Details)
	assert.Equal(t, "/api/v1/orders/o-1", env.Path)
	assert.Equal(t, ts, env.Timestamp)

	overridden := err.ToEnvelope(WithStatus(http.StatusGone), WithMessage("Gone"))
	assert.Equal(t, http.StatusGone, overridden.Status)
	assert.Equal(t, "Gone", overridden.Message)
	assert.Equal(t, "ERR-5000", overridden.ErrorCode)
}

func TestToEnvelope_JSONShape(t *testing.T) {
	raw, err := json.Marshal(New(errcode.ServiceUnavailable, "").ToEnvelope())
	require.NoError(t, err)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Contains(t, keys, "status")
	assert.Contains(t, keys, "errorCode")
	assert.Contains(t, keys, "message")
	assert.Contains(t, keys, "timestamp")
	assert.NotContains(t, keys, "details")
	assert.NotContains(t, keys, "path")
}

func TestToValidationEnvelope(t *testing.T) {
	err := Validation().Add("email", "invalid email", "a@").Err()
	appErr, _ := From(err)

	env := appErr.ToValidationEnvelope(WithPath("/signup"))
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, "Validation error", env.Message)
	assert.Equal(t, "/signup", env.Path)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "a@", env.Errors[0].RejectedValue)

	empty := New(errcode.ValidationError, "").ToValidationEnvelope()
	assert.NotNil(t, empty.Errors)
	assert.Empty(t, empty.Errors)
}

func TestResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   any
		wantCode   string
	}{
		{
			name:       "domain error",
			err:        InvalidTransition(lifecycle.Shipped, lifecycle.Cancelled),
			wantStatus: http.StatusConflict,
			wantType:   envelope.ErrorEnvelope{},
			wantCode:   "ERR-5005",
		},
		{
			name:       "validation error",
			err:        MissingParameter("customerId"),
			wantStatus: http.StatusBadRequest,
			wantType:   envelope.ValidationErrorEnvelope{},
		},
		{
			name:       "foreign error hides text",
			err:        errors.New("pq: password authentication failed"),
			wantStatus: http.StatusInternalServerError,
			wantType:   envelope.ErrorEnvelope{},
			wantCode:   "ERR-1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Response(tt.err, WithPath("/x"))
			assert.Equal(t, tt.wantStatus, status)
			assert.IsType(t, tt.wantType, body)
			if env, ok := body.(envelope.ErrorEnvelope); ok {
				assert.Equal(t, tt.wantCode, env.ErrorCode)
				assert.Equal(t, "/x", env.Path)
				assert.NotContains(t, env.Message, "pq:")
				assert.NotContains(t, env.Details, "pq:")
			}
		})
	}
}

func TestFromEnvelope(t *testing.T) {
	t.Run("known code", func(t *testing.T) {
		original := OrderCannotBeCancelled("o-1", lifecycle.Shipped)
		restored := FromEnvelope(original.ToEnvelope())

		assert.True(t, errors.Is(restored, original))
		assert.Equal(t, original.Details(), restored.Details())
		assert.Equal(t, original.Message(), restored.Message())
		assert.Equal(t, http.StatusConflict, restored.HTTPStatus())
	})

	t.Run("unknown code is preserved", func(t *testing.T) {
		restored := FromEnvelope(envelope.ErrorEnvelope{
			Status:    http.StatusTeapot,
			ErrorCode: "ERR-8001",
			Message:   "Brewing failed",
		})
		assert.Equal(t, errcode.Code("ERR-8001"), restored.Code())
		assert.Equal(t, http.StatusTeapot, restored.HTTPStatus())
		assert.Equal(t, "Brewing failed", restored.Message())
	})

	t.Run("localized message is kept", func(t *testing.T) {
		restored := FromEnvelope(envelope.ErrorEnvelope{
			Status:    http.StatusNotFound,
			ErrorCode: "ERR-5000",
			Message:   "Commande introuvable",
		})
		assert.Equal(t, errcode.OrderNotFound, restored.Code())
		assert.Equal(t, "Commande introuvable", restored.Message())
	})
}

func TestFromValidationEnvelope(t *testing.T) {
	env := envelope.NewValidationErrorEnvelope(http.StatusBadRequest, "Validation error", []envelope.FieldError{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "invalid"},
	})

	restored := FromValidationEnvelope(env)
	assert.Equal(t, errcode.ValidationError, restored.Code())
	assert.Equal(t, "Validation error", restored.Message())
	require.Len(t, restored.FieldErrors(), 2)
	assert.Equal(t, "phone", restored.FieldErrors()[1].Field)
}

func TestScenarioConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err  *Error
		code errcode.Code
	}{
		{NotFound("Product", "sku", "A-1"), errcode.ResourceNotFound},
		{UserNotFound("u-1"), errcode.UserNotFound},
		{UserNotFoundByEmail("a@b.co"), errcode.UserNotFound},
		{OrderNotFound("o-1"), errcode.OrderNotFound},
		{OrderNotFoundByNumber("N-1"), errcode.OrderNotFound},
		{InvalidParameter("size", "must be positive"), errcode.ValidationError},
		{MissingParameter("id"), errcode.ValidationError},
		{InvalidEmail("bad"), errcode.InvalidEmail},
		{WeakPassword(), errcode.WeakPassword},
		{AlreadyExists("User", "email", "a@b.co"), errcode.DuplicateEntry},
		{InvalidCredentials(), errcode.InvalidCredentials},
		{TokenExpired(), errcode.TokenExpired},
		{InvalidToken(), errcode.TokenInvalid},
		{MissingToken(), errcode.UnauthorizedAccess},
		{InsufficientPermissions(), errcode.InsufficientPermissions},
		{AdminOnly(), errcode.InsufficientPermissions},
		{ResourceAccess("order o-1"), errcode.AccessDenied},
		{OperationNotAllowed("purge"), errcode.ForbiddenOperation},
		{Internal("unexpected", cause), errcode.InternalServerError},
		{DatabaseError("insert order", cause), errcode.DatabaseError},
		{ServiceUnavailable("billing"), errcode.ServiceUnavailable},
		{ServiceTimeout("billing"), errcode.ServiceTimeout},
		{CommunicationError("billing", "EOF"), errcode.CommunicationError},
		{InvalidTransition(lifecycle.Pending, lifecycle.Delivered), errcode.OrderStatusTransitionInvalid},
		{OrderAlreadyCancelled("o-1"), errcode.OrderAlreadyCancelled},
		{OrderCannotBeCancelled("o-1", lifecycle.Shipped), errcode.OrderCannotBeCancelled},
		{InvalidOrderStatus("LOST"), errcode.InvalidOrderStatus},
		{InvalidOrderAmount(-1), errcode.InvalidOrderAmount},
	}

	for _, tt := range tests {
		t.Run(string(tt.code)+" "+tt.err.Details(), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code())
			assert.NotEmpty(t, tt.err.Details())
			assert.Equal(t, tt.code.HTTPStatus(), tt.err.HTTPStatus())
		})
	}

	assert.Equal(t, "Cannot change order status from PENDING to DELIVERED",
		InvalidTransition(lifecycle.Pending, lifecycle.Delivered).Details())
	assert.ErrorIs(t, DatabaseError("insert order", cause), cause)
}
