package envelope

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = prev })
}

func decodeKeys(t *testing.T, v any) map[string]json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &keys))
	return keys
}

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestSuccess_DefaultMessage(t *testing.T) {
	freezeClock(t)

	env := Success(item{ID: "1", Name: "book"})
	assert.True(t, env.Success)
	assert.Equal(t, DefaultSuccessMessage, env.Message)
	require.True(t, env.HasData())
	assert.Equal(t, "book", env.Data.Name)
	assert.Equal(t, fixedNow, env.Timestamp)

	custom := Success(42, "created")
	assert.Equal(t, "created", custom.Message)
	assert.Equal(t, 42, *custom.Data)
}

func TestSuccessMessage_OmitsData(t *testing.T) {
	freezeClock(t)

	keys := decodeKeys(t, SuccessMessage("deleted"))
	assert.Contains(t, keys, "success")
	assert.Contains(t, keys, "message")
	assert.Contains(t, keys, "timestamp")
	assert.NotContains(t, keys, "data")
	assert.NotContains(t, keys, "path")
	assert.JSONEq(t, `"2024-03-01T12:30:00Z"`, string(keys["timestamp"]))
}

func TestError_Envelope(t *testing.T) {
	env := Error[any]("boom")
	assert.False(t, env.Success)
	assert.Equal(t, "boom", env.Message)
	assert.False(t, env.HasData())
	assert.NotContains(t, decodeKeys(t, env), "data")

	withData := Error("partial", []string{"a"})
	assert.False(t, withData.Success)
	require.True(t, withData.HasData())
	assert.Equal(t, []string{"a"}, *withData.Data)
}

func TestSuccess_NilDataIsAbsent(t *testing.T) {
	var list []item
	var ptr *item
	var m map[string]int

	assert.NotContains(t, decodeKeys(t, Success(list)), "data")
	assert.NotContains(t, decodeKeys(t, Success(ptr)), "data")
	assert.NotContains(t, decodeKeys(t, Success(m)), "data")
	assert.NotContains(t, decodeKeys(t, Success[any](nil)), "data")

	// Пустой, но не nil срез — это данные.
	assert.Contains(t, decodeKeys(t, Success([]item{})), "data")
	// Нулевое значение скаляра — тоже данные.
	assert.Contains(t, decodeKeys(t, Success(0)), "data")
}

func TestEnvelope_RoundTrip(t *testing.T) {
	freezeClock(t)

	env := Success(item{ID: "7", Name: "pen"}).WithPath("/api/v1/items/7")
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope[item]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, env, decoded)

	noData := SuccessMessage("ok")
	raw, err = json.Marshal(noData)
	require.NoError(t, err)
	var decodedNoData Envelope[item]
	require.NoError(t, json.Unmarshal(raw, &decodedNoData))
	assert.Nil(t, decodedNoData.Data)
	assert.True(t, decodedNoData.Success)
}

func TestWithPath_ReturnsCopy(t *testing.T) {
	base := Success("x")
	withPath := base.WithPath("/a")
	assert.Empty(t, base.Path)
	assert.Equal(t, "/a", withPath.Path)
}

func TestErrorEnvelope_Shape(t *testing.T) {
	freezeClock(t)

	keys := decodeKeys(t, NewErrorEnvelope(404, "ERR-5000", "Order not found", ""))
	for _, key := range []string{"status", "errorCode", "message", "timestamp"} {
		assert.Contains(t, keys, key)
	}
	assert.NotContains(t, keys, "details")
	assert.NotContains(t, keys, "path")

	withDetails := NewErrorEnvelope(404, "ERR-5000", "Order not found", "id=1")
	withDetails.Path = "/orders/1"
	keys = decodeKeys(t, withDetails)
	assert.JSONEq(t, `"id=1"`, string(keys["details"]))
	assert.JSONEq(t, `"/orders/1"`, string(keys["path"]))
}

func TestValidationErrorEnvelope_Shape(t *testing.T) {
	env := NewValidationErrorEnvelope(400, "Validation error", nil)
	keys := decodeKeys(t, env)
	assert.JSONEq(t, `[]`, string(keys["errors"]))

	env.AddFieldError("email", "invalid email", "bad@")
	env.AddFieldError("name", "required")
	raw, err := json.Marshal(env.Errors)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"field":"email","message":"invalid email","rejectedValue":"bad@"},
		{"field":"name","message":"required"}
	]`, string(raw))
}
