package lifecycle

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition_Table(t *testing.T) {
	legal := map[[2]Status]bool{
		{Pending, Confirmed}:   true,
		{Pending, Cancelled}:   true,
		{Confirmed, Shipped}:   true,
		{Confirmed, Cancelled}: true,
		{Shipped, Delivered}:   true,
	}

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			want := legal[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s.CanTransitionTo(%s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransition_FinalStatusesAreClosed(t *testing.T) {
	for _, from := range Statuses() {
		if !from.IsFinal() {
			continue
		}
		for _, to := range Statuses() {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
		assert.False(t, CanTransition(from, Status("SOMETHING")))
		assert.Empty(t, AllowedTargets(from))
	}
}

func TestCanTransition_HappyPath(t *testing.T) {
	path := []Status{Initial(), Confirmed, Shipped, Delivered}
	for i := 0; i < len(path)-1; i++ {
		require.True(t, CanTransition(path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
	}
	assert.False(t, CanTransition(Shipped, Cancelled))
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	unknown := Status("LOST")
	assert.False(t, CanTransition(unknown, Pending))
	assert.False(t, CanTransition(Pending, unknown))
	assert.False(t, unknown.Valid())
	assert.False(t, IsFinal(unknown))
	assert.False(t, IsCancellable(unknown))
	assert.Empty(t, unknown.Label())
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		status      Status
		code        string
		label       string
		final       bool
		cancellable bool
	}{
		{Pending, "PENDING", "Pending", false, true},
		{Confirmed, "CONFIRMED", "Confirmed", false, true},
		{Shipped, "SHIPPED", "Shipped", false, false},
		{Delivered, "DELIVERED", "Delivered", true, false},
		{Cancelled, "CANCELED", "Cancelled", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.True(t, tt.status.Valid())
			assert.Equal(t, tt.code, tt.status.Code())
			assert.Equal(t, tt.code, tt.status.String())
			assert.Equal(t, tt.label, tt.status.Label())
			assert.Equal(t, tt.final, tt.status.IsFinal())
			assert.Equal(t, tt.cancellable, tt.status.IsCancellable())
		})
	}
}

func TestAllowedTargets(t *testing.T) {
	assert.Equal(t, []Status{Confirmed, Cancelled}, AllowedTargets(Pending))
	assert.Equal(t, []Status{Shipped, Cancelled}, AllowedTargets(Confirmed))
	assert.Equal(t, []Status{Delivered}, AllowedTargets(Shipped))

	targets := AllowedTargets(Pending)
	targets[0] = Delivered
	assert.True(t, CanTransition(Pending, Confirmed))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"PENDING", Pending},
		{"pending", Pending},
		{" Shipped ", Shipped},
		{"canceled", Cancelled},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseStatus("CANCELLED")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
	_, err = ParseStatus("")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestStatus_JSON(t *testing.T) {
	type payload struct {
		Status Status `json:"status"`
	}

	raw, err := json.Marshal(payload{Status: Cancelled})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"CANCELED"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"status":"confirmed"}`), &decoded))
	assert.Equal(t, Confirmed, decoded.Status)

	err = json.Unmarshal([]byte(`{"status":"lost"}`), &decoded)
	assert.True(t, errors.Is(err, ErrUnknownStatus))

	_, err = json.Marshal(payload{Status: "lost"})
	assert.Error(t, err)
}

func TestStatuses_ReturnsCopy(t *testing.T) {
	list := Statuses()
	require.Len(t, list, 5)
	list[0] = Delivered
	assert.Equal(t, Pending, Statuses()[0])
	assert.Equal(t, Pending, Initial())
}
