package echo_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger"
	"github.com/isometry/messenger-echo-bot/internal/controllers/messenger/event"
	"github.com/isometry/messenger-echo-bot/internal/echo"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_ForEvent(t *testing.T) {
	parent := &echo.Bus{
		Ctx:     context.Background(),
		Body:    []byte(`{"object":"page"}`),
		Headers: map[string]string{"content-type": "application/json"},
	}
	e := &event.Event{SenderID: "U", RecipientID: "P", Timestamp: 7, Payload: &event.Read{Watermark: 1}}

	bus := parent.ForEvent("PAGE", e, helpers.NewNoopLogger())
	require.NotNil(t, bus.Context)
	assert.Equal(t, parent.Ctx, bus.Ctx)
	assert.Equal(t, parent.Body, bus.Body)
	assert.Equal(t, e, bus.Event)
	assert.Equal(t, event.CategoryRead, bus.Context.Category)
	assert.NotNil(t, bus.Context.Logger)

	value := bus.LogValue()
	assert.Equal(t, slog.KindGroup, value.Kind())
	attrs := map[string]string{}
	for _, a := range value.Group() {
		attrs[a.Key] = a.Value.String()
	}
	assert.Equal(t, map[string]string{
		"category":  "read",
		"page":      "PAGE",
		"sender":    "U",
		"recipient": "P",
		"timestamp": "7",
	}, attrs)
}

func TestBus_Record(t *testing.T) {
	bus := &echo.Bus{}
	bus.Record(messenger.SendResult{MessageID: "m"})
	assert.Equal(t, echo.Success, bus.EventStatus)

	bus.Record(messenger.SendResult{Err: errors.New("boom")})
	assert.Equal(t, echo.Failure, bus.EventStatus)

	bus.Record(messenger.SendResult{})
	assert.Equal(t, echo.Failure, bus.EventStatus, "a failure is sticky")
	assert.Len(t, bus.SendResults, 3)
}

func TestInternalError(t *testing.T) {
	err := echo.NewInternalError("unexpected payload %T", 1)
	assert.EqualError(t, err, "echo error: unexpected payload int")

	var internal *echo.InternalError
	assert.True(t, errors.As(echo.WrapInternalError(errors.New("root"), "context"), &internal))
	assert.Nil(t, echo.WrapInternalError(nil, "context"))
}
