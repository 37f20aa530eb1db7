package service

import (
	"testing"

	"eventdesk/internal/events"
	"eventdesk/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestTelegramAlertsOnRequestCreated(t *testing.T) {
	sender := &fakeSender{}
	svc := NewTelegramService(sender, []int64{100, 200}, testLogger())
	bus := events.NewEventBus()
	svc.SubscribeToEvents(bus)

	err := bus.PublishJSON(events.EventRequestCreated, events.RequestEventPayload{
		RequestType: models.RequestTypeQuote,
		RequestID:   "req-1",
		Name:        "Ana",
		Email:       "ana@x.com",
		Subject:     "Wedding",
		Status:      models.StatusNew,
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, int64(100), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "Quote request from Ana")
	assert.Contains(t, sender.sent[0].Text, "Wedding")
}

func TestTelegramAlertsOnStatusChange(t *testing.T) {
	sender := &fakeSender{}
	svc := NewTelegramService(sender, []int64{100}, testLogger())
	bus := events.NewEventBus()
	svc.SubscribeToEvents(bus)

	err := bus.PublishJSON(events.EventRequestStatusChanged, events.RequestEventPayload{
		RequestType: models.RequestTypeContact,
		RequestID:   "req-2",
		Status:      models.StatusInReview,
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "In review")
}
