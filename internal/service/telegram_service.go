package service

import (
	"encoding/json"
	"fmt"

	"eventdesk/internal/domain"
	"eventdesk/internal/events"
	"eventdesk/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramService pushes operator alerts into the configured chats. It is
// plugged into the event bus so the request flow never blocks on Telegram.
type TelegramService struct {
	bot        domain.TelegramSender
	alertChats []int64
	logger     *zerolog.Logger
}

func NewTelegramService(bot domain.TelegramSender, alertChats []int64, logger *zerolog.Logger) *TelegramService {
	return &TelegramService{
		bot:        bot,
		alertChats: alertChats,
		logger:     logger,
	}
}

func (s *TelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return s.bot.Send(tgbotapi.NewMessage(chatID, text))
}

// Broadcast delivers the text to every alert chat. Failures are logged per
// chat; one dead chat doesn't silence the rest.
func (s *TelegramService) Broadcast(text string) {
	for _, chatID := range s.alertChats {
		if _, err := s.SendMessage(chatID, text); err != nil {
			s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send alert")
		}
	}
}

// SubscribeToEvents wires the alert handlers into the bus.
func (s *TelegramService) SubscribeToEvents(bus *events.EventBus) {
	bus.Subscribe(events.EventRequestCreated, s.handleRequestCreated)
	bus.Subscribe(events.EventRequestStatusChanged, s.handleStatusChanged)
}

func (s *TelegramService) handleRequestCreated(event *events.Event) error {
	var payload events.RequestEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	kind := "Contact request"
	if payload.RequestType == models.RequestTypeQuote {
		kind = "Quote request"
	}
	text := fmt.Sprintf("📥 %s from %s <%s>", kind, payload.Name, payload.Email)
	if payload.Subject != "" {
		text += fmt.Sprintf("\nSubject: %s", payload.Subject)
	}
	s.Broadcast(text)
	return nil
}

func (s *TelegramService) handleStatusChanged(event *events.Event) error {
	var payload events.RequestEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	s.Broadcast(fmt.Sprintf("🔁 %s request %s → %s",
		payload.RequestType, payload.RequestID, models.StatusLabel(payload.Status)))
	return nil
}
