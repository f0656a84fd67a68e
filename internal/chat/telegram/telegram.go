// Package telegram adapts the Telegram Bot API to the chat interfaces.
package telegram

import (
	"context"
	"fmt"
	"sync"

	"github.com/ArturZahn/OBBot/internal/chat"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const updateTimeout = 60

type Bot struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger

	once sync.Once
	stop chan struct{}
}

func New(token string, debug bool, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = debug
	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	return &Bot{
		api:    api,
		logger: logger,
		stop:   make(chan struct{}),
	}, nil
}

func (b *Bot) Send(_ context.Context, chatID int64, text string, keyboard chat.Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(keyboard) > 0 {
		msg.ReplyMarkup = Markup(keyboard)
	}

	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sent.MessageID, nil
}

func (b *Bot) Delete(_ context.Context, chatID int64, messageID int) error {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (b *Bot) AnswerCallback(_ context.Context, callbackID, text string) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// Events starts long polling and converts updates until Stop.
func (b *Bot) Events() <-chan chat.Event {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(u)
	out := make(chan chat.Event)

	go func() {
		defer close(out)
		for update := range updates {
			ev, ok := ToEvent(update)
			if !ok {
				continue
			}
			select {
			case out <- ev:
			case <-b.stop:
				return
			}
		}
	}()

	return out
}

func (b *Bot) Stop() {
	b.once.Do(func() {
		close(b.stop)
		b.api.StopReceivingUpdates()
	})
}

// ToEvent keeps the parts of an update the review flow understands.
func ToEvent(update tgbotapi.Update) (chat.Event, bool) {
	if q := update.CallbackQuery; q != nil {
		if q.Message == nil || q.Message.Chat == nil {
			return chat.Event{}, false
		}
		return chat.Event{Callback: &chat.Callback{
			ID:        q.ID,
			ChatID:    q.Message.Chat.ID,
			MessageID: q.Message.MessageID,
			Data:      q.Data,
		}}, true
	}

	m := update.Message
	if m == nil || m.Chat == nil || m.Text == "" {
		return chat.Event{}, false
	}

	if m.IsCommand() {
		return chat.Event{Command: &chat.Command{
			ChatID:    m.Chat.ID,
			MessageID: m.MessageID,
			Name:      m.Command(),
			Args:      m.CommandArguments(),
		}}, true
	}

	text := &chat.Text{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if m.ReplyToMessage != nil {
		text.ReplyToMessageID = m.ReplyToMessage.MessageID
	}
	return chat.Event{Text: text}, true
}

func Markup(keyboard chat.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
