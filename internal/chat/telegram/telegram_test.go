package telegram

import (
	"testing"

	"github.com/ArturZahn/OBBot/internal/chat"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEventCallback(t *testing.T) {
	ev, ok := ToEvent(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		Data:    "APPROVE:3",
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: 42}},
	}})
	require.True(t, ok)
	assert.Equal(t, &chat.Callback{ID: "cb1", ChatID: 42, MessageID: 10, Data: "APPROVE:3"}, ev.Callback)
}

func TestToEventReply(t *testing.T) {
	ev, ok := ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID:      11,
		Chat:           &tgbotapi.Chat{ID: 42},
		Text:           "Mercado da semana",
		ReplyToMessage: &tgbotapi.Message{MessageID: 10},
	}})
	require.True(t, ok)
	require.NotNil(t, ev.Text)
	assert.Equal(t, 10, ev.Text.ReplyToMessageID)
	assert.Equal(t, "Mercado da semana", ev.Text.Text)
}

func TestToEventCommand(t *testing.T) {
	ev, ok := ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 42},
		Text:      "/help",
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 5}},
	}})
	require.True(t, ok)
	require.NotNil(t, ev.Command)
	assert.Equal(t, "help", ev.Command.Name)
}

func TestToEventSkipsUnsupported(t *testing.T) {
	_, ok := ToEvent(tgbotapi.Update{})
	assert.False(t, ok)

	_, ok = ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}})
	assert.False(t, ok)

	_, ok = ToEvent(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "x", Data: "y"}})
	assert.False(t, ok)
}

func TestMarkup(t *testing.T) {
	markup := Markup(chat.Keyboard{
		{{Text: "❌", Data: "CANCEL:1"}, {Text: "✅", Data: "APPROVE:1"}},
	})
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "✅", markup.InlineKeyboard[0][1].Text)
	require.NotNil(t, markup.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "APPROVE:1", *markup.InlineKeyboard[0][1].CallbackData)
}
