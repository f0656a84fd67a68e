package review

import (
	"context"

	"github.com/ArturZahn/OBBot/internal/chat"
	"go.uber.org/zap"
)

func (h *Handler) HandleCommand(ctx context.Context, cmd chat.Command) {
	if cmd.ChatID != h.chatID {
		return
	}

	var text string
	switch cmd.Name {
	case "start":
		text = startText
	case "help":
		text = helpText
	default:
		return
	}

	if _, err := h.platform.Send(ctx, cmd.ChatID, text, nil); err != nil {
		h.logger.Warn("failed to answer command", zap.String("command", cmd.Name), zap.Error(err))
	}
}
