package review

import (
	"context"
	"errors"
	"strings"

	"github.com/ArturZahn/OBBot/internal/chat"
	"github.com/ArturZahn/OBBot/internal/repository"
	"github.com/ArturZahn/OBBot/internal/state"
	"go.uber.org/zap"
)

// HandleText accepts a new description only as a reply to the prompt
// currently on display for a review.
func (h *Handler) HandleText(ctx context.Context, msg chat.Text) {
	if msg.ReplyToMessageID == 0 {
		return
	}

	r, ok := h.resolve(ctx, msg.ChatID, msg.ReplyToMessageID, 0)
	if !ok {
		return
	}

	screen, err := h.screens.GetScreen(ctx, r.ID)
	if err != nil {
		h.logger.Error("failed to load screen", zap.Int64("review_id", r.ID), zap.Error(err))
		return
	}
	if screen != state.ScreenDescriptionPrompt {
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if err := h.reviews.SetFinalDescription(ctx, r.ID, text); err != nil {
		if !errors.Is(err, repository.ErrStaleStatus) {
			h.logger.Error("failed to set description", zap.Int64("review_id", r.ID), zap.Error(err))
		}
		return
	}

	if err := h.platform.Delete(ctx, msg.ChatID, msg.MessageID); err != nil {
		h.logger.Warn("failed to delete reply", zap.Error(err))
	}
	h.showMain(ctx, r.ID, msg.ReplyToMessageID)
}
