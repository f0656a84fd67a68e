package review

import (
	"context"
	"errors"

	"github.com/ArturZahn/OBBot/internal/chat"
	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/ArturZahn/OBBot/internal/repository"
	"github.com/ArturZahn/OBBot/internal/state"
	"go.uber.org/zap"
)

func (h *Handler) HandleCallback(ctx context.Context, cb chat.Callback) {
	h.answerCallback(ctx, cb.ID)

	data, ok := parseCallback(cb.Data)
	if !ok {
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	r, ok := h.resolve(ctx, cb.ChatID, cb.MessageID, data.reviewID)
	if !ok {
		return
	}

	switch data.action {
	case actionApprove:
		h.finish(ctx, r, cb.MessageID, h.reviews.Approve, statusApproved)
	case actionCancel:
		h.finish(ctx, r, cb.MessageID, h.reviews.Cancel, statusCancelled)
	case actionEditCat:
		h.showCategoryPicker(ctx, r, cb.MessageID)
	case actionEditDesc:
		h.showDescriptionPrompt(ctx, r, cb.MessageID)
	case actionCategory:
		h.pickCategory(ctx, r, cb.MessageID, data.category)
	case actionCatCancel:
		h.showMain(ctx, r.ID, cb.MessageID)
	}
}

// finish applies a terminal user decision and leaves a summary without buttons.
func (h *Handler) finish(ctx context.Context, r *models.Review, messageID int, apply func(context.Context, int64) error, status string) {
	log := h.logger.With(zap.Int64("review_id", r.ID))

	if err := apply(ctx, r.ID); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			log.Info("review already decided")
			return
		}
		log.Error("failed to apply decision", zap.Error(err))
		return
	}

	updated, tx, err := h.load(ctx, r.ID)
	if err != nil {
		log.Error("failed to load review", zap.Error(err))
		return
	}

	h.replace(ctx, updated, messageID, statusText(updated, tx, status), nil)
	if err := h.screens.ClearScreen(ctx, r.ID); err != nil {
		log.Error("failed to clear screen", zap.Error(err))
	}
	log.Info("review decided", zap.String("status", string(updated.Status)))
}

func (h *Handler) showCategoryPicker(ctx context.Context, r *models.Review, messageID int) {
	tx, err := h.transactions.Get(ctx, r.TransactionID)
	if err != nil {
		h.logger.Error("failed to load transaction", zap.Int64("review_id", r.ID), zap.Error(err))
		return
	}
	if h.replace(ctx, r, messageID, promptText(r, tx, promptCategory), categoryKeyboard(r.ID, h.Categories())) {
		h.setScreen(ctx, r.ID, state.ScreenCategoryPicker)
	}
}

func (h *Handler) showDescriptionPrompt(ctx context.Context, r *models.Review, messageID int) {
	tx, err := h.transactions.Get(ctx, r.TransactionID)
	if err != nil {
		h.logger.Error("failed to load transaction", zap.Int64("review_id", r.ID), zap.Error(err))
		return
	}
	if h.replace(ctx, r, messageID, promptText(r, tx, promptDescription), nil) {
		h.setScreen(ctx, r.ID, state.ScreenDescriptionPrompt)
	}
}

func (h *Handler) pickCategory(ctx context.Context, r *models.Review, messageID int, name string) {
	if !h.hasCategory(name) {
		h.logger.Warn("unknown category picked", zap.Int64("review_id", r.ID), zap.String("category", name))
		return
	}

	if err := h.reviews.SetFinalCategory(ctx, r.ID, name); err != nil {
		if !errors.Is(err, repository.ErrStaleStatus) {
			h.logger.Error("failed to set category", zap.Int64("review_id", r.ID), zap.Error(err))
		}
		return
	}
	h.showMain(ctx, r.ID, messageID)
}

func (h *Handler) answerCallback(ctx context.Context, callbackID string) {
	if callbackID == "" {
		return
	}
	if err := h.platform.AnswerCallback(ctx, callbackID, ""); err != nil {
		h.logger.Warn("failed to answer callback", zap.Error(err))
	}
}
