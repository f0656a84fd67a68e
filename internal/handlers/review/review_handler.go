// Package review drives the chat conversation that approves, edits or
// cancels a review before it is written to the ledger.
package review

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/ArturZahn/OBBot/internal/chat"
	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/ArturZahn/OBBot/internal/repository"
	"github.com/ArturZahn/OBBot/internal/state"
	"go.uber.org/zap"
)

type ReviewStore interface {
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	GetByMessage(ctx context.Context, chatID int64, messageID int) (*models.Review, error)
	ListByStatus(ctx context.Context, status models.ReviewStatus, limit int) ([]models.Review, error)
	ListUndelivered(ctx context.Context, limit int) ([]models.Review, error)
	MarkAwaiting(ctx context.Context, id, chatID int64, messageID int) error
	UpdateMessage(ctx context.Context, id, chatID int64, messageID int) error
	Approve(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
	SetFinalCategory(ctx context.Context, id int64, category string) error
	SetFinalDescription(ctx context.Context, id int64, description string) error
	SetError(ctx context.Context, id int64, msg string) error
}

type TransactionStore interface {
	Get(ctx context.Context, id string) (*models.Transaction, error)
}

type Handler struct {
	platform     chat.Platform
	reviews      ReviewStore
	transactions TransactionStore
	screens      state.Manager
	chatID       int64
	logger       *zap.Logger

	mu         sync.RWMutex
	categories []string
}

func NewHandler(
	platform chat.Platform,
	reviews ReviewStore,
	transactions TransactionStore,
	screens state.Manager,
	chatID int64,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		platform:     platform,
		reviews:      reviews,
		transactions: transactions,
		screens:      screens,
		chatID:       chatID,
		logger:       logger,
	}
}

// SetCategories replaces the options of the category picker. Blank,
// repeated or too long names are skipped with a warning; the call fails only
// when nothing usable is left, and then the previous list stays.
func (h *Handler) SetCategories(categories []string) error {
	seen := make(map[string]bool, len(categories))
	list := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		switch {
		case c == "":
			continue
		case seen[c]:
			h.logger.Warn("skipping duplicate category", zap.String("category", c))
			continue
		case len(encodeCategory(math.MaxInt64, c)) > maxCallbackData:
			h.logger.Warn("skipping category too long for a button", zap.String("category", c))
			continue
		}
		seen[c] = true
		list = append(list, c)
	}
	if len(list) == 0 {
		return errors.New("category list is empty")
	}

	h.mu.Lock()
	h.categories = list
	h.mu.Unlock()
	return nil
}

func (h *Handler) Categories() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.categories...)
}

func (h *Handler) hasCategory(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.categories {
		if c == name {
			return true
		}
	}
	return false
}

// SendPending delivers up to limit pending reviews, then redisplays reviews
// whose last screen failed to reach the chat. It returns how many messages
// were sent. A failed send keeps the review retryable with the error recorded.
func (h *Handler) SendPending(ctx context.Context, limit int) (int, error) {
	pending, err := h.reviews.ListByStatus(ctx, models.ReviewPendingSend, limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range pending {
		r := &pending[i]
		log := h.logger.With(zap.Int64("review_id", r.ID), zap.String("transaction_id", r.TransactionID))

		tx, err := h.transactions.Get(ctx, r.TransactionID)
		if err != nil {
			log.Error("failed to load transaction", zap.Error(err))
			continue
		}

		messageID, err := h.platform.Send(ctx, h.chatID, reviewText(r, tx), reviewKeyboard(r))
		if err != nil {
			log.Warn("failed to send review", zap.Error(err))
			if err := h.reviews.SetError(ctx, r.ID, err.Error()); err != nil {
				log.Error("failed to record send error", zap.Error(err))
			}
			continue
		}

		if err := h.reviews.MarkAwaiting(ctx, r.ID, h.chatID, messageID); err != nil {
			log.Error("failed to mark review awaiting", zap.Error(err))
			continue
		}
		sent++
	}

	undelivered, err := h.reviews.ListUndelivered(ctx, limit)
	if err != nil {
		return sent, err
	}
	for i := range undelivered {
		if h.redisplay(ctx, &undelivered[i]) {
			sent++
		}
	}
	return sent, nil
}

// redisplay puts the main screen back for a review whose last replacement was
// lost, so its buttons are reachable again.
func (h *Handler) redisplay(ctx context.Context, r *models.Review) bool {
	tx, err := h.transactions.Get(ctx, r.TransactionID)
	if err != nil {
		h.logger.Error("failed to load transaction", zap.Int64("review_id", r.ID), zap.Error(err))
		return false
	}
	if !h.replace(ctx, r, int(r.MessageID.Int64), reviewText(r, tx), reviewKeyboard(r)) {
		return false
	}
	h.setScreen(ctx, r.ID, state.ScreenMain)
	h.logger.Info("review redisplayed", zap.Int64("review_id", r.ID))
	return true
}

// resolve finds the review behind a chat message. The id in the payload must
// match the review linked to the message.
func (h *Handler) resolve(ctx context.Context, chatID int64, messageID int, reviewID int64) (*models.Review, bool) {
	if chatID != h.chatID {
		h.logger.Debug("ignoring message from foreign chat", zap.Int64("chat_id", chatID))
		return nil, false
	}

	r, err := h.reviews.GetByMessage(ctx, chatID, messageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		h.logger.Error("failed to resolve review", zap.Error(err))
		return nil, false
	}

	if reviewID != 0 && r.ID != reviewID {
		h.logger.Debug("callback does not match linked review",
			zap.Int64("review_id", r.ID), zap.Int64("payload_review_id", reviewID))
		return nil, false
	}
	if !r.Status.Interactive() {
		return nil, false
	}
	return r, true
}

// replace deletes the message on display and sends text in its place, then
// links the review to the new message. It reports whether the new message
// was sent; on failure the error is kept on the review for SendPending.
func (h *Handler) replace(ctx context.Context, r *models.Review, oldMessageID int, text string, keyboard chat.Keyboard) bool {
	log := h.logger.With(zap.Int64("review_id", r.ID))

	if err := h.platform.Delete(ctx, h.chatID, oldMessageID); err != nil {
		log.Warn("failed to delete message", zap.Int("message_id", oldMessageID), zap.Error(err))
	}

	messageID, err := h.platform.Send(ctx, h.chatID, text, keyboard)
	if err != nil {
		log.Error("failed to send replacement", zap.Error(err))
		if err := h.reviews.SetError(ctx, r.ID, err.Error()); err != nil {
			log.Error("failed to record send error", zap.Error(err))
		}
		return false
	}

	if err := h.reviews.UpdateMessage(ctx, r.ID, h.chatID, messageID); err != nil {
		log.Error("failed to link message", zap.Error(err))
	}
	return true
}

// showMain redisplays the review with its action buttons.
func (h *Handler) showMain(ctx context.Context, reviewID int64, oldMessageID int) {
	r, tx, err := h.load(ctx, reviewID)
	if err != nil {
		h.logger.Error("failed to load review", zap.Int64("review_id", reviewID), zap.Error(err))
		return
	}
	if h.replace(ctx, r, oldMessageID, reviewText(r, tx), reviewKeyboard(r)) {
		h.setScreen(ctx, r.ID, state.ScreenMain)
	}
}

func (h *Handler) load(ctx context.Context, reviewID int64) (*models.Review, *models.Transaction, error) {
	r, err := h.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, nil, err
	}
	tx, err := h.transactions.Get(ctx, r.TransactionID)
	if err != nil {
		return nil, nil, err
	}
	return r, tx, nil
}

func (h *Handler) setScreen(ctx context.Context, reviewID int64, screen state.Screen) {
	if err := h.screens.SetScreen(ctx, reviewID, screen); err != nil {
		h.logger.Error("failed to save screen", zap.Int64("review_id", reviewID), zap.Error(err))
	}
}
