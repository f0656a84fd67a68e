package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/jmoiron/sqlx"
)

const reviewColumns = `id, transaction_id, kind, status, suggested_description, suggested_category, suggested_nickname, final_description, final_category, final_nickname, chat_id, message_id, last_error, created_at, updated_at`

const reviewExists = `SELECT COUNT(*) FROM reviews WHERE id = ?`

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateForTransaction inserts a pending_send review and marks its transaction
// classified in one database transaction.
func (r *ReviewRepository) CreateForTransaction(ctx context.Context, review models.Review) (*models.Review, error) {
	dbTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin review creation: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx, dbTx.Rebind(`UPDATE transactions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`),
		models.TxStatusClassified, review.TransactionID, models.TxStatusNew)
	if err != nil {
		return nil, fmt.Errorf("failed to classify transaction: %w", err)
	}
	if err := checkSwapped(ctx, dbTx, res, `SELECT COUNT(*) FROM transactions WHERE id = ?`, review.TransactionID); err != nil {
		return nil, err
	}

	var id int64
	err = dbTx.QueryRowxContext(ctx, dbTx.Rebind(`INSERT INTO reviews (transaction_id, kind, status, suggested_description, suggested_category, suggested_nickname) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		review.TransactionID, review.Kind, models.ReviewPendingSend, review.SuggestedDescription, review.SuggestedCategory, review.SuggestedNickname,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	created := &models.Review{}
	if err := dbTx.GetContext(ctx, created, dbTx.Rebind(`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`), id); err != nil {
		return nil, fmt.Errorf("failed to read created review: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit review creation: %w", err)
	}
	return created, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	return r.getOne(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)
}

// GetByMessage finds the review whose active chat message is (chatID, messageID).
func (r *ReviewRepository) GetByMessage(ctx context.Context, chatID int64, messageID int) (*models.Review, error) {
	return r.getOne(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE chat_id = ? AND message_id = ? ORDER BY id DESC LIMIT 1`, chatID, messageID)
}

func (r *ReviewRepository) getOne(ctx context.Context, query string, args ...any) (*models.Review, error) {
	review := &models.Review{}
	err := r.db.GetContext(ctx, review, r.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// ListByStatus returns reviews in creation order. limit <= 0 means all.
func (r *ReviewRepository) ListByStatus(ctx context.Context, status models.ReviewStatus, limit int) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE status = ? ORDER BY created_at ASC, id ASC`
	args := []any{status}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// MarkAwaiting links the first delivered message and hands the review to the user.
func (r *ReviewRepository) MarkAwaiting(ctx context.Context, id, chatID int64, messageID int) error {
	return r.transition(ctx, r.db, id, models.ReviewPendingSend, models.ReviewAwaitingUser,
		`chat_id = ?, message_id = ?, last_error = NULL`, chatID, messageID)
}

// ListUndelivered returns reviews waiting on the user whose last screen never
// reached the chat.
func (r *ReviewRepository) ListUndelivered(ctx context.Context, limit int) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE status = ? AND last_error IS NOT NULL ORDER BY updated_at ASC, id ASC`
	args := []any{models.ReviewAwaitingUser}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list undelivered reviews: %w", err)
	}
	return reviews, nil
}

// UpdateMessage relinks the review to its latest chat message and clears the
// delivery error. Status is left alone.
func (r *ReviewRepository) UpdateMessage(ctx context.Context, id, chatID int64, messageID int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE reviews SET chat_id = ?, message_id = ?, last_error = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`), chatID, messageID, id)
	if err != nil {
		return fmt.Errorf("failed to update review message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update review message: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Approve copies missing final fields from the suggestions and approves.
func (r *ReviewRepository) Approve(ctx context.Context, id int64) error {
	return r.transition(ctx, r.db, id, models.ReviewAwaitingUser, models.ReviewApproved,
		`final_description = COALESCE(final_description, suggested_description), final_category = COALESCE(final_category, suggested_category), final_nickname = COALESCE(final_nickname, suggested_nickname)`)
}

func (r *ReviewRepository) Cancel(ctx context.Context, id int64) error {
	return r.transition(ctx, r.db, id, models.ReviewAwaitingUser, models.ReviewCancelled, "")
}

func (r *ReviewRepository) SetFinalCategory(ctx context.Context, id int64, category string) error {
	return r.transition(ctx, r.db, id, models.ReviewAwaitingUser, models.ReviewAwaitingUser, `final_category = ?`, category)
}

func (r *ReviewRepository) SetFinalDescription(ctx context.Context, id int64, description string) error {
	return r.transition(ctx, r.db, id, models.ReviewAwaitingUser, models.ReviewAwaitingUser, `final_description = ?`, description)
}

// SetError records a delivery problem without changing status.
func (r *ReviewRepository) SetError(ctx context.Context, id int64, msg string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE reviews SET last_error = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`), msg, id)
	if err != nil {
		return fmt.Errorf("failed to record review error: %w", err)
	}
	return nil
}

// MarkWritten finishes an approved review and sends its transaction.
func (r *ReviewRepository) MarkWritten(ctx context.Context, id int64) error {
	return r.finish(ctx, id, models.ReviewWritten, models.TxStatusSent, sql.NullString{})
}

// MarkFailed finishes an approved review with an error and bumps the
// transaction's attempts.
func (r *ReviewRepository) MarkFailed(ctx context.Context, id int64, msg string) error {
	return r.finish(ctx, id, models.ReviewFailed, models.TxStatusFailed, sql.NullString{String: msg, Valid: true})
}

func (r *ReviewRepository) finish(ctx context.Context, id int64, reviewTo models.ReviewStatus, txTo models.TxStatus, lastErr sql.NullString) error {
	dbTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin review completion: %w", err)
	}
	defer dbTx.Rollback()

	if err := r.transition(ctx, dbTx, id, models.ReviewApproved, reviewTo, `last_error = ?`, lastErr); err != nil {
		return err
	}

	attempts := 0
	if reviewTo == models.ReviewFailed {
		attempts = 1
	}
	_, err = dbTx.ExecContext(ctx, dbTx.Rebind(`UPDATE transactions SET status = ?, attempts = attempts + ?, last_error = ?, updated_at = CURRENT_TIMESTAMP WHERE id = (SELECT transaction_id FROM reviews WHERE id = ?) AND status = ?`),
		txTo, attempts, lastErr, id, models.TxStatusClassified)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review completion: %w", err)
	}
	return nil
}

// transition is the compare-and-set every review status change goes through.
func (r *ReviewRepository) transition(ctx context.Context, q sqlx.ExtContext, id int64, from, to models.ReviewStatus, set string, args ...any) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("invalid review transition %s -> %s", from, to)
	}

	query := `UPDATE reviews SET status = ?, updated_at = CURRENT_TIMESTAMP`
	if set != "" {
		query += ", " + set
	}
	query += ` WHERE id = ? AND status = ?`

	params := append([]any{to}, args...)
	params = append(params, id, from)

	res, err := q.ExecContext(ctx, q.Rebind(query), params...)
	if err != nil {
		return fmt.Errorf("failed to update review %d: %w", id, err)
	}
	return checkSwapped(ctx, q, res, reviewExists, id)
}
