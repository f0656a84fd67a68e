package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArturZahn/OBBot/internal/ledger"
	"github.com/ArturZahn/OBBot/internal/models"
	"go.uber.org/zap"
)

const (
	errMissingNickname = "missing nickname"
	errMissingFields   = "missing description/category"
)

type WriteResult struct {
	Written int
	Failed  int
}

type WriteJob struct {
	txs     TransactionStore
	reviews ReviewStore
	ledger  Ledger
	limit   int
	logger  *zap.Logger
}

func NewWriteJob(txs TransactionStore, reviews ReviewStore, ledger Ledger, limit int, logger *zap.Logger) *WriteJob {
	return &WriteJob{
		txs:     txs,
		reviews: reviews,
		ledger:  ledger,
		limit:   limit,
		logger:  logger,
	}
}

// Run writes approved reviews to the ledger. A failing review is marked
// failed and the rest of the batch goes on.
func (j *WriteJob) Run(ctx context.Context) (WriteResult, error) {
	var result WriteResult

	reviews, err := j.reviews.ListByStatus(ctx, models.ReviewApproved, j.limit)
	if err != nil {
		return result, err
	}

	for i := range reviews {
		r := &reviews[i]
		log := j.logger.With(zap.Int64("review_id", r.ID), zap.String("transaction_id", r.TransactionID))

		if err := j.write(ctx, r); err != nil {
			log.Warn("ledger write failed", zap.Error(err))
			if err := j.reviews.MarkFailed(ctx, r.ID, err.Error()); err != nil {
				log.Error("failed to mark review failed", zap.Error(err))
				continue
			}
			result.Failed++
			continue
		}

		if err := j.reviews.MarkWritten(ctx, r.ID); err != nil {
			log.Error("failed to mark review written", zap.Error(err))
			continue
		}
		result.Written++
	}

	if len(reviews) > 0 {
		j.logger.Info("write done", zap.Int("written", result.Written), zap.Int("failed", result.Failed))
	}
	return result, nil
}

func (j *WriteJob) write(ctx context.Context, r *models.Review) error {
	tx, err := j.txs.Get(ctx, r.TransactionID)
	if err != nil {
		return fmt.Errorf("transaction not found: %w", err)
	}

	date, err := LedgerDate(tx.OccurredAt)
	if err != nil {
		return err
	}

	if r.Kind == models.KindDeposit {
		nickname := r.Nickname()
		if nickname == "" {
			return errors.New(errMissingNickname)
		}
		return j.ledger.InsertDeposit(ctx, nickname, date, tx.Amount)
	}

	description, category := r.Description(), r.Category()
	if description == "" || category == "" {
		return errors.New(errMissingFields)
	}

	amount := tx.Amount
	if tx.Direction != models.DirectionOut {
		amount = amount.Neg()
	}
	return j.ledger.InsertSpent(ctx, date, amount, description, category)
}

// LedgerDate converts "2006-01-02 15:04" to the ledger's dd/mm/yyyy.
func LedgerDate(occurredAt string) (string, error) {
	t, err := time.Parse(occurredLayout, occurredAt)
	if err != nil {
		return "", fmt.Errorf("bad occurred_at %q: %w", occurredAt, err)
	}
	return t.Format(ledger.DateLayout), nil
}
