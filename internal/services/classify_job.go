package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/ArturZahn/OBBot/internal/repository"
	"go.uber.org/zap"
)

type ClassifyResult struct {
	Reviews int
	Ignored int
}

type ClassifyJob struct {
	txs        TransactionStore
	reviews    ReviewStore
	ledger     Ledger
	classifier Classifier
	limit      int
	logger     *zap.Logger
}

func NewClassifyJob(txs TransactionStore, reviews ReviewStore, ledger Ledger, classifier Classifier, limit int, logger *zap.Logger) *ClassifyJob {
	return &ClassifyJob{
		txs:        txs,
		reviews:    reviews,
		ledger:     ledger,
		classifier: classifier,
		limit:      limit,
		logger:     logger,
	}
}

// Run classifies new transactions oldest first. Each one either gets a
// pending review or is ignored.
func (j *ClassifyJob) Run(ctx context.Context) (ClassifyResult, error) {
	var result ClassifyResult

	txs, err := j.txs.ListByStatus(ctx, models.TxStatusNew, j.limit)
	if err != nil {
		return result, err
	}
	if len(txs) == 0 {
		return result, nil
	}

	payers, err := j.ledger.PayerNicknames(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load payer names: %w", err)
	}

	for _, tx := range txs {
		log := j.logger.With(zap.String("transaction_id", tx.ID))
		c := j.classifier.Classify(tx, payers)

		if c.Kind == models.KindIgnore {
			err := j.txs.SetStatus(ctx, tx.ID, models.TxStatusNew, models.TxStatusIgnored)
			if err != nil {
				if errors.Is(err, repository.ErrStaleStatus) {
					continue
				}
				return result, err
			}
			result.Ignored++
			continue
		}

		review, err := j.reviews.CreateForTransaction(ctx, models.Review{
			TransactionID:        tx.ID,
			Kind:                 c.Kind,
			SuggestedDescription: optional(c.SuggestedDescription),
			SuggestedCategory:    optional(c.SuggestedCategory),
			SuggestedNickname:    optional(c.SuggestedNickname),
		})
		if err != nil {
			if errors.Is(err, repository.ErrStaleStatus) {
				continue
			}
			return result, err
		}
		log.Debug("review created", zap.Int64("review_id", review.ID), zap.String("kind", string(c.Kind)))
		result.Reviews++
	}

	j.logger.Info("classify done", zap.Int("reviews", result.Reviews), zap.Int("ignored", result.Ignored))
	return result, nil
}

func optional(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
