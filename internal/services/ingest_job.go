package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArturZahn/OBBot/internal/identity"
	"github.com/ArturZahn/OBBot/internal/models"
	"go.uber.org/zap"
)

const (
	CursorKey      = "ingest.last_occurred_at"
	occurredLayout = "2006-01-02 15:04"
)

type IngestResult struct {
	Scraped  int
	Inserted int
}

type IngestJob struct {
	scraper  Scraper
	txs      TransactionStore
	state    StateStore
	maxPages int
	logger   *zap.Logger
}

func NewIngestJob(scraper Scraper, txs TransactionStore, state StateStore, maxPages int, logger *zap.Logger) *IngestJob {
	return &IngestJob{
		scraper:  scraper,
		txs:      txs,
		state:    state,
		maxPages: maxPages,
		logger:   logger,
	}
}

// Run scrapes from the day of the newest stored row and inserts what is new.
func (j *IngestJob) Run(ctx context.Context) (IngestResult, error) {
	minDate, cursor, err := j.cursor(ctx)
	if err != nil {
		return IngestResult{}, err
	}

	candidates, err := j.scraper.Scrape(ctx, j.maxPages, minDate)
	if err != nil {
		return IngestResult{}, fmt.Errorf("failed to scrape: %w", err)
	}

	txs := make([]models.Transaction, 0, len(candidates))
	newest := cursor
	for _, c := range candidates {
		txs = append(txs, identity.NewTransaction(c))
		if c.OccurredAt > newest {
			newest = c.OccurredAt
		}
	}

	inserted, err := j.txs.InsertIgnore(ctx, txs)
	if err != nil {
		return IngestResult{}, err
	}

	if newest != cursor {
		if err := j.state.Set(ctx, CursorKey, newest); err != nil {
			return IngestResult{}, err
		}
	}

	j.logger.Info("ingest done", zap.Int("scraped", len(candidates)), zap.Int("inserted", inserted), zap.String("cursor", newest))
	return IngestResult{Scraped: len(candidates), Inserted: inserted}, nil
}

func (j *IngestJob) cursor(ctx context.Context) (*time.Time, string, error) {
	value, ok, err := j.state.Get(ctx, CursorKey)
	if err != nil || !ok {
		return nil, "", err
	}

	t, err := time.ParseInLocation(occurredLayout, value, time.Local)
	if err != nil {
		j.logger.Warn("ignoring malformed ingest cursor", zap.String("cursor", value))
		return nil, "", nil
	}
	return &t, value, nil
}
