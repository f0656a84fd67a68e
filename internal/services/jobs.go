package services

import (
	"context"
	"time"

	"github.com/ArturZahn/OBBot/internal/classifier"
	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/shopspring/decimal"
)

// Scraper reads statement rows from the bank.
type Scraper interface {
	Scrape(ctx context.Context, maxPages int, minDate *time.Time) ([]models.Candidate, error)
}

// Ledger is the external spreadsheet approved reviews end up in.
type Ledger interface {
	InsertDeposit(ctx context.Context, nickname, date string, amount decimal.Decimal) error
	InsertSpent(ctx context.Context, date string, amount decimal.Decimal, description, category string) error
	PayerNicknames(ctx context.Context) (map[string]string, error)
	Categories(ctx context.Context) ([]string, error)
}

type TransactionStore interface {
	InsertIgnore(ctx context.Context, txs []models.Transaction) (int, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	ListByStatus(ctx context.Context, status models.TxStatus, limit int) ([]models.Transaction, error)
	SetStatus(ctx context.Context, id string, from, to models.TxStatus) error
}

type ReviewStore interface {
	CreateForTransaction(ctx context.Context, review models.Review) (*models.Review, error)
	ListByStatus(ctx context.Context, status models.ReviewStatus, limit int) ([]models.Review, error)
	MarkWritten(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, msg string) error
}

type StateStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Classifier interface {
	Classify(tx models.Transaction, payers map[string]string) classifier.Classification
}

// ReviewSender delivers pending reviews to the chat.
type ReviewSender interface {
	SendPending(ctx context.Context, limit int) (int, error)
}

// Dispatcher runs fn where chat code is allowed to run and waits for it.
type Dispatcher func(ctx context.Context, fn func(ctx context.Context) error) error

// Inline runs fn on the calling goroutine. Used when no chat loop is running.
func Inline(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
