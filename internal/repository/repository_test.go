package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ArturZahn/OBBot/internal/client/db/dbtest"
	"github.com/ArturZahn/OBBot/internal/identity"
	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repos struct {
	tx     *TransactionRepository
	review *ReviewRepository
	state  *StateRepository
}

func newRepos(t *testing.T) repos {
	client := dbtest.New(t)
	return repos{
		tx:     NewTransactionRepository(client.DB()),
		review: NewReviewRepository(client.DB()),
		state:  NewStateRepository(client.DB()),
	}
}

func candidate(occurredAt, amount, primary, secondary string) models.Candidate {
	return models.Candidate{
		OccurredAt:           occurredAt,
		AmountSigned:         decimal.RequireFromString(amount),
		DescriptionPrimary:   primary,
		DescriptionSecondary: secondary,
		RawPayload:           `{"title":"` + primary + `"}`,
	}
}

func ingest(t *testing.T, r repos, candidates ...models.Candidate) []models.Transaction {
	txs := make([]models.Transaction, 0, len(candidates))
	for _, c := range candidates {
		txs = append(txs, identity.NewTransaction(c))
	}
	_, err := r.tx.InsertIgnore(context.Background(), txs)
	require.NoError(t, err)
	return txs
}

func spentReview(txID string) models.Review {
	return models.Review{
		TransactionID:        txID,
		Kind:                 models.KindSpent,
		SuggestedDescription: sql.NullString{String: "Compra tenda", Valid: true},
		SuggestedCategory:    sql.NullString{String: "Mercado geral", Valid: true},
	}
}

func TestInsertIgnoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	batch := []models.Transaction{
		identity.NewTransaction(candidate("2024-03-01 10:00", "-12.50", "Pagamento", "Padaria")),
		identity.NewTransaction(candidate("2024-03-01 11:00", "500", "Transferência Pix recebida", "Maria")),
	}

	inserted, err := r.tx.InsertIgnore(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = r.tx.InsertIgnore(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	count, err := r.tx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := r.tx.Get(ctx, batch[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.DirectionOut, got.Direction)
	assert.True(t, decimal.RequireFromString("12.5").Equal(got.Amount))
	assert.Equal(t, models.TxStatusNew, got.Status)
	assert.Equal(t, "Pagamento Padaria", got.Description)
	assert.True(t, got.RawPayload.Valid)
}

func TestListByStatusOldestFirst(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	ingest(t, r,
		candidate("2024-03-02 09:00", "-1", "Pagamento", "b"),
		candidate("2024-03-01 09:00", "-1", "Pagamento", "a"),
		candidate("2024-03-03 09:00", "-1", "Pagamento", "c"),
	)

	txs, err := r.tx.ListByStatus(ctx, models.TxStatusNew, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "2024-03-01 09:00", txs[0].OccurredAt)
	assert.Equal(t, "2024-03-02 09:00", txs[1].OccurredAt)

	all, err := r.tx.ListByStatus(ctx, models.TxStatusNew, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTransactionSetStatus(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	txs := ingest(t, r, candidate("2024-03-01 10:00", "0.42", "Rendimentos", ""))

	require.NoError(t, r.tx.SetStatus(ctx, txs[0].ID, models.TxStatusNew, models.TxStatusIgnored))

	err := r.tx.SetStatus(ctx, txs[0].ID, models.TxStatusNew, models.TxStatusClassified)
	assert.ErrorIs(t, err, ErrStaleStatus)

	err = r.tx.SetStatus(ctx, "missing", models.TxStatusNew, models.TxStatusIgnored)
	assert.ErrorIs(t, err, ErrNotFound)

	err = r.tx.SetStatus(ctx, txs[0].ID, models.TxStatusIgnored, models.TxStatusNew)
	assert.Error(t, err)
}

func TestCreateForTransaction(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	txs := ingest(t, r, candidate("2024-03-01 10:00", "-80", "Transferência enviada", "Tenda Atacado SA"))

	review, err := r.review.CreateForTransaction(ctx, spentReview(txs[0].ID))
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, models.ReviewPendingSend, review.Status)
	assert.Equal(t, "Compra tenda", review.Description())
	assert.False(t, review.ChatID.Valid)

	tx, err := r.tx.Get(ctx, txs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxStatusClassified, tx.Status)

	_, err = r.review.CreateForTransaction(ctx, spentReview(txs[0].ID))
	assert.ErrorIs(t, err, ErrStaleStatus)

	pending, err := r.review.ListByStatus(ctx, models.ReviewPendingSend, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestReviewLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	txs := ingest(t, r, candidate("2024-03-01 10:00", "-80", "Transferência enviada", "Tenda Atacado SA"))
	review, err := r.review.CreateForTransaction(ctx, spentReview(txs[0].ID))
	require.NoError(t, err)

	require.NoError(t, r.review.SetError(ctx, review.ID, "telegram down"))
	require.NoError(t, r.review.MarkAwaiting(ctx, review.ID, 42, 100))

	got, err := r.review.GetByMessage(ctx, 42, 100)
	require.NoError(t, err)
	assert.Equal(t, review.ID, got.ID)
	assert.Equal(t, models.ReviewAwaitingUser, got.Status)
	assert.False(t, got.LastError.Valid)

	undelivered, err := r.review.ListUndelivered(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, undelivered)

	// a failed redisplay leaves the review on the user with the error kept
	require.NoError(t, r.review.SetError(ctx, review.ID, "telegram 502"))
	undelivered, err = r.review.ListUndelivered(ctx, 0)
	require.NoError(t, err)
	require.Len(t, undelivered, 1)
	assert.Equal(t, review.ID, undelivered[0].ID)

	require.NoError(t, r.review.UpdateMessage(ctx, review.ID, 42, 101))
	_, err = r.review.GetByMessage(ctx, 42, 100)
	assert.ErrorIs(t, err, ErrNotFound)
	undelivered, err = r.review.ListUndelivered(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, undelivered)

	require.NoError(t, r.review.SetFinalCategory(ctx, review.ID, "Luz"))
	require.NoError(t, r.review.Approve(ctx, review.ID))

	got, err = r.review.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, got.Status)
	assert.Equal(t, "Luz", got.FinalCategory.String)
	assert.Equal(t, "Compra tenda", got.FinalDescription.String)
	assert.False(t, got.FinalNickname.Valid)

	assert.ErrorIs(t, r.review.SetFinalDescription(ctx, review.ID, "late"), ErrStaleStatus)
	assert.ErrorIs(t, r.review.Cancel(ctx, review.ID), ErrStaleStatus)

	require.NoError(t, r.review.MarkWritten(ctx, review.ID))

	got, err = r.review.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewWritten, got.Status)

	tx, err := r.tx.Get(ctx, txs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxStatusSent, tx.Status)
	assert.Equal(t, 0, tx.Attempts)

	assert.ErrorIs(t, r.review.MarkFailed(ctx, review.ID, "boom"), ErrStaleStatus)
}

func TestMarkFailedRecordsError(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	txs := ingest(t, r, candidate("2024-03-01 10:00", "-80", "Pagamento", "x"))
	review, err := r.review.CreateForTransaction(ctx, models.Review{TransactionID: txs[0].ID, Kind: models.KindSpent})
	require.NoError(t, err)
	require.NoError(t, r.review.MarkAwaiting(ctx, review.ID, 1, 1))
	require.NoError(t, r.review.Approve(ctx, review.ID))

	require.NoError(t, r.review.MarkFailed(ctx, review.ID, "missing description/category"))

	got, err := r.review.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewFailed, got.Status)
	assert.Equal(t, "missing description/category", got.LastError.String)

	tx, err := r.tx.Get(ctx, txs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxStatusFailed, tx.Status)
	assert.Equal(t, 1, tx.Attempts)
	assert.Equal(t, "missing description/category", tx.LastError.String)
}

func TestCancelledReviewIsFinalForUser(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)
	txs := ingest(t, r, candidate("2024-03-01 10:00", "-80", "Pagamento", "x"))
	review, err := r.review.CreateForTransaction(ctx, spentReview(txs[0].ID))
	require.NoError(t, err)

	assert.ErrorIs(t, r.review.Cancel(ctx, review.ID), ErrStaleStatus)
	require.NoError(t, r.review.MarkAwaiting(ctx, review.ID, 1, 5))
	require.NoError(t, r.review.Cancel(ctx, review.ID))

	assert.ErrorIs(t, r.review.Approve(ctx, review.ID), ErrStaleStatus)
	assert.ErrorIs(t, r.review.Approve(ctx, 9999), ErrNotFound)
}

func TestStateRepository(t *testing.T) {
	ctx := context.Background()
	r := newRepos(t)

	_, ok, err := r.state.Get(ctx, "ingest.last_occurred_at")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.state.Set(ctx, "ingest.last_occurred_at", "2024-03-01 10:00"))
	require.NoError(t, r.state.Set(ctx, "ingest.last_occurred_at", "2024-03-02 10:00"))

	value, ok, err := r.state.Get(ctx, "ingest.last_occurred_at")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-02 10:00", value)

	require.NoError(t, r.state.Delete(ctx, "ingest.last_occurred_at"))
	_, ok, err = r.state.Get(ctx, "ingest.last_occurred_at")
	require.NoError(t, err)
	assert.False(t, ok)
}
