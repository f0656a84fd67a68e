package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/jmoiron/sqlx"
)

const transactionColumns = `id, occurred_at, amount, direction, description_primary, description_secondary, description, raw_payload, status, attempts, last_error, created_at, updated_at`

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// InsertIgnore stores every transaction whose id is not known yet and returns
// how many rows were actually inserted.
func (r *TransactionRepository) InsertIgnore(ctx context.Context, txs []models.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	dbTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin ingest: %w", err)
	}
	defer dbTx.Rollback()

	query := dbTx.Rebind(`INSERT INTO transactions (id, occurred_at, amount, direction, description_primary, description_secondary, description, raw_payload, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`)

	inserted := 0
	for _, tx := range txs {
		res, err := dbTx.ExecContext(ctx, query, tx.ID, tx.OccurredAt, tx.Amount, tx.Direction, tx.DescriptionPrimary, tx.DescriptionSecondary, tx.Description, tx.RawPayload, models.TxStatusNew)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
		}
		inserted += int(n)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ingest: %w", err)
	}
	return inserted, nil
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (*models.Transaction, error) {
	tx := &models.Transaction{}
	err := r.db.GetContext(ctx, tx, r.db.Rebind(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// ListByStatus returns the oldest transactions first. limit <= 0 means all.
func (r *TransactionRepository) ListByStatus(ctx context.Context, status models.TxStatus, limit int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status = ? ORDER BY occurred_at ASC, id ASC`
	args := []any{status}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var txs []models.Transaction
	if err := r.db.SelectContext(ctx, &txs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// SetStatus moves a transaction from one status to another. It fails with
// ErrStaleStatus when the row is no longer in status from.
func (r *TransactionRepository) SetStatus(ctx context.Context, id string, from, to models.TxStatus) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("invalid transaction transition %s -> %s", from, to)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE transactions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`), to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	return checkSwapped(ctx, r.db, res, `SELECT COUNT(*) FROM transactions WHERE id = ?`, id)
}

func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM transactions`); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// checkSwapped turns a zero-row compare-and-set into ErrNotFound or ErrStaleStatus.
func checkSwapped(ctx context.Context, q sqlx.ExtContext, res sql.Result, existsQuery string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var count int
	if err := sqlx.GetContext(ctx, q, &count, q.Rebind(existsQuery), id); err != nil {
		return fmt.Errorf("failed to check row: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStaleStatus
}
