package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

type Kind string

const (
	KindDeposit Kind = "deposit"
	KindSpent   Kind = "spent"
	KindIgnore  Kind = "ignore"
)

// Candidate - сырая строка выписки до дедупликации
type Candidate struct {
	OccurredAt           string // "2006-01-02 15:04"
	AmountSigned         decimal.Decimal
	DescriptionPrimary   string
	DescriptionSecondary string
	RawPayload           string
}

// Transaction - одна операция по счёту
type Transaction struct {
	ID                   string          `db:"id"`
	OccurredAt           string          `db:"occurred_at"`
	Amount               decimal.Decimal `db:"amount"`
	Direction            Direction       `db:"direction"`
	DescriptionPrimary   string          `db:"description_primary"`
	DescriptionSecondary string          `db:"description_secondary"`
	Description          string          `db:"description"`
	RawPayload           sql.NullString  `db:"raw_payload"`
	Status               TxStatus        `db:"status"`
	Attempts             int             `db:"attempts"`
	LastError            sql.NullString  `db:"last_error"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

// SignedAmount returns the amount with outbound operations negative.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionOut {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Review - решение пользователя по одной транзакции
type Review struct {
	ID                   int64          `db:"id"`
	TransactionID        string         `db:"transaction_id"`
	Kind                 Kind           `db:"kind"`
	Status               ReviewStatus   `db:"status"`
	SuggestedDescription sql.NullString `db:"suggested_description"`
	SuggestedCategory    sql.NullString `db:"suggested_category"`
	SuggestedNickname    sql.NullString `db:"suggested_nickname"`
	FinalDescription     sql.NullString `db:"final_description"`
	FinalCategory        sql.NullString `db:"final_category"`
	FinalNickname        sql.NullString `db:"final_nickname"`
	ChatID               sql.NullInt64  `db:"chat_id"`
	MessageID            sql.NullInt64  `db:"message_id"`
	LastError            sql.NullString `db:"last_error"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

func (r *Review) Description() string {
	return firstValid(r.FinalDescription, r.SuggestedDescription)
}

func (r *Review) Category() string {
	return firstValid(r.FinalCategory, r.SuggestedCategory)
}

func (r *Review) Nickname() string {
	return firstValid(r.FinalNickname, r.SuggestedNickname)
}

func firstValid(values ...sql.NullString) string {
	for _, v := range values {
		if v.Valid && v.String != "" {
			return v.String
		}
	}
	return ""
}
