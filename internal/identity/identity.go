// Package identity derives content-based transaction ids so that scraping the
// same statement twice never produces duplicate rows.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/shopspring/decimal"
)

const (
	hashPrefixLen = 16
	separator     = "|"
)

// Derive returns "<occurredAt>:<hash>". The date prefix keeps ids sorted by day.
//
// Two events in the same minute with equal amount and descriptions map to the
// same id and are stored once.
func Derive(occurredAt string, amountSigned decimal.Decimal, primary, secondary string) string {
	payload := strings.Join([]string{
		occurredAt,
		amountSigned.StringFixed(2),
		NormalizeDescription(primary),
		NormalizeDescription(secondary),
	}, separator)

	sum := sha256.Sum256([]byte(payload))
	return occurredAt + ":" + hex.EncodeToString(sum[:])[:hashPrefixLen]
}

// NormalizeDescription collapses internal whitespace, trims and lowercases.
func NormalizeDescription(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// NewTransaction builds the stored form of a scraped candidate.
func NewTransaction(c models.Candidate) models.Transaction {
	direction := models.DirectionIn
	if c.AmountSigned.IsNegative() {
		direction = models.DirectionOut
	}

	tx := models.Transaction{
		ID:                   Derive(c.OccurredAt, c.AmountSigned, c.DescriptionPrimary, c.DescriptionSecondary),
		OccurredAt:           c.OccurredAt,
		Amount:               c.AmountSigned.Abs(),
		Direction:            direction,
		DescriptionPrimary:   c.DescriptionPrimary,
		DescriptionSecondary: c.DescriptionSecondary,
		Description:          strings.TrimSpace(c.DescriptionPrimary + " " + c.DescriptionSecondary),
		Status:               models.TxStatusNew,
	}
	if c.RawPayload != "" {
		tx.RawPayload.String = c.RawPayload
		tx.RawPayload.Valid = true
	}
	return tx
}
