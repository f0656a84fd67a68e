package identity

import (
	"strings"
	"testing"

	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIsStableAcrossWhitespaceAndCase(t *testing.T) {
	amount := decimal.RequireFromString("-45.9")

	a := Derive("2024-03-01 10:15", amount, "Pagamento com QR Pix", "TENDA  Atacado SA")
	b := Derive("2024-03-01 10:15", amount, "  pagamento com qr pix ", "tenda atacado sa")

	assert.Equal(t, a, b)
}

func TestDeriveShape(t *testing.T) {
	id := Derive("2024-03-01 10:15", decimal.NewFromInt(10), "a", "b")

	require.True(t, strings.HasPrefix(id, "2024-03-01 10:15:"))
	hash := strings.TrimPrefix(id, "2024-03-01 10:15:")
	assert.Len(t, hash, 16)
}

func TestDeriveFormatsAmountToTwoDecimals(t *testing.T) {
	a := Derive("2024-03-01 10:15", decimal.RequireFromString("10"), "a", "b")
	b := Derive("2024-03-01 10:15", decimal.RequireFromString("10.00"), "a", "b")
	c := Derive("2024-03-01 10:15", decimal.RequireFromString("-10"), "a", "b")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDeriveDistinguishesFields(t *testing.T) {
	base := Derive("2024-03-01 10:15", decimal.NewFromInt(1), "a", "b")

	assert.NotEqual(t, base, Derive("2024-03-01 10:16", decimal.NewFromInt(1), "a", "b"))
	assert.NotEqual(t, base, Derive("2024-03-01 10:15", decimal.NewFromInt(2), "a", "b"))
	assert.NotEqual(t, base, Derive("2024-03-01 10:15", decimal.NewFromInt(1), "x", "b"))
	assert.NotEqual(t, base, Derive("2024-03-01 10:15", decimal.NewFromInt(1), "a", "x"))
}

func TestNewTransaction(t *testing.T) {
	out := NewTransaction(models.Candidate{
		OccurredAt:           "2024-03-01 10:15",
		AmountSigned:         decimal.RequireFromString("-120.50"),
		DescriptionPrimary:   "Pagamento de contas",
		DescriptionSecondary: "CPFL Paulista",
		RawPayload:           `{"k":"v"}`,
	})

	assert.Equal(t, models.DirectionOut, out.Direction)
	assert.Equal(t, "120.5", out.Amount.String())
	assert.Equal(t, "Pagamento de contas CPFL Paulista", out.Description)
	assert.Equal(t, models.TxStatusNew, out.Status)
	assert.True(t, out.RawPayload.Valid)

	in := NewTransaction(models.Candidate{
		OccurredAt:         "2024-03-01 11:00",
		AmountSigned:       decimal.NewFromInt(300),
		DescriptionPrimary: "Rendimentos",
	})
	assert.Equal(t, models.DirectionIn, in.Direction)
	assert.Equal(t, "Rendimentos", in.Description)
	assert.False(t, in.RawPayload.Valid)
}
