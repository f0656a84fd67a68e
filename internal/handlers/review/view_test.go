package review

import (
	"database/sql"
	"testing"

	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSpentInboundIsShownNegative(t *testing.T) {
	r := &models.Review{ID: 1, Kind: models.KindSpent}
	tx := &models.Transaction{
		Amount:               decimal.RequireFromString("50"),
		Direction:            models.DirectionIn,
		DescriptionPrimary:   "Transferência recebida",
		DescriptionSecondary: "Fulano",
		Description:          "Transferência recebida Fulano",
	}

	assert.Equal(t,
		"💸 Gasto 💸\nR$ -50.00 Categoria pendente\nDescrição pendente (Transferência recebida Fulano)\n\nTransferência recebida\nFulano",
		reviewText(r, tx))
}

func TestStatusTextPrefersFinalValues(t *testing.T) {
	r := &models.Review{
		ID:                   1,
		Kind:                 models.KindSpent,
		SuggestedDescription: sql.NullString{String: "sugestão", Valid: true},
		FinalDescription:     sql.NullString{String: "final", Valid: true},
		SuggestedCategory:    sql.NullString{String: "Luz", Valid: true},
	}
	tx := &models.Transaction{Amount: decimal.RequireFromString("7.5"), Direction: models.DirectionOut}

	assert.Equal(t, "💸 Gasto 💸\nR$ 7.50 Luz\nfinal\n\nConfirmado ✅", statusText(r, tx, statusApproved))
}

func TestParseCallback(t *testing.T) {
	cb, ok := parseCallback("CAT:12:Mercado: geral")
	assert.True(t, ok)
	assert.Equal(t, callbackData{action: actionCategory, reviewID: 12, category: "Mercado: geral"}, cb)

	cb, ok = parseCallback(encodeCallback(actionEditDesc, 3))
	assert.True(t, ok)
	assert.Equal(t, actionEditDesc, cb.action)

	for _, bad := range []string{"", "APPROVE", "APPROVE:x", "APPROVE:1:2", "CAT:1", "CAT:1:", "NOPE:1"} {
		_, ok := parseCallback(bad)
		assert.False(t, ok, bad)
	}
}
