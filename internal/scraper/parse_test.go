package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R$ 12,00", "12"},
		{"-R$ 1.234,56", "-1234.56"},
		{"R$ -0,42", "-0.42"},
		{"+ R$ 3.000,00", "3000"},
		{"R$ 987,10", "987.1"},
	}
	for _, tt := range tests {
		got, err := ParseBRL(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}

	_, err := ParseBRL("-R$ -1,00")
	assert.ErrorIs(t, err, ErrConflictSigns)

	for _, bad := range []string{"12,00", "R$ 12", "R$ 1234,00", "R$ 12,0"} {
		_, err := ParseBRL(bad)
		assert.ErrorIs(t, err, ErrAmountFormat, bad)
	}
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "14:30", NormalizeTime(" 14h30 "))
	assert.Equal(t, "00:00", NormalizeTime(""))
}

func TestParseDayTitle(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)

	tests := map[string]string{
		"Hoje":              "2024-03-05",
		"ontem":             "2024-03-04",
		"12 de fevereiro":   "2024-02-12",
		"1 de março":        "2024-03-01",
		"24 de dezembro":    "2023-12-24",
		"3 de jan. de 2022": "2022-01-03",
		"28/02/2024":        "2024-02-28",
	}
	for title, want := range tests {
		got, err := ParseDayTitle(title, now)
		require.NoError(t, err, title)
		assert.Equal(t, want, got.Format("2006-01-02"), title)
	}

	for _, bad := range []string{"", "amanhã", "12 de nada", "x de março"} {
		_, err := ParseDayTitle(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestBuildCandidates(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)
	days := []rawDay{
		{Title: "Hoje", Rows: []rawRow{
			{Primary: "Pagamento", Secondary: "Padaria", Amount: "-R$ 10,00", Time: "09h00"},
			{Primary: "Pagamento", Secondary: "Mercado", Amount: "-R$ 20,00", Time: "09h00"},
		}},
		{Title: "Ontem", Rows: []rawRow{
			{Primary: " Transferência Pix recebida ", Secondary: "Maria", Amount: "R$ 500,00", Time: "18h15"},
		}},
	}

	got, err := buildCandidates(days, now)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2024-03-04 18:15", got[0].OccurredAt)
	assert.Equal(t, "Transferência Pix recebida", got[0].DescriptionPrimary)
	assert.JSONEq(t, `{"day_date":"2024-03-04","time":"18:15","amount_text":"R$ 500,00","description_primary":"Transferência Pix recebida","description_secondary":"Maria"}`, got[0].RawPayload)

	// same minute keeps the reversed page order
	assert.Equal(t, "Mercado", got[1].DescriptionSecondary)
	assert.Equal(t, "Padaria", got[2].DescriptionSecondary)
	assert.Equal(t, "-20", got[1].AmountSigned.String())

	_, err = buildCandidates([]rawDay{{Title: "Hoje", Rows: []rawRow{{Amount: "??"}}}}, now)
	assert.ErrorIs(t, err, ErrAmountFormat)
}

func TestSinceDay(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)
	got, err := buildCandidates([]rawDay{
		{Title: "Hoje", Rows: []rawRow{{Primary: "a", Amount: "R$ 1,00", Time: "10h00"}}},
		{Title: "1 de março", Rows: []rawRow{{Primary: "b", Amount: "R$ 1,00", Time: "10h00"}}},
	}, now)
	require.NoError(t, err)

	kept := sinceDay(got, time.Date(2024, time.March, 4, 23, 0, 0, 0, time.UTC))
	require.Len(t, kept, 1)
	assert.Equal(t, "a", kept[0].DescriptionPrimary)
}
