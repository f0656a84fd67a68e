package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type update struct {
	rng  string
	rows [][]any
}

type fakeValues struct {
	ranges  map[string][][]string
	updates []update
}

func (f *fakeValues) Get(_ context.Context, rng string) ([][]string, error) {
	return f.ranges[rng], nil
}

func (f *fakeValues) Update(_ context.Context, rng string, rows [][]any) error {
	f.updates = append(f.updates, update{rng: rng, rows: rows})
	return nil
}

func TestPayerNicknames(t *testing.T) {
	values := &fakeValues{ranges: map[string][][]string{
		"'Configurações'!A2:B": {
			{"Mãe", "María José da Silva, MARIA JOSE"},
			{"João", "João Pereira"},
			{"", "Sem apelido"},
			{"Só nome"},
		},
	}}

	payers, err := New(values, zap.NewNop()).PayerNicknames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"maria jose da silva": "Mãe",
		"maria jose":          "Mãe",
		"joao pereira":        "João",
	}, payers)
}

func TestCategories(t *testing.T) {
	values := &fakeValues{ranges: map[string][][]string{
		"'Configurações'!1:1":  {{"Apelido", "Nomes", "Categorias"}},
		"'Configurações'!C2:C": {{"Luz"}, {}, {" Mercado geral "}},
	}}

	categories, err := New(values, zap.NewNop()).Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Luz", "Mercado geral"}, categories)
}

func TestCategoriesWithoutColumn(t *testing.T) {
	values := &fakeValues{ranges: map[string][][]string{
		"'Configurações'!1:1": {{"Apelido", "Nomes"}},
	}}

	categories, err := New(values, zap.NewNop()).Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func depositSheet(rows ...[]string) *fakeValues {
	all := append([][]string{{"Quem?", "Data", "Valor", "Descrição", "Autor", "Status"}}, rows...)
	return &fakeValues{ranges: map[string][][]string{"'Inserir Depósito'!A:Z": all}}
}

func TestInsertDepositAppends(t *testing.T) {
	values := depositSheet([]string{"João", "01/03/2024", "R$ 100,00", "", "", "ok"})

	err := New(values, zap.NewNop()).InsertDeposit(context.Background(), "Mãe", "01/03/2024", decimal.RequireFromString("1234.5"))
	require.NoError(t, err)

	require.Len(t, values.updates, 1)
	assert.Equal(t, "'Inserir Depósito'!A3:F3", values.updates[0].rng)
	assert.Equal(t, []any{"Mãe", "01/03/2024", 1234.5, "Depósito na conta da casa", "bot", "Depósito"}, values.updates[0].rows[0])
}

func TestInsertDepositMarksExistingRow(t *testing.T) {
	values := depositSheet(
		[]string{"João", "01/03/2024", "R$ 100,00", "", "", "ok"},
		[]string{"Mãe", "2024-03-01", "R$ 1.234,50", "", ""},
	)

	err := New(values, zap.NewNop()).InsertDeposit(context.Background(), "Mãe", "01/03/2024", decimal.RequireFromString("1234.5"))
	require.NoError(t, err)

	require.Len(t, values.updates, 1)
	assert.Equal(t, "'Inserir Depósito'!F3", values.updates[0].rng)
	assert.Equal(t, [][]any{{"botOK"}}, values.updates[0].rows)
}

func TestInsertDepositSkipsConfirmedRow(t *testing.T) {
	values := depositSheet([]string{"Mãe", "01/03/2024", "1234.50", "", "", "botOK"})

	err := New(values, zap.NewNop()).InsertDeposit(context.Background(), "Mãe", "01/03/2024", decimal.RequireFromString("1234.5"))
	require.NoError(t, err)
	assert.Empty(t, values.updates)
}

func TestInsertSpent(t *testing.T) {
	values := &fakeValues{ranges: map[string][][]string{
		"'Gastos'!A:A": {{"Data"}, {"01/03/2024"}, {"02/03/2024"}},
	}}

	err := New(values, zap.NewNop()).InsertSpent(context.Background(), "03/03/2024", decimal.RequireFromString("-12.5"), "Presente", "Luz")
	require.NoError(t, err)

	require.Len(t, values.updates, 1)
	assert.Equal(t, "'Gastos'!A4:G4", values.updates[0].rng)
	assert.Equal(t, []any{"03/03/2024", -12.5, "Presente", "Cartão da casa", "", "bot", "Luz"}, values.updates[0].rows[0])
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "A", columnName(0))
	assert.Equal(t, "Z", columnName(25))
	assert.Equal(t, "AA", columnName(26))
	assert.Equal(t, "AB", columnName(27))

	d, ok := parseAmount("R$ 1.234,56")
	require.True(t, ok)
	assert.Equal(t, "1234.56", d.StringFixed(2))

	_, ok = parseAmount("abc")
	assert.False(t, ok)

	date, ok := normalizeDate("05/01/2024")
	require.True(t, ok)
	assert.Equal(t, "2024-01-05", date)
}
