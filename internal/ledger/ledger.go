// Package ledger writes approved reviews to the household spreadsheet and
// reads its configuration (payer names and categories).
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ArturZahn/OBBot/internal/classifier"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	sheetConfig  = "Configurações"
	sheetDeposit = "Inserir Depósito"
	sheetSpent   = "Gastos"

	headerCategories = "Categorias"
	headerWho        = "Quem?"
	headerDate       = "Data"
	headerAmount     = "Valor"
	headerStatus     = "Status"

	statusBotOK = "botOK"

	depositDescription = "Depósito na conta da casa"
	depositCategory    = "Depósito"
	spentPayment       = "Cartão da casa"
	author             = "bot"

	// DateLayout is how the ledger expects dates.
	DateLayout = "02/01/2006"
)

type Ledger struct {
	values Values
	logger *zap.Logger
}

func New(values Values, logger *zap.Logger) *Ledger {
	return &Ledger{values: values, logger: logger}
}

// PayerNicknames maps every folded payer name to the nickname in column A of
// the configuration sheet. Column B holds comma separated names.
func (l *Ledger) PayerNicknames(ctx context.Context) (map[string]string, error) {
	rows, err := l.values.Get(ctx, a1(sheetConfig, "A2:B"))
	if err != nil {
		return nil, err
	}

	payers := make(map[string]string)
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		nickname := strings.TrimSpace(row[0])
		if nickname == "" {
			continue
		}
		for _, name := range strings.Split(row[1], ",") {
			if folded := classifier.FoldName(name); folded != "" {
				payers[folded] = nickname
			}
		}
	}
	return payers, nil
}

// Categories lists the "Categorias" column of the configuration sheet.
func (l *Ledger) Categories(ctx context.Context) ([]string, error) {
	header, err := l.values.Get(ctx, a1(sheetConfig, "1:1"))
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, nil
	}

	idx := indexOf(header[0], headerCategories)
	if idx < 0 {
		return nil, nil
	}

	col := columnName(idx)
	rows, err := l.values.Get(ctx, a1(sheetConfig, fmt.Sprintf("%s2:%s", col, col)))
	if err != nil {
		return nil, err
	}

	var categories []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if c := strings.TrimSpace(row[0]); c != "" {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

// InsertDeposit adds a deposit row unless the same nickname, date and amount
// is already there. A matching row without status is marked botOK.
func (l *Ledger) InsertDeposit(ctx context.Context, nickname, date string, amount decimal.Decimal) error {
	rows, err := l.values.Get(ctx, a1(sheetDeposit, "A:Z"))
	if err != nil {
		return err
	}

	if row, status, col, ok := findDeposit(rows, nickname, date, amount); ok {
		if status != "" {
			l.logger.Info("deposit already in ledger", zap.String("nickname", nickname), zap.Int("row", row))
			return nil
		}
		return l.values.Update(ctx, a1(sheetDeposit, fmt.Sprintf("%s%d", col, row)), [][]any{{statusBotOK}})
	}

	row := len(rows) + 1
	return l.values.Update(ctx, a1(sheetDeposit, fmt.Sprintf("A%d:F%d", row, row)), [][]any{{
		nickname,
		date,
		amount.InexactFloat64(),
		depositDescription,
		author,
		depositCategory,
	}})
}

func (l *Ledger) InsertSpent(ctx context.Context, date string, amount decimal.Decimal, description, category string) error {
	rows, err := l.values.Get(ctx, a1(sheetSpent, "A:A"))
	if err != nil {
		return err
	}

	row := len(rows) + 1
	return l.values.Update(ctx, a1(sheetSpent, fmt.Sprintf("A%d:G%d", row, row)), [][]any{{
		date,
		amount.InexactFloat64(),
		description,
		spentPayment,
		"",
		author,
		category,
	}})
}

// findDeposit returns the 1-based row, its status and the status column.
func findDeposit(rows [][]string, nickname, date string, amount decimal.Decimal) (int, string, string, bool) {
	if len(rows) == 0 {
		return 0, "", "", false
	}

	header := rows[0]
	idxWho := indexOf(header, headerWho)
	idxDate := indexOf(header, headerDate)
	idxAmount := indexOf(header, headerAmount)
	idxStatus := indexOf(header, headerStatus)
	if idxWho < 0 || idxDate < 0 || idxAmount < 0 || idxStatus < 0 {
		return 0, "", "", false
	}

	targetDate, ok := normalizeDate(date)
	if !ok {
		return 0, "", "", false
	}
	targetAmount := amount.Round(2)

	for i, row := range rows[1:] {
		if strings.TrimSpace(cell(row, idxWho)) != nickname {
			continue
		}
		if d, ok := normalizeDate(cell(row, idxDate)); !ok || d != targetDate {
			continue
		}
		if a, ok := parseAmount(cell(row, idxAmount)); !ok || !a.Equal(targetAmount) {
			continue
		}
		return i + 2, strings.TrimSpace(cell(row, idxStatus)), columnName(idxStatus), true
	}
	return 0, "", "", false
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func indexOf(row []string, name string) int {
	for i, v := range row {
		if strings.TrimSpace(v) == name {
			return i
		}
	}
	return -1
}

func normalizeDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{DateLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// parseAmount reads "R$ 1.234,56", "1234,56" or "1234.56".
func parseAmount(value string) (decimal.Decimal, bool) {
	text := strings.TrimSpace(strings.ReplaceAll(value, "R$", ""))
	if text == "" {
		return decimal.Decimal{}, false
	}
	if strings.Contains(text, ",") {
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
	}
	text = strings.ReplaceAll(text, " ", "")

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d.Round(2), true
}

func a1(sheet, rng string) string {
	return fmt.Sprintf("'%s'!%s", sheet, rng)
}

// columnName converts a 0-based index to a column letter: 0 -> A, 26 -> AA.
func columnName(idx int) string {
	name := ""
	for idx >= 0 {
		name = string(rune('A'+idx%26)) + name
		idx = idx/26 - 1
	}
	return name
}
