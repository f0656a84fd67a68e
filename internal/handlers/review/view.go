package review

import (
	"fmt"

	"github.com/ArturZahn/OBBot/internal/chat"
	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/shopspring/decimal"
)

const (
	statusApproved  = "Confirmado ✅"
	statusCancelled = "Cancelado ❌"

	promptCategory    = "Selecione a categoria:"
	promptDescription = "Envie a nova descrição respondendo esta mensagem."

	startText = "Bot iniciado."
	helpText  = "Use os botões para aprovar/editar/cancelar transações."
)

func description(r *models.Review, tx *models.Transaction) string {
	if d := r.Description(); d != "" {
		return d
	}
	return fmt.Sprintf("Descrição pendente (%s)", tx.Description)
}

func category(r *models.Review) string {
	if c := r.Category(); c != "" {
		return c
	}
	return "Categoria pendente"
}

// Gastos are shown as positive amounts, so money that came in is negative here.
func displayAmount(r *models.Review, tx *models.Transaction) string {
	amount := tx.Amount
	if r.Kind != models.KindDeposit && tx.Direction == models.DirectionIn {
		amount = amount.Neg()
	}
	return formatBRL(amount)
}

func formatBRL(amount decimal.Decimal) string {
	return "R$ " + amount.StringFixed(2)
}

func reviewText(r *models.Review, tx *models.Transaction) string {
	if r.Kind == models.KindDeposit {
		return fmt.Sprintf("💰 Depósito 💰\n%s %s\n\n%s\n%s",
			displayAmount(r, tx), r.Nickname(), tx.DescriptionPrimary, tx.DescriptionSecondary)
	}
	return fmt.Sprintf("💸 Gasto 💸\n%s %s\n%s\n\n%s\n%s",
		displayAmount(r, tx), category(r), description(r, tx), tx.DescriptionPrimary, tx.DescriptionSecondary)
}

func statusText(r *models.Review, tx *models.Transaction, status string) string {
	var body string
	if r.Kind == models.KindDeposit {
		body = fmt.Sprintf("💰 Depósito 💰\n%s %s", displayAmount(r, tx), r.Nickname())
	} else {
		body = fmt.Sprintf("💸 Gasto 💸\n%s %s\n%s", displayAmount(r, tx), category(r), description(r, tx))
	}
	return body + "\n\n" + status
}

func promptText(r *models.Review, tx *models.Transaction, prompt string) string {
	return reviewText(r, tx) + "\n\n" + prompt
}

func reviewKeyboard(r *models.Review) chat.Keyboard {
	decision := []chat.Button{
		{Text: "❌", Data: encodeCallback(actionCancel, r.ID)},
		{Text: "✅", Data: encodeCallback(actionApprove, r.ID)},
	}
	if r.Kind == models.KindDeposit {
		return chat.Keyboard{decision}
	}
	return chat.Keyboard{
		{
			{Text: "Editar categoria", Data: encodeCallback(actionEditCat, r.ID)},
			{Text: "Editar descrição", Data: encodeCallback(actionEditDesc, r.ID)},
		},
		decision,
	}
}

// categoryKeyboard lays categories out two per row with a cancel row last.
func categoryKeyboard(reviewID int64, categories []string) chat.Keyboard {
	var rows chat.Keyboard
	var row []chat.Button
	for _, c := range categories {
		row = append(row, chat.Button{Text: c, Data: encodeCategory(reviewID, c)})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return append(rows, []chat.Button{{Text: "Cancelar", Data: encodeCallback(actionCatCancel, reviewID)}})
}
