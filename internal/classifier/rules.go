package classifier

import (
	"strings"
)

const (
	PrimaryInterest      = "Rendimentos"
	CategoryInterest     = "Rendimento"
	DepositDescription   = "Depósito na conta da casa"
	DepositCategory      = "Depósito"
	RentDescription      = "Para sacar aluguel"
	RentCategory         = "Aluguel marcos"
	secondaryPlaceholder = "{secondary}"
	rentThresholdReais   = 3000
)

var depositPrimaries = map[string]bool{
	"Transferência Pix recebida": true,
	"Transferência recebida":     true,
}

var transferPrimaries = map[string]bool{
	"Transferência enviada":     true,
	"Transferência Pix enviada": true,
}

// Rule maps an exact (primary, folded secondary) pair to a suggestion.
// An empty Secondary matches any counterparty; "{secondary}" in Description
// is replaced with the raw secondary description.
type Rule struct {
	Primary     string `yaml:"primary"`
	Secondary   string `yaml:"secondary"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
}

func (r Rule) Matches(primary, foldedSecondary string) bool {
	if r.Primary != primary {
		return false
	}
	return r.Secondary == "" || r.Secondary == foldedSecondary
}

func (r Rule) apply(secondary string) (string, string) {
	return strings.ReplaceAll(r.Description, secondaryPlaceholder, secondary), r.Category
}

// DefaultRules lists the known recurring counterparties. Order matters: the
// first matching rule wins, so specific counterparties precede wildcards.
var DefaultRules = []Rule{
	{Primary: "Dinheiro reservado", Secondary: "13 oseias", Description: "Reservado para 13° Oséias", Category: "Oséas"},
	{Primary: "Dinheiro reservado", Description: "Reservado em '{secondary}'", Category: "Caixinha"},
	{Primary: "Dinheiro retirado", Secondary: "13 oseias", Description: "Retidado para 13° Oséias", Category: "Oséas"},
	{Primary: "Dinheiro retirado", Description: "Retirado de '{secondary}'", Category: "Caixinha"},

	{Primary: "Transferência enviada", Secondary: "tenda atacado sa", Description: "Compra tenda", Category: "Mercado geral"},

	{Primary: "Transferência Pix enviada", Secondary: "oseas dias da silva selvagio", Description: "Salário Oséas", Category: "Oséas"},
	{Primary: "Transferência Pix enviada", Secondary: "walterdisney lima santos", Description: "Pagamento vigia", Category: "Vigia"},

	{Primary: "Pagamento com QR Pix", Secondary: "tenda atacado sa", Description: "Compra tenda", Category: "Mercado geral"},
	{Primary: "Pagamento com QR Pix", Secondary: "companhia paulista de forca e luz", Description: "Pagamento conta de luz", Category: "Luz"},
	{Primary: "Pagamento com QR Pix", Secondary: "telefonica brasil s a", Description: "Pagamento conta de internet", Category: "Internet"},
	{Primary: "Pagamento com QR Pix", Secondary: "supermercados jau serve ltda", Description: "o que foi comprado no jau?"},

	{Primary: "Pagamento", Secondary: "varejao passarinh", Description: "compra no passarinho", Category: "Mercado geral"},
	{Primary: "Pagamento", Secondary: "jau serve lj 32", Description: "o que foi comprado no jau?"},

	{Primary: "Reserva programada", Secondary: "13 oseias", Description: "Reservado para 13° Oséias", Category: "Oséas"},

	{Primary: "Pagamento de contas", Secondary: "saae sao carlos sp", Description: "Pagamento conta de água", Category: "Água"},
	{Primary: "Pagamento de contas", Secondary: "rfb - doc arrec emp", Description: "Imposrto oséias", Category: "Oséas"},
	{Primary: "Pagamento de contas", Secondary: "vivo movel sp", Description: "Pagamento conta de internet", Category: "Internet"},
	{Primary: "Pagamento de contas", Secondary: "cpfl paulista", Description: "Pagamento conta de luz", Category: "Luz"},
}
