// Package classifier suggests a review kind, description and category for a
// transaction from its bank descriptors. It has no side effects.
package classifier

import (
	"fmt"

	"github.com/ArturZahn/OBBot/internal/models"
	"github.com/shopspring/decimal"
)

// Classification is the suggestion for one transaction. Empty strings mean
// "no suggestion" and are stored as NULL.
type Classification struct {
	Kind                 models.Kind
	SuggestedDescription string
	SuggestedCategory    string
	SuggestedNickname    string
}

var ignored = Classification{Kind: models.KindIgnore}

var rentThreshold = decimal.NewFromInt(rentThresholdReais)

// Classifier evaluates an ordered rule table.
type Classifier struct {
	rules []Rule
}

// New builds a classifier that evaluates extra before DefaultRules.
func New(extra ...Rule) *Classifier {
	rules := make([]Rule, 0, len(extra)+len(DefaultRules))
	for _, r := range extra {
		r.Secondary = FoldName(r.Secondary)
		rules = append(rules, r)
	}
	rules = append(rules, DefaultRules...)
	return &Classifier{rules: rules}
}

// Classify uses the default rule table.
func Classify(tx models.Transaction, payers map[string]string) Classification {
	return defaultClassifier.Classify(tx, payers)
}

var defaultClassifier = New()

// Classify maps a transaction to a suggestion. payers maps folded payer names
// to the nickname used in the ledger.
func (c *Classifier) Classify(tx models.Transaction, payers map[string]string) Classification {
	primary := tx.DescriptionPrimary
	secondary := tx.DescriptionSecondary
	folded := FoldName(secondary)

	if primary == PrimaryInterest {
		return ignored
	}

	if tx.Direction == models.DirectionIn && depositPrimaries[primary] {
		if nickname, ok := payers[folded]; ok && nickname != "" {
			return Classification{
				Kind:                 models.KindDeposit,
				SuggestedDescription: DepositDescription,
				SuggestedCategory:    DepositCategory,
				SuggestedNickname:    nickname,
			}
		}
	}

	if tx.Direction != models.DirectionIn && tx.Direction != models.DirectionOut {
		return ignored
	}

	description, category, matched := c.match(primary, secondary, folded)

	if !matched && transferPrimaries[primary] {
		if _, known := payers[folded]; known && tx.Amount.GreaterThanOrEqual(rentThreshold) {
			description, category, matched = RentDescription, RentCategory, true
		}
	}

	if !matched {
		description = fmt.Sprintf("%s: %s", primary, secondary)
	}

	if category == CategoryInterest {
		return ignored
	}

	return Classification{
		Kind:                 models.KindSpent,
		SuggestedDescription: description,
		SuggestedCategory:    category,
	}
}

func (c *Classifier) match(primary, secondary, folded string) (string, string, bool) {
	for _, r := range c.rules {
		if r.Matches(primary, folded) {
			description, category := r.apply(secondary)
			return description, category, true
		}
	}
	return "", "", false
}
