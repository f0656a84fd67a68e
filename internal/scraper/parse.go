package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ArturZahn/OBBot/internal/classifier"
	"github.com/shopspring/decimal"
)

var brlPattern = regexp.MustCompile(`^\s*([+-]?)\s*R\$\s*([+-]?)(\d{1,3}(?:\.\d{3})*),(\d{2})\s*$`)

var (
	ErrAmountFormat  = errors.New("amount format not recognized")
	ErrConflictSigns = errors.New("conflicting signs in amount")
)

// ParseBRL reads amounts like "R$ 1.234,56", "-R$ 12,00" or "R$ -12,00".
func ParseBRL(text string) (decimal.Decimal, error) {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	m := brlPattern.FindStringSubmatch(text)
	if m == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrAmountFormat, text)
	}

	prefix, post := m[1], m[2]
	if prefix != "" && post != "" {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrConflictSigns, text)
	}

	value, err := decimal.NewFromString(strings.ReplaceAll(m[3], ".", "") + "." + m[4])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrAmountFormat, text)
	}
	if prefix == "-" || post == "-" {
		value = value.Neg()
	}
	return value, nil
}

// NormalizeTime turns "14h30" into "14:30"; empty means midnight.
func NormalizeTime(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "00:00"
	}
	return strings.Join(strings.Split(text, "h"), ":")
}

var months = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

func month(name string) (time.Month, bool) {
	name = strings.TrimSuffix(classifier.FoldName(name), ".")
	if m, ok := months[name]; ok {
		return m, true
	}
	if len(name) == 3 {
		for full, m := range months {
			if strings.HasPrefix(full, name) {
				return m, true
			}
		}
	}
	return 0, false
}

// ParseDayTitle resolves the Portuguese day headers of the statement
// ("Hoje", "Ontem", "12 de outubro", "3 de jan. de 2023") relative to now.
func ParseDayTitle(title string, now time.Time) (time.Time, error) {
	folded := classifier.FoldName(title)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch folded {
	case "hoje":
		return today, nil
	case "ontem":
		return today.AddDate(0, 0, -1), nil
	case "anteontem":
		return today.AddDate(0, 0, -2), nil
	}

	if t, err := time.ParseInLocation("02/01/2006", folded, now.Location()); err == nil {
		return t, nil
	}

	parts := strings.Fields(folded)
	if len(parts) < 3 || parts[1] != "de" {
		return time.Time{}, fmt.Errorf("unknown day title %q", title)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown day title %q", title)
	}
	m, ok := month(parts[2])
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month in %q", title)
	}

	year := now.Year()
	explicitYear := false
	if len(parts) == 5 && parts[3] == "de" {
		if year, err = strconv.Atoi(parts[4]); err != nil {
			return time.Time{}, fmt.Errorf("unknown year in %q", title)
		}
		explicitYear = true
	}

	t := time.Date(year, m, day, 0, 0, 0, 0, now.Location())
	if !explicitYear && t.After(today) {
		t = t.AddDate(-1, 0, 0)
	}
	return t, nil
}
