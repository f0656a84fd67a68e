package scraper

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ArturZahn/OBBot/internal/models"
)

type rawRow struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Amount    string `json:"amount"`
	Time      string `json:"time"`
}

type rawDay struct {
	Title string   `json:"title"`
	Rows  []rawRow `json:"rows"`
}

type rawPayload struct {
	DayDate              string `json:"day_date"`
	Time                 string `json:"time"`
	AmountText           string `json:"amount_text"`
	DescriptionPrimary   string `json:"description_primary"`
	DescriptionSecondary string `json:"description_secondary"`
}

// buildCandidates converts one statement page. The page lists each day newest
// first, so rows are reversed per day before the final sort by time.
func buildCandidates(days []rawDay, now time.Time) ([]models.Candidate, error) {
	var candidates []models.Candidate

	for _, day := range days {
		date, err := ParseDayTitle(day.Title, now)
		if err != nil {
			return nil, err
		}
		dayDate := date.Format("2006-01-02")

		dayRows := make([]models.Candidate, 0, len(day.Rows))
		for _, row := range day.Rows {
			amount, err := ParseBRL(row.Amount)
			if err != nil {
				return nil, err
			}
			clock := NormalizeTime(row.Time)
			primary := strings.TrimSpace(row.Primary)
			secondary := strings.TrimSpace(row.Secondary)

			payload, err := json.Marshal(rawPayload{
				DayDate:              dayDate,
				Time:                 clock,
				AmountText:           row.Amount,
				DescriptionPrimary:   primary,
				DescriptionSecondary: secondary,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to encode raw payload: %w", err)
			}

			dayRows = append([]models.Candidate{{
				OccurredAt:           dayDate + " " + clock,
				AmountSigned:         amount,
				DescriptionPrimary:   primary,
				DescriptionSecondary: secondary,
				RawPayload:           string(payload),
			}}, dayRows...)
		}
		candidates = append(candidates, dayRows...)
	}

	sortCandidates(candidates)
	return candidates, nil
}

func sortCandidates(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].OccurredAt < candidates[j].OccurredAt
	})
}

// sinceDay drops candidates from days before minDate.
func sinceDay(candidates []models.Candidate, minDate time.Time) []models.Candidate {
	cutoff := minDate.Format("2006-01-02")
	kept := candidates[:0]
	for _, c := range candidates {
		if c.OccurredAt[:len(cutoff)] >= cutoff {
			kept = append(kept, c)
		}
	}
	return kept
}
