package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/subscope/internal/domain"
)

// MonthTotal is the summed subscription cost for one calendar month of
// last-paid dates, in "YYYY-MM" form. Plain data for the presentation shell.
type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// MonthlyTotals groups subscriptions by the month of their last payment and
// sums the amounts, sorted chronologically.
func MonthlyTotals(subs []domain.Subscription) []MonthTotal {
	byMonth := make(map[string]decimal.Decimal)
	for _, s := range subs {
		key := s.LastPaid.String()[:7]
		byMonth[key] = byMonth[key].Add(s.Amount)
	}

	totals := make([]MonthTotal, 0, len(byMonth))
	for month, total := range byMonth {
		totals = append(totals, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Month < totals[j].Month })

	return totals
}
