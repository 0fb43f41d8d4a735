package pipeline

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/subscope/internal/domain"
)

func TestMonthlyTotals(t *testing.T) {
	subs := []domain.Subscription{
		{
			Description: "Netflix",
			Amount:      decimal.RequireFromString("1500"),
			LastPaid:    civil.Date{Year: 2025, Month: time.March, Day: 10},
		},
		{
			Description: "Spotify",
			Amount:      decimal.RequireFromString("999"),
			LastPaid:    civil.Date{Year: 2025, Month: time.March, Day: 7},
		},
		{
			Description: "Gym",
			Amount:      decimal.RequireFromString("4000"),
			LastPaid:    civil.Date{Year: 2025, Month: time.February, Day: 1},
		},
	}

	totals := MonthlyTotals(subs)

	if len(totals) != 2 {
		t.Fatalf("got %d months, want 2", len(totals))
	}
	if totals[0].Month != "2025-02" || !totals[0].Total.Equal(decimal.RequireFromString("4000")) {
		t.Errorf("totals[0] = %s %s, want 2025-02 4000", totals[0].Month, totals[0].Total)
	}
	if totals[1].Month != "2025-03" || !totals[1].Total.Equal(decimal.RequireFromString("2499")) {
		t.Errorf("totals[1] = %s %s, want 2025-03 2499", totals[1].Month, totals[1].Total)
	}
}

func TestMonthlyTotals_Empty(t *testing.T) {
	if totals := MonthlyTotals(nil); len(totals) != 0 {
		t.Errorf("got %d months for empty input, want 0", len(totals))
	}
}
