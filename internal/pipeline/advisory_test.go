package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/subscope/internal/domain"
)

func testSubscriptions() []domain.Subscription {
	return []domain.Subscription{
		{
			Description:          "Netflix",
			Amount:               decimal.RequireFromString("1500"),
			LastPaid:             civil.Date{Year: 2025, Month: time.March, Day: 10},
			NextEstimatedPayment: civil.Date{Year: 2025, Month: time.April, Day: 10},
		},
		{
			Description:          "Spotify",
			Amount:               decimal.RequireFromString("999"),
			LastPaid:             civil.Date{Year: 2025, Month: time.March, Day: 7},
			NextEstimatedPayment: civil.Date{Year: 2025, Month: time.April, Day: 7},
		},
	}
}

func TestSavingTips(t *testing.T) {
	tips := SavingTips(testSubscriptions())

	want := []string{
		"You are paying 1500 for: Netflix.",
		"You are paying 999 for: Spotify.",
	}
	if len(tips) != len(want) {
		t.Fatalf("got %d tips, want %d", len(tips), len(want))
	}
	for i := range want {
		if tips[i].Text != want[i] {
			t.Errorf("tip %d = %q, want %q", i, tips[i].Text, want[i])
		}
		if tips[i].Kind != domain.AdvisorySaving {
			t.Errorf("tip %d kind = %q, want %q", i, tips[i].Kind, domain.AdvisorySaving)
		}
	}
	if tips[0].Subscription != "Netflix" {
		t.Errorf("tip 0 bound to %q, want Netflix", tips[0].Subscription)
	}
}

func TestSavingTips_Empty(t *testing.T) {
	if tips := SavingTips(nil); len(tips) != 0 {
		t.Errorf("got %d tips for empty input, want 0", len(tips))
	}
}

func TestSuggestAlternatives(t *testing.T) {
	gen := &fakeGenerator{response: `[
		{"description":"Netflix","amount":"1500","suggestion":"Watch free catch-up TV instead."},
		{"description":"Spotify","amount":"999","suggestion":"Use YouTube Music Free with ads."}
	]`}

	items, err := newTestAnalyzer(gen).SuggestAlternatives(context.Background(), testSubscriptions())
	if err != nil {
		t.Fatalf("SuggestAlternatives failed: %v", err)
	}

	want := []string{
		"You pay 1500 for Netflix. Watch free catch-up TV instead.",
		"You pay 999 for Spotify. Use YouTube Music Free with ads.",
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i].Text != want[i] {
			t.Errorf("item %d = %q, want %q", i, items[i].Text, want[i])
		}
		if items[i].Kind != domain.AdvisoryAlternative {
			t.Errorf("item %d kind = %q, want %q", i, items[i].Kind, domain.AdvisoryAlternative)
		}
	}
	if items[1].Subscription != "Spotify" {
		t.Errorf("item 1 bound to %q, want Spotify", items[1].Subscription)
	}
}

func TestSuggestAlternatives_PromptCarriesSubscriptions(t *testing.T) {
	gen := &fakeGenerator{response: `[]`}
	if _, err := newTestAnalyzer(gen).SuggestAlternatives(context.Background(), testSubscriptions()); err != nil {
		t.Fatalf("SuggestAlternatives failed: %v", err)
	}

	prompt := gen.prompts[0]
	for _, want := range []string{`"description": "Netflix"`, `"amount": "1500"`, `"last_paid": "2025-03-10"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSuggestAlternatives_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I cannot help with that."},
		{"missing suggestion", `[{"description":"Netflix","amount":"1500"}]`},
		{"empty suggestion", `[{"description":"Netflix","amount":"1500","suggestion":""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{response: tt.response}
			_, err := newTestAnalyzer(gen).SuggestAlternatives(context.Background(), testSubscriptions())
			var respErr *ResponseFormatError
			if !errors.As(err, &respErr) {
				t.Fatalf("error = %v, want *ResponseFormatError", err)
			}
			if respErr.Raw != tt.response {
				t.Errorf("raw = %q, want the full response text", respErr.Raw)
			}
		})
	}
}

func TestReminders(t *testing.T) {
	gen := &fakeGenerator{response: `[
		{"description":"Netflix","amount":"1500","next_estimated_payment":"2025-04-10",
		 "reminder":"Reminder: Your Netflix subscription (1500) is expected around 2025-04-10.",
		 "suggestion":"Watch free catch-up TV instead."},
		{"description":"Spotify","amount":"999","next_estimated_payment":"2025-04-07",
		 "reminder":"Reminder: Your Spotify subscription (999) is expected around 2025-04-07."}
	]`}

	items, err := newTestAnalyzer(gen).Reminders(context.Background(), testSubscriptions())
	if err != nil {
		t.Fatalf("Reminders failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if want := "Reminder: Your Netflix subscription (1500) is expected around 2025-04-10.\nWatch free catch-up TV instead."; items[0].Text != want {
		t.Errorf("item 0 = %q, want %q", items[0].Text, want)
	}
	// No suggestion: the display unit is just the reminder.
	if want := "Reminder: Your Spotify subscription (999) is expected around 2025-04-07."; items[1].Text != want {
		t.Errorf("item 1 = %q, want %q", items[1].Text, want)
	}
	if items[0].Kind != domain.AdvisoryReminder || items[0].Subscription != "Netflix" {
		t.Errorf("item 0 = %+v, want a reminder bound to Netflix", items[0])
	}
}

func TestReminders_Malformed(t *testing.T) {
	gen := &fakeGenerator{response: `[{"description":"Netflix","amount":"1500","reminder":"hi"}]`}
	_, err := newTestAnalyzer(gen).Reminders(context.Background(), testSubscriptions())
	var respErr *ResponseFormatError
	if !errors.As(err, &respErr) {
		t.Fatalf("error = %v, want *ResponseFormatError", err)
	}
}

func TestAdvisoryGenerators_EmptyInput(t *testing.T) {
	gen := &fakeGenerator{response: `[]`}
	a := newTestAnalyzer(gen)
	ctx := context.Background()

	alternatives, err := a.SuggestAlternatives(ctx, nil)
	if err != nil || len(alternatives) != 0 {
		t.Errorf("SuggestAlternatives(nil) = %v, %v; want empty, nil", alternatives, err)
	}
	reminders, err := a.Reminders(ctx, nil)
	if err != nil || len(reminders) != 0 {
		t.Errorf("Reminders(nil) = %v, %v; want empty, nil", reminders, err)
	}
	if gen.calls != 0 {
		t.Errorf("got %d model calls for empty input, want 0", gen.calls)
	}
}

func TestAdvisoryGenerators_Idempotent(t *testing.T) {
	response := `[{"description":"Netflix","amount":"1500","suggestion":"Watch free catch-up TV instead."}]`
	subs := testSubscriptions()[:1]
	ctx := context.Background()

	first, err := newTestAnalyzer(&fakeGenerator{response: response}).SuggestAlternatives(ctx, subs)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := newTestAnalyzer(&fakeGenerator{response: response}).SuggestAlternatives(ctx, subs)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("item %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestComposeReminderEmail(t *testing.T) {
	got := ComposeReminderEmail([]domain.AdvisoryItem{
		{Kind: domain.AdvisoryReminder, Subscription: "Netflix", Text: "first"},
		{Kind: domain.AdvisoryReminder, Subscription: "Spotify", Text: "second"},
	})
	if got != "first\nsecond" {
		t.Errorf("ComposeReminderEmail = %q", got)
	}
	if ComposeReminderEmail(nil) != "" {
		t.Error("ComposeReminderEmail(nil) should be empty")
	}
}
