package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/subscope/internal/domain"
)

// SavingTips returns one saving advisory per subscription. This is pure
// formatting; no model call is made and the result is deterministic.
func SavingTips(subs []domain.Subscription) []domain.AdvisoryItem {
	items := make([]domain.AdvisoryItem, 0, len(subs))
	for _, s := range subs {
		items = append(items, domain.AdvisoryItem{
			Kind:         domain.AdvisorySaving,
			Subscription: s.Description,
			Text:         fmt.Sprintf("You are paying %s for: %s.", s.Amount, s.Description),
		})
	}
	return items
}

// SuggestAlternatives asks the model for a cheaper or free alternative per
// subscription and returns one advisory per element, bound to the
// subscription the model described. An empty subscription set returns an
// empty result without any model call.
func (a *Analyzer) SuggestAlternatives(ctx context.Context, subs []domain.Subscription) ([]domain.AdvisoryItem, error) {
	if len(subs) == 0 {
		return []domain.AdvisoryItem{}, nil
	}

	subsJSON, err := marshalSubscriptions(subs)
	if err != nil {
		return nil, fmt.Errorf("alternatives: %w", err)
	}

	raw, err := a.gen.GenerateText(ctx, buildAlternativesPrompt(subsJSON))
	if err != nil {
		return nil, fmt.Errorf("alternatives: %w", err)
	}

	elements, err := parseJSONArray(raw)
	if err != nil {
		return nil, &ResponseFormatError{Op: opAlternatives, Raw: raw, Err: err}
	}

	items := make([]domain.AdvisoryItem, 0, len(elements))
	for i, obj := range elements {
		desc, err := getStringField(obj, "description")
		if err != nil {
			return nil, &ResponseFormatError{Op: opAlternatives, Raw: raw, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		amount, err := getDecimalField(obj, "amount")
		if err != nil {
			return nil, &ResponseFormatError{Op: opAlternatives, Raw: raw, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		suggestion, err := getStringField(obj, "suggestion")
		if err != nil {
			return nil, &ResponseFormatError{Op: opAlternatives, Raw: raw, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		items = append(items, domain.AdvisoryItem{
			Kind:         domain.AdvisoryAlternative,
			Subscription: desc,
			Text:         fmt.Sprintf("You pay %s for %s. %s", amount, desc, suggestion),
		})
	}

	return items, nil
}

// Reminders asks the model for a reminder message per subscription and
// returns one advisory per element: the reminder text, followed by the
// cheaper-alternative suggestion when the model provided one. An empty
// subscription set returns an empty result without any model call.
func (a *Analyzer) Reminders(ctx context.Context, subs []domain.Subscription) ([]domain.AdvisoryItem, error) {
	if len(subs) == 0 {
		return []domain.AdvisoryItem{}, nil
	}

	subsJSON, err := marshalSubscriptions(subs)
	if err != nil {
		return nil, fmt.Errorf("reminders: %w", err)
	}

	raw, err := a.gen.GenerateText(ctx, buildRemindersPrompt(subsJSON))
	if err != nil {
		return nil, fmt.Errorf("reminders: %w", err)
	}

	elements, err := parseJSONArray(raw)
	if err != nil {
		return nil, &ResponseFormatError{Op: opReminders, Raw: raw, Err: err}
	}

	items := make([]domain.AdvisoryItem, 0, len(elements))
	for i, obj := range elements {
		desc, err := getStringField(obj, "description")
		if err != nil {
			return nil, &ResponseFormatError{Op: opReminders, Raw: raw, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		if _, err := getDecimalField(obj, "amount"); err != nil {
			return nil, &ResponseFormatError{Op: opReminders, Raw: raw, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		if _, err := getDateField(obj, "next_estimated_payment"); err != nil {
			return nil, &ResponseFormatError{Op: opReminders, Raw: raw, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		reminder, err := getStringField(obj, "reminder")
		if err != nil {
			return nil, &ResponseFormatError{Op: opReminders, Raw: raw, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		suggestion, err := getOptionalStringField(obj, "suggestion")
		if err != nil {
			return nil, &ResponseFormatError{Op: opReminders, Raw: raw, Err: fmt.Errorf("element %d: %w", i, err)}
		}

		text := reminder
		if suggestion != "" {
			text = reminder + "\n" + suggestion
		}
		items = append(items, domain.AdvisoryItem{
			Kind:         domain.AdvisoryReminder,
			Subscription: desc,
			Text:         text,
		})
	}

	return items, nil
}

// AdvisoryTexts flattens advisories into the display lines the presentation
// shell renders.
func AdvisoryTexts(items []domain.AdvisoryItem) []string {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.Text)
	}
	return texts
}

// ComposeReminderEmail joins reminder advisories into one message body,
// ready to show as a simulated reminder e-mail.
func ComposeReminderEmail(items []domain.AdvisoryItem) string {
	return strings.Join(AdvisoryTexts(items), "\n")
}

// marshalSubscriptions serializes subscriptions in the exact JSON shape the
// model first produced them in: amounts as strings, dates as "YYYY-MM-DD".
func marshalSubscriptions(subs []domain.Subscription) (string, error) {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal subscriptions: %w", err)
	}
	return string(data), nil
}
