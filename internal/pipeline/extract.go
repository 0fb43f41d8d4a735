// Package pipeline turns raw transaction records into a normalized
// subscription model and generates advisory text on top of it. All model
// calls go through the TextGenerator boundary; everything else in the
// package is deterministic.
package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/subscope/internal/calendar"
	"github.com/dvloznov/subscope/internal/domain"
)

// Analyzer runs the subscription inference and advisory operations for one
// analysis session. It holds no per-session state; the same Analyzer serves
// every session.
type Analyzer struct {
	gen TextGenerator
	log zerolog.Logger
}

// NewAnalyzer creates an Analyzer backed by the given inference capability.
func NewAnalyzer(gen TextGenerator, log zerolog.Logger) *Analyzer {
	return &Analyzer{gen: gen, log: log}
}

// Extract submits the transaction records to the model and parses its
// response into validated subscriptions. An empty record set returns an
// empty result without any model call. Any element of the response that
// fails validation aborts the whole extraction with *ResponseFormatError;
// silently dropping malformed entries would produce misleading advice.
func (a *Analyzer) Extract(ctx context.Context, records []domain.TransactionRecord) ([]domain.Subscription, error) {
	if len(records) == 0 {
		return []domain.Subscription{}, nil
	}

	csvData, err := recordsToCSV(records)
	if err != nil {
		return nil, fmt.Errorf("extract: serializing records: %w", err)
	}

	raw, err := a.gen.GenerateText(ctx, buildDetectPrompt(csvData))
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	elements, err := parseJSONArray(raw)
	if err != nil {
		return nil, &ResponseFormatError{Op: opDetect, Raw: raw, Err: err}
	}

	subs := make([]domain.Subscription, 0, len(elements))
	for i, obj := range elements {
		sub, err := subscriptionFromElement(obj)
		if err != nil {
			return nil, &ResponseFormatError{Op: opDetect, Raw: raw, Err: fmt.Errorf("element %d: %w", i, err)}
		}
		subs = append(subs, sub)
	}

	a.log.Info().Int("records", len(records)).Int("subscriptions", len(subs)).Msg("Subscriptions detected")
	return subs, nil
}

// subscriptionFromElement validates one model output object and converts it
// into a Subscription. If the model's next_estimated_payment does not fall
// after last_paid, it is recomputed as last_paid plus one calendar month.
func subscriptionFromElement(obj map[string]interface{}) (domain.Subscription, error) {
	desc, err := getStringField(obj, "description")
	if err != nil {
		return domain.Subscription{}, err
	}
	amount, err := getDecimalField(obj, "amount")
	if err != nil {
		return domain.Subscription{}, err
	}
	lastPaid, err := getDateField(obj, "last_paid")
	if err != nil {
		return domain.Subscription{}, err
	}
	next, err := getDateField(obj, "next_estimated_payment")
	if err != nil {
		return domain.Subscription{}, err
	}

	if !next.After(lastPaid) {
		next = calendar.NextPayment(lastPaid)
	}

	sub := domain.Subscription{
		Description:          desc,
		Amount:               amount,
		LastPaid:             lastPaid,
		NextEstimatedPayment: next,
	}
	if err := sub.Validate(); err != nil {
		return domain.Subscription{}, err
	}
	return sub, nil
}

// recordsToCSV renders the records back into the compact tabular text form
// the detection prompt embeds: the discovered header row followed by every
// data row, all columns included.
func recordsToCSV(records []domain.TransactionRecord) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(records[0].Columns); err != nil {
		return "", err
	}
	for _, rec := range records {
		if err := w.Write(rec.Values); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// parseJSONArray strips any Markdown code-fence wrapping from the model
// response and decodes it as a JSON array of objects. Numbers are kept as
// json.Number so amounts never round-trip through float64.
func parseJSONArray(raw string) ([]map[string]interface{}, error) {
	clean := stripCodeFence(raw)

	dec := json.NewDecoder(strings.NewReader(clean))
	dec.UseNumber()

	var elements []map[string]interface{}
	if err := dec.Decode(&elements); err != nil {
		return nil, fmt.Errorf("unmarshal JSON array: %w", err)
	}
	return elements, nil
}

// stripCodeFence removes ```json ... ``` (or bare ```) wrappers that models
// add even when told not to. If junk still surrounds the array, only the
// text from the first '[' to the last ']' is kept.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
