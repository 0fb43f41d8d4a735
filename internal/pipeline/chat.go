package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/subscope/internal/domain"
)

// noSubscriptionsAnswer is returned for questions asked before any
// subscriptions were detected, instead of sending the model an empty data set.
const noSubscriptionsAnswer = "No subscriptions were detected in this statement, so there is nothing to ask about yet."

// Answer forwards the subscription set and a free-text question to the model
// and returns its answer verbatim, trimmed of surrounding whitespace. The
// response is free text; no structural validation is applied.
func (a *Analyzer) Answer(ctx context.Context, subs []domain.Subscription, question string) (string, error) {
	if len(subs) == 0 {
		return noSubscriptionsAnswer, nil
	}

	subsJSON, err := marshalSubscriptions(subs)
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}

	raw, err := a.gen.GenerateText(ctx, buildChatPrompt(subsJSON, question))
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}

	return strings.TrimSpace(raw), nil
}
