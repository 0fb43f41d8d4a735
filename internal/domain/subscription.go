package domain

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Subscription is an inferred recurring payment obligation. Amounts use
// decimal arithmetic so that repeated monthly projections never accumulate
// float rounding drift. Dates are calendar dates with no time component.
//
// A Subscription is identified by its Description (exact, case-sensitive)
// within a single analysis session. It is read-only after construction.
type Subscription struct {
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount"`
	LastPaid             civil.Date      `json:"last_paid"`
	NextEstimatedPayment civil.Date      `json:"next_estimated_payment"`
}

// Validate checks the Subscription invariants: non-empty description,
// non-negative amount, and a next payment strictly after the last one.
func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Description) == "" {
		return fmt.Errorf("subscription: empty description")
	}
	if s.Amount.IsNegative() {
		return fmt.Errorf("subscription %q: negative amount %s", s.Description, s.Amount)
	}
	if !s.NextEstimatedPayment.After(s.LastPaid) {
		return fmt.Errorf("subscription %q: next payment %s is not after last payment %s",
			s.Description, s.NextEstimatedPayment, s.LastPaid)
	}
	return nil
}
