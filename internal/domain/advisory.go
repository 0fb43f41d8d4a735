package domain

// AdvisoryKind distinguishes the three kinds of generated advisory text.
type AdvisoryKind string

const (
	AdvisorySaving      AdvisoryKind = "saving"
	AdvisoryAlternative AdvisoryKind = "alternative"
	AdvisoryReminder    AdvisoryKind = "reminder"
)

// AdvisoryItem is derived display text bound to exactly one subscription.
// Items are regenerated on demand and never cached or persisted.
type AdvisoryItem struct {
	Kind         AdvisoryKind `json:"kind"`
	Subscription string       `json:"subscription"`
	Text         string       `json:"text"`
}
