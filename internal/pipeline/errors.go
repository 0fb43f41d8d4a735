package pipeline

import (
	"fmt"
)

// Operation names recorded in ResponseFormatError.Op.
const (
	opDetect       = "detect subscriptions"
	opAlternatives = "suggest alternatives"
	opReminders    = "generate reminders"
)

// ResponseFormatError reports a model response that is not valid JSON or
// does not match the expected schema for the requesting operation. It always
// carries the complete raw response text so a prompt/schema mismatch can be
// diagnosed from the error alone. The operation that produced it is
// abandoned; nothing is retried and no partial result is returned.
type ResponseFormatError struct {
	Op  string // model operation that produced the response
	Raw string // full raw response text
	Err error  // underlying parse or validation failure
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("%s: could not parse model response: %v\nraw response:\n%s", e.Op, e.Err, e.Raw)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}
