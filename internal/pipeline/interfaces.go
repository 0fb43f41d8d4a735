package pipeline

import (
	"context"
)

// TextGenerator is the inference capability: a text prompt in, free-form
// text out. The concrete implementation is ai.Client; tests substitute
// deterministic fakes. Every quirk of the capability (code-fence wrapping,
// field omission) is handled on this package's side of the boundary.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
