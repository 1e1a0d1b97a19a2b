package llm

import (
	"context"
	"errors"
	"fmt"

	"grocery-planner/internal/shared"
)

// Request describes one completion call: a system instruction that pins the
// output format, the user prompt, and sampling limits.
type Request struct {
	SystemInstruction string
	Prompt            string
	Temperature       float32
	MaxTokens         int
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, req Request) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// ErrNoResponse indicates the provider answered but returned no content.
var ErrNoResponse = errors.New("no content generated")

// TransportError indicates the call itself failed: DNS, timeout, or a
// non-2xx status. It is terminal for the stage that issued it.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider transport error: status=%d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
