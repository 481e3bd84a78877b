// Package parser turns raw email text into order fields. The current
// implementation is a deliberate pass-through: subject becomes the title,
// body becomes the details. A future content-understanding component can
// replace it as long as it honors the same contract.
package parser

import "strings"

// FallbackTitle is used when a message arrives with an empty subject, so the
// order service's non-empty-title rule always holds for imported orders.
const FallbackTitle = "Untitled Order"

// Stub is the pass-through parser. It is a pure function with no failure
// modes: any subject/body pair yields a usable (title, details) pair.
type Stub struct{}

// NewStub returns the pass-through parser.
func NewStub() Stub {
	return Stub{}
}

// Parse maps an email's subject and body to an order's title and details.
// Both are trimmed of surrounding whitespace; an empty subject falls back to
// FallbackTitle and an empty body yields absent details rather than an empty
// string.
func (Stub) Parse(subject, body string) (string, *string) {
	title := strings.TrimSpace(subject)
	if title == "" {
		title = FallbackTitle
	}

	var details *string
	if trimmed := strings.TrimSpace(body); trimmed != "" {
		details = &trimmed
	}

	return title, details
}
