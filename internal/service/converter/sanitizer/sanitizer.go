package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips dangerous markup from untrusted input.
// Safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewUGC allows common formatting while removing scripts, event handlers
// and javascript: URLs. Used for imported HTML that will become document
// content.
func NewUGC() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	return &Sanitizer{policy: policy}
}

// NewStrict strips all markup. Used for comment bodies, which are stored as
// plain text.
func NewStrict() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns the input with disallowed markup removed
func (s *Sanitizer) Sanitize(input string) string {
	return s.policy.Sanitize(input)
}
