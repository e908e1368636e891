// Package sanitize turns guest-supplied review bodies into plain text before they
// reach the dashboard or the public property pages.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// PlainText strips every tag and attribute. The policy is safe for concurrent use.
type PlainText struct {
	policy *bluemonday.Policy
}

func NewPlainText() *PlainText {
	return &PlainText{policy: bluemonday.StrictPolicy()}
}

// Sanitize removes markup, then unescapes entities so the JSON carries readable text.
// Empty input yields empty output.
func (p *PlainText) Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(p.policy.Sanitize(s)))
}
