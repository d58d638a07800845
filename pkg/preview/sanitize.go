// Package preview renders generated documents into displayable markup and
// sanitizes everything that came from, or goes back to, the user's browser.
package preview

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Sanitize cleans preview markup so only displayable content survives.
// Service responses are untrusted input: scripts, event handlers, and
// anything else executable is stripped while the article structure (headings,
// lists, tables, images, figure captions) is preserved.
func Sanitize(markup string) string {
	trimmed := strings.TrimSpace(markup)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(markupSanitizer().Sanitize(trimmed))
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements("article", "section", "header", "footer", "figure", "figcaption")
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("style").OnElements("article", "section", "div", "span")
		markupPolicy = policy
	})
	return markupPolicy
}
