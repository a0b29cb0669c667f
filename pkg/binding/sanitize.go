package binding

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy

	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// StrictHTML returns a sanitizer that strips all markup from substituted
// values. Use it when bound text lands in an HTML renderer.
func StrictHTML() Sanitizer {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// InlineMarkup returns a sanitizer that keeps basic inline formatting
// (emphasis, links, line breaks) and removes everything else.
func InlineMarkup() Sanitizer {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "s", "code", "br", "span", "small", "sub", "sup")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		markupPolicy = policy
	})
	return markupPolicy
}
