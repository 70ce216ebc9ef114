package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedTags are the only elements kept in post content.
var AllowedTags = []string{
	"p", "br", "b", "i", "u", "em", "strong",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"ul", "ol", "li", "a", "blockquote", "code", "pre",
}

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
	strict     = bluemonday.StrictPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedTags...)
	p.AllowNoAttrs().OnElements("a")
	p.AllowAttrs("href", "title", "target").OnElements("a")
	// pages opened from post links get no handle on the opener
	p.RequireNoReferrerOnLinks(true)

	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	return p
}

// Sanitize strips every tag and attribute outside the allow-list. Text content
// of stripped tags is kept, except for script and style bodies.
func Sanitize(html string) string {
	policyOnce.Do(func() {
		policy = newPolicy()
	})
	return policy.Sanitize(html)
}

// StripTags removes all markup and keeps the text, e.g. for listing previews.
func StripTags(html string) string {
	return strict.Sanitize(html)
}
