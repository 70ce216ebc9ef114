package utils

import (
	"regexp"
	"strings"
)

// contentClasses maps post content elements to their Tailwind classes.
var contentClasses = map[string]string{
	"h1":         "text-4xl font-bold mb-4 mt-6",
	"h2":         "text-3xl font-bold mb-3 mt-5",
	"h3":         "text-2xl font-bold mb-2 mt-4",
	"h4":         "text-xl font-bold mb-2 mt-3",
	"h5":         "text-lg font-bold mb-1 mt-2",
	"h6":         "text-base font-bold mb-1 mt-2",
	"p":          "mb-4 text-base-content leading-relaxed",
	"ul":         "list-disc list-inside mb-4 ml-4 space-y-2",
	"ol":         "list-decimal list-inside mb-4 ml-4 space-y-2",
	"li":         "text-base-content",
	"blockquote": "border-l-4 border-primary pl-4 italic mb-4 text-base-content/80",
	"code":       "bg-base-200 px-2 py-1 rounded text-sm font-mono",
	"pre":        "bg-base-200 p-4 rounded-lg mb-4 overflow-x-auto",
	"a":          "link link-primary",
	"strong":     "font-bold",
	"em":         "italic",
}

var openTag = regexp.MustCompile(`<(h[1-6]|p|ul|ol|li|blockquote|code|pre|a|strong|em)(\s[^>]*)?>`)

// ProcessHTMLContent adds Tailwind classes to the opening tags of sanitized
// post content. Tags that already carry a class are left alone.
func ProcessHTMLContent(content string) string {
	return openTag.ReplaceAllStringFunc(content, func(tag string) string {
		m := openTag.FindStringSubmatch(tag)
		name, attrs := m[1], m[2]
		if strings.Contains(attrs, "class=") {
			return tag
		}
		return "<" + name + attrs + ` class="` + contentClasses[name] + `">`
	})
}
