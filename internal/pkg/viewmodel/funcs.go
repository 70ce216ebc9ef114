package viewmodel

import (
	"html"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/internal/pkg/sanitizer"
	"github.com/ManuelReschke/PixelPress/internal/pkg/utils"
)

const (
	DateFormat     = "January 02, 2006"
	SummaryLength  = 160
	AvatarFallback = 80

	barUnit = 12
	barMax  = 120
)

// Funcs are the template helpers registered on the html engine.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"content":       Content,
		"date":          FormatDate,
		"categoryLabel": models.CategoryLabel,
		"summary":       Summary,
		"avatar":        Avatar,
		"fieldError":    FieldError,
		"barHeight":     BarHeight,
		"add":           func(a, b int) int { return a + b },
	}
}

// Content marks already sanitized post html as safe and adds the styling
// classes. Anything else is escaped by the template.
func Content(body string) template.HTML {
	return template.HTML(utils.ProcessHTMLContent(body))
}

// FormatDate accepts time.Time and *time.Time, nil renders as empty string.
func FormatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(DateFormat)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(DateFormat)
	}
	return ""
}

// Summary returns the excerpt or a shortened plain text version of the content.
func Summary(p models.Post) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	text := strings.Join(strings.Fields(html.UnescapeString(sanitizer.StripTags(p.Content))), " ")
	if utf8.RuneCountInString(text) <= SummaryLength {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:SummaryLength])) + "..."
}

func Avatar(u models.User) string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return utils.GetGravatarURL(u.Email, AvatarFallback)
}

// FieldError looks up the message for field in a validation error map. A
// missing map renders nothing.
func FieldError(errs any, field string) string {
	m, ok := errs.(map[string]string)
	if !ok {
		return ""
	}
	return m[field]
}

// BarHeight is the pixel height of a chart bar for count.
func BarHeight(count int) int {
	return min(count*barUnit, barMax) + 4
}
