package models

import "strings"

const (
	CATEGORY_TECHNOLOGY    = "technology"
	CATEGORY_LIFESTYLE     = "lifestyle"
	CATEGORY_TRAVEL        = "travel"
	CATEGORY_FOOD          = "food"
	CATEGORY_HEALTH        = "health"
	CATEGORY_BUSINESS      = "business"
	CATEGORY_ENTERTAINMENT = "entertainment"
	CATEGORY_EDUCATION     = "education"
)

// CategoryNames is the fixed set of post categories in display order.
var CategoryNames = []string{
	CATEGORY_TECHNOLOGY,
	CATEGORY_LIFESTYLE,
	CATEGORY_TRAVEL,
	CATEGORY_FOOD,
	CATEGORY_HEALTH,
	CATEGORY_BUSINESS,
	CATEGORY_ENTERTAINMENT,
	CATEGORY_EDUCATION,
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;type:varchar(50);not null" json:"name"`
}

// Label returns the human readable name, e.g. "Technology"
func (c Category) Label() string {
	return CategoryLabel(c.Name)
}

// IsValidCategory reports whether name is one of CategoryNames
func IsValidCategory(name string) bool {
	for _, n := range CategoryNames {
		if n == name {
			return true
		}
	}
	return false
}

func CategoryLabel(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
