package models

import (
	"strings"
	"time"
)

type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;type:varchar(255);not null" json:"slug"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Excerpt     string     `gorm:"type:varchar(300)" json:"excerpt"`
	Category    string     `gorm:"type:varchar(50);index" json:"category"`
	Tags        string     `gorm:"type:varchar(255)" json:"tags"`
	CoverImage  string     `gorm:"type:varchar(255)" json:"cover_image"`
	Published   bool       `gorm:"index;not null" json:"published"`
	PublishedAt *time.Time `gorm:"index" json:"published_at"`
	Views       int64      `gorm:"not null;default:0" json:"views"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// MarkPublished sets the published flag and stamps PublishedAt on the first
// publish only. Unpublishing keeps the original timestamp.
func (p *Post) MarkPublished(published bool, now time.Time) {
	p.Published = published
	if published && p.PublishedAt == nil {
		t := now.UTC()
		p.PublishedAt = &t
	}
}

// TagList splits the comma separated tags
func (p *Post) TagList() []string {
	var tags []string
	for _, t := range strings.Split(p.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
