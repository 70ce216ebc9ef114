package models

import "time"

// Like exists at most once per (user, post); the composite unique index
// idx_like_user_post guards concurrent toggles.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_like_user_post;not null" json:"user_id"`
	PostID    uint      `gorm:"uniqueIndex:idx_like_user_post;index;not null" json:"post_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
