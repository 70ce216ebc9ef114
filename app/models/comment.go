package models

import "time"

// Comment belongs to a post. ParentID has no foreign key constraint so
// replies survive the deletion of their parent.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID" json:"-"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Approved  bool      `gorm:"index;not null" json:"approved"`
	Replies   []Comment `gorm:"-" json:"replies,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// IsTopLevel reports whether the comment has no parent
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}
