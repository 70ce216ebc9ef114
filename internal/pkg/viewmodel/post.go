package viewmodel

import (
	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/internal/pkg/validation"
)

// PostDetail is everything rendered on the single post page.
type PostDetail struct {
	Post      *models.Post
	Comments  []models.Comment
	Similar   []models.Post
	Liked     bool
	LikeCount int64
	CanEdit   bool
}

// PostForm backs the create and edit form.
type PostForm struct {
	Input      validation.PostInput
	Errors     map[string]string
	Action     string
	Editing    bool
	CoverImage string
}

// NewPostForm fills the form from an existing post.
func NewPostForm(p *models.Post, action string) PostForm {
	return PostForm{
		Input: validation.PostInput{
			Title:    p.Title,
			Content:  p.Content,
			Excerpt:  p.Excerpt,
			Category: p.Category,
			Tags:     p.Tags,
			Publish:  p.Published,
		},
		Action:     action,
		Editing:    true,
		CoverImage: p.CoverImage,
	}
}
