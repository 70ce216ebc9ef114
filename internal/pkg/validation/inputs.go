package validation

import (
	"strings"

	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
)

// PostInput is the author supplied part of a post.
type PostInput struct {
	Title    string `form:"title" validate:"required,max=200"`
	Content  string `form:"content" validate:"required"`
	Excerpt  string `form:"excerpt" validate:"max=300"`
	Category string `form:"category" validate:"required,category"`
	Tags     string `form:"tags" validate:"max=255"`
	Publish  bool   `form:"is_published"`
}

// Normalize trims the text fields and rewrites tags as "a, b, c".
func (in *PostInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.Tags = strings.Join((&models.Post{Tags: in.Tags}).TagList(), ", ")
}

func ValidatePost(in PostInput) []apperrors.FieldError {
	return check(in)
}

type CommentInput struct {
	Content  string `form:"content" validate:"required,min=1,max=1000"`
	ParentID *uint  `form:"parent_id"`
}

func (in *CommentInput) Normalize() {
	in.Content = strings.TrimSpace(in.Content)
	if in.ParentID != nil && *in.ParentID == 0 {
		in.ParentID = nil
	}
}

func ValidateComment(in CommentInput) []apperrors.FieldError {
	return check(in)
}

type RegisterInput struct {
	Username        string `form:"username" validate:"required,min=3,max=80"`
	Email           string `form:"email" validate:"required,email,max=120"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

func (in *RegisterInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

func ValidateRegister(in RegisterInput) []apperrors.FieldError {
	return check(in)
}

type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func (in *LoginInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

func ValidateLogin(in LoginInput) []apperrors.FieldError {
	return check(in)
}

// ProfileInput leaves Password empty to keep the current one.
type ProfileInput struct {
	Username        string `form:"username" validate:"required,min=3,max=80"`
	Bio             string `form:"bio" validate:"max=500"`
	Password        string `form:"password" validate:"omitempty,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password"`
}

func (in *ProfileInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Bio = strings.TrimSpace(in.Bio)
}

func ValidateProfile(in ProfileInput) []apperrors.FieldError {
	return check(in)
}
