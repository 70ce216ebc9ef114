package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	ROLE_MEMBER = "member"
	ROLE_ADMIN  = "admin"
)

type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"uniqueIndex;type:varchar(80);not null" json:"username" validate:"required,min=3,max=80"`
	Email       string     `gorm:"uniqueIndex;type:varchar(120);not null" json:"email" validate:"required,email,max=120"`
	Password    string     `gorm:"type:varchar(255);not null" json:"-" validate:"required"`
	Role        string     `gorm:"type:varchar(20);not null" json:"role" validate:"oneof=member admin"`
	Active      bool       `gorm:"not null" json:"active"`
	Bio         string     `gorm:"type:text" json:"bio" validate:"max=500"`
	AvatarURL   string     `gorm:"type:varchar(255)" json:"avatar_url" validate:"max=255"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// NewMember builds an active member account with a hashed password.
func NewMember(username string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username: username,
		Email:    email,
		Password: pw,
		Role:     ROLE_MEMBER,
		Active:   true,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}

// IsActive reports whether the account may log in
func (u *User) IsActive() bool {
	return u.Active
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}
