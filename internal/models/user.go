// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"uniqueIndex;not null;size:30" json:"username"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"not null;default:user" json:"role"`
	Bio       string `gorm:"size:200" json:"bio"`
	AvatarURL string `json:"avatar_url"`
	// PostsCount is denormalized; mutated only through atomic column
	// updates in the repository, never read-modify-write.
	PostsCount int            `gorm:"not null;default:0" json:"posts_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Posts      []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// PublicProfile is the author shape embedded in post and comment responses.
type PublicProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Public returns the safe subset of a user for embedding in responses.
func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Username: u.Username}
}
