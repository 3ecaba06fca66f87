// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post.
type Comment struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PostID uint   `gorm:"not null;index" json:"post_id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Text   string `gorm:"size:1000;not null" json:"text"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Post   Post   `gorm:"foreignKey:PostID" json:"-"`

	// AuthorProfile mirrors User for JSON output; filled after load.
	AuthorProfile PublicProfile `gorm:"-" json:"author"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SyncDerived refreshes the JSON-only author profile from the loaded User.
func (c *Comment) SyncDerived() {
	if c.User.ID != 0 {
		c.AuthorProfile = c.User.Public()
	} else {
		c.AuthorProfile = PublicProfile{ID: c.UserID}
	}
}
