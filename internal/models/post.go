// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post statuses.
const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// Post represents a post in the MiniSocial application.
//
// LikesCount and CommentsCount are denormalized counters kept in sync with
// the likes and comments tables by the repository layer. They are only ever
// mutated through single atomic column updates (likes_count = likes_count + 1),
// never read-modify-write from application code.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	Title    string `gorm:"size:120;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Status   string `gorm:"not null;default:published;index" json:"status"`

	Tags []Tag `gorm:"many2many:post_tags" json:"-"`
	// TagNames and AuthorProfile mirror loaded associations for JSON
	// output; filled after load by SyncDerived.
	TagNames      []string      `gorm:"-" json:"tags"`
	AuthorProfile PublicProfile `gorm:"-" json:"author"`

	LikesCount    int `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int `gorm:"not null;default:0" json:"comments_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SyncDerived refreshes the JSON-only fields from loaded associations.
func (p *Post) SyncDerived() {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	p.TagNames = names
	if p.Author.ID != 0 {
		p.AuthorProfile = p.Author.Public()
	} else {
		p.AuthorProfile = PublicProfile{ID: p.AuthorID}
	}
}

// TrendingScore is the derived ranking value used by the trending feed.
// It is computed at read time and never persisted or returned to clients.
func (p *Post) TrendingScore() int {
	return p.LikesCount*2 + p.CommentsCount*3
}
