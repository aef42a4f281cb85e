// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus is the publication state of a post.
type PostStatus string

// Post statuses. Deleted marks a soft-deleted post whose row is kept.
const (
	PostStatusPublished PostStatus = "Published"
	PostStatusDraft     PostStatus = "Draft"
	PostStatusDeleted   PostStatus = "Deleted"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusPublished, PostStatusDraft, PostStatusDeleted:
		return true
	}
	return false
}

// DeleteMode selects between flipping a post's status and removing its row.
type DeleteMode string

// Delete modes for posts.
const (
	DeleteSoft DeleteMode = "Soft"
	DeleteHard DeleteMode = "Hard"
)

// PostSortOption names the orderings available to post listings.
type PostSortOption string

// Post sort options. Anything else falls back to PostSortMostRecent.
const (
	PostSortMostRecent   PostSortOption = "MostRecent"
	PostSortMostComments PostSortOption = "MostComments"
	PostSortMostLiked    PostSortOption = "MostLiked"
	PostSortMostViews    PostSortOption = "MostViews"
)

// Post represents a blog post.
type Post struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string     `gorm:"size:1000;not null" json:"title" validate:"required,min=5,max=1000"`
	Content       string     `gorm:"type:text;not null" json:"content" validate:"required,min=10,max=50000"`
	CoverImageURL string     `gorm:"size:2048" json:"cover_image_url,omitempty" validate:"omitempty,url"`
	PublishedOn   time.Time  `gorm:"not null;index" json:"published_on" validate:"notfuture"`
	LastEditedOn  *time.Time `json:"last_edited_on,omitempty"`
	Status        PostStatus `gorm:"size:16;not null;default:Published;index" json:"status" validate:"oneof=Published Draft Deleted"`
	Views         uint       `gorm:"not null;default:0" json:"views"`
	// LikeCount mirrors the number of like rows targeting this post.
	LikeCount uint `gorm:"not null;default:0" json:"like_count"`

	Tags      []Tag            `gorm:"many2many:post_tags;" json:"tags,omitempty" validate:"-"`
	Comments  []Comment        `gorm:"foreignKey:PostID" json:"-" validate:"-"`
	Likes     []Like           `gorm:"foreignKey:PostID" json:"-" validate:"-"`
	Bookmarks []BookmarkedPost `gorm:"foreignKey:PostID" json:"-" validate:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns an ID when the caller did not.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// LikeTarget implements Likeable.
func (p *Post) LikeTarget() LikeTarget {
	return LikeTarget{Kind: LikeTargetPost, ID: p.ID}
}

// GetLikes implements Likeable.
func (p *Post) GetLikes() []Like { return p.Likes }

// GetLikeCount implements Likeable.
func (p *Post) GetLikeCount() uint { return p.LikeCount }

// SetLikeCount implements Likeable.
func (p *Post) SetLikeCount(n uint) { p.LikeCount = n }

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
