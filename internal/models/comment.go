package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentSortOption names the orderings available to comment listings.
type CommentSortOption string

// Comment sort options. Anything else falls back to CommentSortMostRecent.
const (
	CommentSortMostRecent  CommentSortOption = "MostRecent"
	CommentSortMostReplies CommentSortOption = "MostReplies"
	CommentSortMostLiked   CommentSortOption = "MostLiked"
)

// Comment represents a comment on a post, optionally replying to another comment.
type Comment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content         string     `gorm:"size:10000;not null" json:"content" validate:"required,max=10000"`
	WrittenOn       time.Time  `gorm:"not null;index" json:"written_on"`
	LastEditedOn    *time.Time `json:"last_edited_on,omitempty"`
	AuthorID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	PostID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_comment_id,omitempty"`
	LikeCount       uint       `gorm:"not null;default:0" json:"like_count"`

	Replies []Comment `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty" validate:"-"`
	Likes   []Like    `gorm:"foreignKey:CommentID" json:"-" validate:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns an ID and the written-on stamp when missing.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	if c.WrittenOn.IsZero() {
		c.WrittenOn = time.Now().UTC()
	}
	return nil
}

// LikeTarget implements Likeable.
func (c *Comment) LikeTarget() LikeTarget {
	return LikeTarget{Kind: LikeTargetComment, ID: c.ID}
}

// GetLikes implements Likeable.
func (c *Comment) GetLikes() []Like { return c.Likes }

// GetLikeCount implements Likeable.
func (c *Comment) GetLikeCount() uint { return c.LikeCount }

// SetLikeCount implements Likeable.
func (c *Comment) SetLikeCount(n uint) { c.LikeCount = n }
