package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookmarkedPost is an entry in a user's reading list.
// The combination of UserID and PostID must be unique.
type BookmarkedPost struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_post" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_post" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns an ID when the caller did not.
func (b *BookmarkedPost) BeforeCreate(_ *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
