package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrLikeTarget is returned when a like does not reference exactly one entity.
var ErrLikeTarget = errors.New("like must reference exactly one of post or comment")

// Like represents a user's like on either a post or a comment.
// (user_id, post_id) and (user_id, comment_id) are unique.
type Like struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post;uniqueIndex:idx_likes_user_comment" json:"user_id"`
	PostID    *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_likes_user_post" json:"post_id,omitempty"`
	CommentID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_likes_user_comment;check:chk_likes_single_target,(post_id IS NULL) <> (comment_id IS NULL)" json:"comment_id,omitempty"`
	Timestamp time.Time  `gorm:"not null;index" json:"timestamp"`
}

// NewLike binds a like for userID to target, filling the matching foreign key.
func NewLike(userID uuid.UUID, target LikeTarget) (*Like, error) {
	like := &Like{UserID: userID}
	id := target.ID
	switch target.Kind {
	case LikeTargetPost:
		like.PostID = &id
	case LikeTargetComment:
		like.CommentID = &id
	default:
		return nil, ErrUnknownLikeTarget
	}
	return like, nil
}

// Target reports which entity the like references.
func (l *Like) Target() (LikeTarget, error) {
	if err := l.checkTarget(); err != nil {
		return LikeTarget{}, err
	}
	if l.PostID != nil {
		return LikeTarget{Kind: LikeTargetPost, ID: *l.PostID}, nil
	}
	return LikeTarget{Kind: LikeTargetComment, ID: *l.CommentID}, nil
}

func (l *Like) checkTarget() error {
	if (l.PostID == nil) == (l.CommentID == nil) {
		return ErrLikeTarget
	}
	return nil
}

// BeforeCreate assigns an ID and timestamp when missing.
func (l *Like) BeforeCreate(_ *gorm.DB) error {
	ensureID(&l.ID)
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	return nil
}

// BeforeSave rejects likes that do not reference exactly one entity.
func (l *Like) BeforeSave(_ *gorm.DB) error {
	return l.checkTarget()
}
