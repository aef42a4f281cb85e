package models

import (
	"errors"

	"github.com/google/uuid"
)

// ErrUnknownLikeTarget is returned for a LikeTargetKind with no registered column.
var ErrUnknownLikeTarget = errors.New("unknown like target kind")

// LikeTargetKind discriminates the entity type a like points at.
type LikeTargetKind string

// Known like target kinds.
const (
	LikeTargetPost    LikeTargetKind = "post"
	LikeTargetComment LikeTargetKind = "comment"
)

// LikeTarget identifies one likeable entity.
type LikeTarget struct {
	Kind LikeTargetKind
	ID   uuid.UUID
}

// Likeable is implemented by entities that carry likes and a denormalized like counter.
type Likeable interface {
	LikeTarget() LikeTarget
	GetLikes() []Like
	GetLikeCount() uint
	SetLikeCount(n uint)
}

var (
	_ Likeable = (*Post)(nil)
	_ Likeable = (*Comment)(nil)
)
