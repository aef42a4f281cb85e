package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag groups posts under a named topic.
type Tag struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Description   string    `gorm:"size:2000" json:"description,omitempty" validate:"max=2000"`
	CoverImageURL string    `gorm:"size:2048" json:"cover_image_url,omitempty" validate:"omitempty,url"`

	Posts []Post `gorm:"many2many:post_tags;" json:"-" validate:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns an ID when the caller did not.
func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
