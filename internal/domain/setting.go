package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Setting holds per-user display preferences. One row per owner.
type Setting struct {
	ID      int64   `gorm:"primaryKey" json:"id"`
	Theme   *int    `json:"theme"`
	BgImage *string `gorm:"size:255" json:"bgImage"`
	BgBlur  *int    `json:"bgBlur"`
	OwnerID int64   `gorm:"uniqueIndex;not null" json:"ownerId"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Setting) TableName() string { return "settings" }

type SettingRepository interface {
	FindByOwner(ctx context.Context, ownerID int64) (*Setting, error)
	Upsert(ctx context.Context, s *Setting) error
}
