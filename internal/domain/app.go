package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// App is an owner-scoped bookmark. Index is the zero-based rank among the
// owner's live apps; Resequence rewrites the whole 0..N-1 permutation at once.
type App struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:30;not null" json:"name"`
	URL         string  `gorm:"size:255;not null" json:"url"`
	Description *string `gorm:"size:255" json:"description"`
	Icon        *string `gorm:"size:255" json:"icon"`
	Index       int     `gorm:"column:index;not null" json:"index"`
	OwnerID     int64   `gorm:"index;not null" json:"ownerId"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (App) TableName() string { return "apps" }

// AppRepository scopes every read and write by owner id at the query
// predicate. There is deliberately no lookup by bare app id.
type AppRepository interface {
	Create(ctx context.Context, a *App) error
	FindOwnedByID(ctx context.Context, ownerID, id int64) (*App, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]App, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	Update(ctx context.Context, a *App) error
	SoftDelete(ctx context.Context, ownerID, id int64) error
	// Resequence assigns index=i to orderedIDs[i] in one transaction.
	// orderedIDs must be the full permutation of the owner's live apps.
	Resequence(ctx context.Context, ownerID int64, orderedIDs []int64) error
}
