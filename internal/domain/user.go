package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;size:30;not null" json:"email"`
	PasswordHash string  `gorm:"column:password;size:191;not null" json:"-"`
	Avatar       *string `gorm:"size:255" json:"avatar"`
	IsAdmin      bool    `gorm:"not null;default:false" json:"isAdmin"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// Live reports whether the account has not been tombstoned.
func (u *User) Live() bool { return !u.DeletedAt.Valid }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindLiveByID(ctx context.Context, id int64) (*User, error)
	// FindByLogin matches the unique username or email of a live account.
	FindByLogin(ctx context.Context, login string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	SoftDelete(ctx context.Context, id int64) error
}
