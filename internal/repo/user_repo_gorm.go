package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"wego/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.E(domain.KindConflict, "username or email already taken")
		}
		return domain.Wrap(domain.KindInternal, "create user failed", err)
	}
	return nil
}

func (r *UserRepo) FindLiveByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.E(domain.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "find user failed", err)
	}
	return &u, nil
}

func (r *UserRepo) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.E(domain.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "find user failed", err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, domain.Wrap(domain.KindInternal, "count users failed", err)
	}
	var users []domain.User
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, domain.Wrap(domain.KindInternal, "list users failed", err)
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		if isDupKey(err) {
			return domain.E(domain.KindConflict, "username or email already taken")
		}
		return domain.Wrap(domain.KindInternal, "update user failed", err)
	}
	return nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return domain.Wrap(domain.KindInternal, "update password failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

func (r *UserRepo) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return domain.Wrap(domain.KindInternal, "delete user failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

// isDupKey matches unique violations across drivers without depending on
// gorm.ErrDuplicatedKey being populated by every dialector version.
func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
