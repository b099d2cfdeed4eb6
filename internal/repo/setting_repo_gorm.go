package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wego/internal/domain"
)

type SettingRepo struct{ db *gorm.DB }

func NewSettingRepo(db *gorm.DB) *SettingRepo { return &SettingRepo{db: db} }

func (r *SettingRepo) FindByOwner(ctx context.Context, ownerID int64) (*domain.Setting, error) {
	var s domain.Setting
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.E(domain.KindNotFound, "setting not found")
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "find setting failed", err)
	}
	return &s, nil
}

func (r *SettingRepo) Upsert(ctx context.Context, s *domain.Setting) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"theme", "bg_image", "bg_blur", "updated_at"}),
		}).
		Create(s).Error
	if err != nil {
		return domain.Wrap(domain.KindInternal, "save setting failed", err)
	}
	return nil
}
