package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wego/internal/domain"
)

type AppRepo struct{ db *gorm.DB }

func NewAppRepo(db *gorm.DB) *AppRepo { return &AppRepo{db: db} }

func (r *AppRepo) Create(ctx context.Context, a *domain.App) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return domain.Wrap(domain.KindInternal, "create app failed", err)
	}
	return nil
}

// FindOwnedByID is the single owner-scoped lookup for apps; a row owned by
// somebody else is indistinguishable from an absent one.
func (r *AppRepo) FindOwnedByID(ctx context.Context, ownerID, id int64) (*domain.App, error) {
	var a domain.App
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.E(domain.KindNotFound, "app not found")
	}
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "find app failed", err)
	}
	return &a, nil
}

func (r *AppRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.App, error) {
	var apps []domain.App
	// index is reserved in both supported dialects; let gorm quote it.
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "index"}}).
		Find(&apps).Error
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "list apps failed", err)
	}
	return apps, nil
}

func (r *AppRepo) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.App{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error
	if err != nil {
		return 0, domain.Wrap(domain.KindInternal, "count apps failed", err)
	}
	return total, nil
}

func (r *AppRepo) Update(ctx context.Context, a *domain.App) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return domain.Wrap(domain.KindInternal, "update app failed", err)
	}
	return nil
}

func (r *AppRepo) SoftDelete(ctx context.Context, ownerID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.App{})
	if res.Error != nil {
		return domain.Wrap(domain.KindInternal, "delete app failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.E(domain.KindNotFound, "app not found")
	}
	return nil
}

// Resequence rewrites the owner's ranking as one transaction. The supplied ids
// must be the complete permutation of the owner's live apps: a missing, extra,
// duplicated or foreign id aborts with nothing written. Locking the owner's
// rows up front serializes concurrent resequences for the same owner.
func (r *AppRepo) Resequence(ctx context.Context, ownerID int64, orderedIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ownedIDs []int64
		err := tx.Model(&domain.App{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ?", ownerID).
			Order("id").
			Pluck("id", &ownedIDs).Error
		if err != nil {
			return domain.Wrap(domain.KindInternal, "lock apps failed", err)
		}

		if len(orderedIDs) != len(ownedIDs) {
			return domain.E(domain.KindValidation, "ordering must include every app exactly once")
		}
		owned := make(map[int64]struct{}, len(ownedIDs))
		for _, id := range ownedIDs {
			owned[id] = struct{}{}
		}
		seen := make(map[int64]struct{}, len(orderedIDs))
		for _, id := range orderedIDs {
			if _, dup := seen[id]; dup {
				return domain.E(domain.KindValidation, "ordering must include every app exactly once")
			}
			seen[id] = struct{}{}
			if _, ok := owned[id]; !ok {
				return domain.E(domain.KindNotFound, "app not found")
			}
		}

		for i, id := range orderedIDs {
			err := tx.Model(&domain.App{}).
				Where("id = ? AND owner_id = ?", id, ownerID).
				Update("index", i).Error
			if err != nil {
				return domain.Wrap(domain.KindInternal, "update app index failed", err)
			}
		}
		return nil
	})
}
