package service

import (
	"context"

	"wego/internal/domain"
)

type SettingService struct {
	settings domain.SettingRepository
}

func NewSettingService(settings domain.SettingRepository) *SettingService {
	return &SettingService{settings: settings}
}

type SettingInput struct {
	Theme   *int    `json:"theme"`
	BgImage *string `json:"bgImage"`
	BgBlur  *int    `json:"bgBlur"`
}

// Get returns the owner's settings, or zero values before the first save.
func (s *SettingService) Get(ctx context.Context, operatorID int64) (*domain.Setting, error) {
	st, err := s.settings.FindByOwner(ctx, operatorID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return &domain.Setting{OwnerID: operatorID}, nil
		}
		return nil, err
	}
	return st, nil
}

func (s *SettingService) Update(ctx context.Context, operatorID int64, in SettingInput) (*domain.Setting, error) {
	if in.BgImage != nil && len(*in.BgImage) > 255 {
		return nil, domain.E(domain.KindValidation, "background image must not exceed 255 characters")
	}
	if in.BgBlur != nil && (*in.BgBlur < 0 || *in.BgBlur > 20) {
		return nil, domain.E(domain.KindValidation, "background blur must be 0-20 px")
	}
	st := &domain.Setting{
		Theme:   in.Theme,
		BgImage: in.BgImage,
		BgBlur:  in.BgBlur,
		OwnerID: operatorID,
	}
	if err := s.settings.Upsert(ctx, st); err != nil {
		return nil, err
	}
	// re-read so the response carries the stored row, not the upsert input
	// (ID and timestamps are filled by the database on the conflict path)
	return s.settings.FindByOwner(ctx, operatorID)
}
