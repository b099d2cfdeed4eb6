package service

import (
	"context"
	"net/url"

	"wego/internal/domain"
)

type AppService struct {
	apps domain.AppRepository
}

func NewAppService(apps domain.AppRepository) *AppService {
	return &AppService{apps: apps}
}

type AppInput struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

type UpdateAppInput struct {
	ID int64 `json:"id,string"`
	AppInput
}

func (in AppInput) check() error {
	if l := len(in.Name); l < 1 || l > 30 {
		return domain.E(domain.KindValidation, "app name must be 1-30 characters")
	}
	if err := checkURL(in.URL); err != nil {
		return err
	}
	if in.Description != nil && len(*in.Description) > 255 {
		return domain.E(domain.KindValidation, "app description must not exceed 255 characters")
	}
	if in.Icon != nil && len(*in.Icon) > 255 {
		return domain.E(domain.KindValidation, "app icon must not exceed 255 characters")
	}
	return nil
}

func checkURL(raw string) error {
	if l := len(raw); l < 1 || l > 255 {
		return domain.E(domain.KindValidation, "app URL must be 1-255 characters")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return domain.E(domain.KindValidation, "app URL is invalid")
	}
	return nil
}

func (s *AppService) List(ctx context.Context, operatorID int64) ([]domain.App, error) {
	return s.apps.ListByOwner(ctx, operatorID)
}

// Create appends the new app at the end of the owner's ranking.
func (s *AppService) Create(ctx context.Context, operatorID int64, in AppInput) (*domain.App, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	total, err := s.apps.CountByOwner(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	a := &domain.App{
		Name:        in.Name,
		URL:         in.URL,
		Description: in.Description,
		Icon:        in.Icon,
		Index:       int(total),
		OwnerID:     operatorID,
	}
	if err := s.apps.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppService) Update(ctx context.Context, operatorID int64, in UpdateAppInput) (*domain.App, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	a, err := s.apps.FindOwnedByID(ctx, operatorID, in.ID)
	if err != nil {
		return nil, err
	}
	a.Name = in.Name
	a.URL = in.URL
	a.Description = in.Description
	a.Icon = in.Icon
	if err := s.apps.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete tombstones the app. Remaining indices are not renumbered; gaps stay
// until the owner's next resequence.
func (s *AppService) Delete(ctx context.Context, operatorID, id int64) error {
	return s.apps.SoftDelete(ctx, operatorID, id)
}

// Resequence assigns index i to orderedIDs[i], atomically.
func (s *AppService) Resequence(ctx context.Context, operatorID int64, orderedIDs []int64) error {
	return s.apps.Resequence(ctx, operatorID, orderedIDs)
}
