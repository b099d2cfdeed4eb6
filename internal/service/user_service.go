package service

import (
	"context"

	"wego/internal/core/authz"
	"wego/internal/core/crypto"
	"wego/internal/core/validate"
	"wego/internal/domain"
)

type UserService struct {
	users  domain.UserRepository
	hasher *crypto.Hasher
	rules  validate.Rules
}

func NewUserService(users domain.UserRepository, hasher *crypto.Hasher, rules validate.Rules) *UserService {
	return &UserService{users: users, hasher: hasher, rules: rules}
}

type CreateUserInput struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	Avatar          *string `json:"avatar"`
}

type UpdateUserInput struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar"`
}

type UpdatePasswordInput struct {
	OldPassword     string `json:"oldPassword"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type UserPage struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

func (s *UserService) Info(ctx context.Context, operatorID int64) (*domain.User, error) {
	return s.users.FindLiveByID(ctx, operatorID)
}

func (s *UserService) List(ctx context.Context, op *domain.User, offset, limit int) (*UserPage, error) {
	if !authz.CanManageUsers(op) {
		return nil, domain.E(domain.KindForbidden, "admin required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{Total: total, Items: items}, nil
}

// Create adds a non-admin account. Only live admins may call it.
func (s *UserService) Create(ctx context.Context, op *domain.User, in CreateUserInput) (*domain.User, error) {
	if !authz.CanManageUsers(op) {
		return nil, domain.E(domain.KindForbidden, "admin required")
	}
	if err := s.rules.Username(in.Username); err != nil {
		return nil, err
	}
	if err := s.rules.Email(in.Email); err != nil {
		return nil, err
	}
	if err := s.rules.PasswordPair(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}
	if in.Avatar != nil && len(*in.Avatar) > 255 {
		return nil, domain.E(domain.KindValidation, "avatar must not exceed 255 characters")
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Avatar:       in.Avatar,
		IsAdmin:      false,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update edits the operator's own profile.
func (s *UserService) Update(ctx context.Context, operatorID int64, in UpdateUserInput) (*domain.User, error) {
	if err := s.rules.Username(in.Username); err != nil {
		return nil, err
	}
	if err := s.rules.Email(in.Email); err != nil {
		return nil, err
	}
	if in.Avatar != nil && len(*in.Avatar) > 255 {
		return nil, domain.E(domain.KindValidation, "avatar must not exceed 255 characters")
	}

	u, err := s.users.FindLiveByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	u.Username = in.Username
	u.Email = in.Email
	u.Avatar = in.Avatar
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete tombstones the target account. Self-deletion is refused before the
// admin check so even an admin cannot lock the instance out of management.
func (s *UserService) Delete(ctx context.Context, op *domain.User, targetID int64) error {
	if op != nil && op.ID == targetID {
		return domain.E(domain.KindForbidden, "cannot delete your own account")
	}
	if !authz.CanDeleteUser(op, targetID) {
		return domain.E(domain.KindForbidden, "admin required")
	}
	return s.users.SoftDelete(ctx, targetID)
}

// UpdatePassword requires the current password to verify before the new one
// is hashed and stored.
func (s *UserService) UpdatePassword(ctx context.Context, operatorID int64, in UpdatePasswordInput) error {
	if len(in.OldPassword) < 8 || len(in.OldPassword) > 30 {
		return domain.E(domain.KindValidation, "password must be 8-30 characters")
	}
	if err := s.rules.PasswordPair(in.Password, in.ConfirmPassword); err != nil {
		return err
	}

	u, err := s.users.FindLiveByID(ctx, operatorID)
	if err != nil {
		return err
	}
	ok, err := s.hasher.Verify(ctx, u.PasswordHash, in.OldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return domain.E(domain.KindForbidden, "old password is incorrect")
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, u.ID, hash)
}
