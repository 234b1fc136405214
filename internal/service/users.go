package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/qadesk/qadesk/internal/database"
	"github.com/qadesk/qadesk/internal/model"
)

func (s *qaServiceImpl) GetCallerUserProfile(ctx context.Context, caller model.Principal) (*model.UserProfile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.loadProfile(ctx, caller)
}

func (s *qaServiceImpl) SaveCallerUserProfile(ctx context.Context, caller model.Principal, profile model.UserProfile) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	profile.Name = strings.TrimSpace(profile.Name)
	if err := s.validate(profile); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.db.SaveProfile(ctx, caller, profile)
}

func (s *qaServiceImpl) GetUserProfile(ctx context.Context, caller, user model.Principal) (*model.UserProfile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := s.canAccess(ctx, caller, user); err != nil {
		return nil, fmt.Errorf("%w: can only view your own profile", err)
	}
	return s.loadProfile(ctx, user)
}

func (s *qaServiceImpl) loadProfile(ctx context.Context, principal model.Principal) (*model.UserProfile, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	profile, err := s.db.GetProfile(ctx, principal)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return profile, err
}

func (s *qaServiceImpl) GetCallerUserRole(ctx context.Context, caller model.Principal) (model.UserRole, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.roleOf(ctx, caller)
}

func (s *qaServiceImpl) AssignCallerUserRole(ctx context.Context, caller, user model.Principal, role model.UserRole) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if user.IsAnonymous() {
		return fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if !role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	admin, err := s.isAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("%w: only admins can assign roles", ErrForbidden)
	}
	return s.db.SetRole(ctx, user, role)
}

func (s *qaServiceImpl) IsCallerAdmin(ctx context.Context, caller model.Principal) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.isAdmin(ctx, caller)
}
