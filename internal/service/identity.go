package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/repository"
)

type IdentityUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type IdentityRoleRepository interface {
	FindByUserID(ctx context.Context, userID uint) (domain.UserRole, error)
}

// IdentityService resolves the caller's user record and role projection per
// request. It replaces ambient session state: handlers receive an injected
// instance and re-read the role row on every resolution.
type IdentityService struct {
	userRepo IdentityUserRepository
	roleRepo IdentityRoleRepository
}

func NewIdentityService(userRepo IdentityUserRepository, roleRepo IdentityRoleRepository) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// Resolve loads the user and their role row. Absence of a role row means no
// elevated privileges and must-change-password forced false.
func (s *IdentityService) Resolve(ctx context.Context, userID uint) (domain.Identity, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Identity{}, ErrUserNotFound
		}

		return domain.Identity{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	role, err := s.roleRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return domain.Identity{User: user}, nil
		}

		return domain.Identity{}, fmt.Errorf("s.roleRepo.FindByUserID -> %w", err)
	}

	return domain.Identity{
		User:               user,
		HasRole:            true,
		Role:               role.Role,
		MustChangePassword: role.MustChangePassword,
	}, nil
}
