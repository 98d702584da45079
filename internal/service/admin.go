package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/edcastillob/rifas/internal/domain"
	"github.com/edcastillob/rifas/internal/repository"
)

var (
	ErrRoleNotFound  = repository.ErrRoleNotFound
	ErrRoleProtected = repository.ErrRoleProtected
)

type AdminRoleRepository interface {
	CreateAdmin(ctx context.Context, user domain.User) (domain.UserRole, error)
	FindAll(ctx context.Context) ([]domain.UserRole, error)
	Upsert(ctx context.Context, userID uint, role domain.Role) (domain.UserRole, error)
	Delete(ctx context.Context, userID uint) error
}

// AdminService manages the role table. Protection of the distinguished super
// admin is enforced at the storage layer, not here: the repository surfaces
// ErrRoleProtected whenever the guarded statement refuses a row.
type AdminService struct {
	roleRepo AdminRoleRepository
}

func NewAdminService(roleRepo AdminRoleRepository) *AdminService {
	return &AdminService{
		roleRepo: roleRepo,
	}
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.UserRole, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.roleRepo.FindAll -> %w", err)
	}

	return roles, nil
}

// CreateAdmin signs up a new admin account. The fresh role row carries
// must_change_password = true, forcing a password change on first login.
func (s *AdminService) CreateAdmin(ctx context.Context, email, password string) (domain.UserRole, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return domain.UserRole{}, err
	}

	created, err := s.roleRepo.CreateAdmin(ctx, domain.User{
		Email:    email,
		Password: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.UserRole{}, ErrUserEmailExists
		}

		return domain.UserRole{}, fmt.Errorf("s.roleRepo.CreateAdmin -> %w", err)
	}

	return created, nil
}

// SetRole updates the user's role row if one exists and inserts one
// otherwise.
func (s *AdminService) SetRole(ctx context.Context, userID uint, role domain.Role) (domain.UserRole, error) {
	updated, err := s.roleRepo.Upsert(ctx, userID, role)
	if err != nil {
		if errors.Is(err, repository.ErrRoleProtected) {
			return domain.UserRole{}, ErrRoleProtected
		}

		return domain.UserRole{}, fmt.Errorf("s.roleRepo.Upsert -> %w", err)
	}

	return updated, nil
}

func (s *AdminService) RevokeRole(ctx context.Context, userID uint) error {
	if err := s.roleRepo.Delete(ctx, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoleProtected):
			return ErrRoleProtected
		case errors.Is(err, repository.ErrRoleNotFound):
			return ErrRoleNotFound
		default:
			return fmt.Errorf("s.roleRepo.Delete -> %w", err)
		}
	}

	return nil
}
